package expiry

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p12expiry/pkg/models"
)

var est = time.FixedZone("EST", -5*60*60)

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestClassify_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		expiration time.Time
		wantState  models.State
		wantDays   int
	}{
		{
			name:       "later the same day",
			now:        time.Date(2024, 3, 10, 9, 0, 0, 0, est),
			expiration: time.Date(2024, 3, 10, 23, 0, 0, 0, est),
			wantState:  models.StateExpiresToday,
			wantDays:   0,
		},
		{
			name:       "yesterday evening",
			now:        time.Date(2024, 3, 10, 9, 0, 0, 0, est),
			expiration: time.Date(2024, 3, 9, 23, 0, 0, 0, est),
			wantState:  models.StateExpired,
			wantDays:   -1,
		},
		{
			name:       "exactly fourteen days",
			now:        time.Date(2024, 3, 10, 0, 0, 0, 0, est),
			expiration: time.Date(2024, 3, 24, 0, 0, 0, 0, est),
			wantState:  models.StateHealthy,
			wantDays:   14,
		},
		{
			name:       "earlier the same day",
			now:        time.Date(2024, 3, 10, 9, 0, 0, 0, est),
			expiration: time.Date(2024, 3, 10, 8, 59, 59, 0, est),
			wantState:  models.StateExpired,
			wantDays:   0,
		},
		{
			name:       "tomorrow just after midnight",
			now:        time.Date(2024, 3, 10, 23, 59, 0, 0, est),
			expiration: time.Date(2024, 3, 11, 0, 1, 0, 0, est),
			wantState:  models.StateExpiresTomorrow,
			wantDays:   1,
		},
		{
			name:       "thirteen days",
			now:        time.Date(2024, 3, 10, 18, 0, 0, 0, est),
			expiration: time.Date(2024, 3, 23, 6, 0, 0, 0, est),
			wantState:  models.StateExpiresSoon,
			wantDays:   13,
		},
		{
			name:       "two days",
			now:        time.Date(2024, 3, 10, 12, 0, 0, 0, est),
			expiration: time.Date(2024, 3, 12, 1, 0, 0, 0, est),
			wantState:  models.StateExpiresSoon,
			wantDays:   2,
		},
		{
			name:       "year away",
			now:        time.Date(2024, 3, 10, 12, 0, 0, 0, est),
			expiration: time.Date(2025, 3, 10, 12, 0, 0, 0, est),
			wantState:  models.StateHealthy,
			wantDays:   365,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify(tt.expiration, tt.now)

			assert.Equal(t, tt.wantState, res.State, "state")
			assert.Equal(t, tt.wantDays, res.DaysRemaining, "days remaining")
			assert.Equal(t, tt.expiration.Unix()-tt.now.Unix(), res.SecondsToExpiration)
			assert.True(t, res.Consistent())
		})
	}
}

func TestClassify_ExactlyNowIsExpired(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, est)

	res := Classify(now, now)

	assert.Equal(t, models.StateExpired, res.State)
	assert.Equal(t, int64(0), res.SecondsToExpiration)
	assert.Equal(t, 0, res.DaysRemaining)
}

func TestClassify_SameTimeOfDay(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, est)

	for d := 1; d <= 60; d++ {
		res := Classify(now.AddDate(0, 0, d), now)
		require.Equal(t, d, res.DaysRemaining, "offset %d", d)
	}
}

func TestClassify_SoonThresholdBoundary(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, est)

	assert.Equal(t, models.StateExpiresSoon, Classify(now.AddDate(0, 0, 13), now).State)
	assert.Equal(t, models.StateHealthy, Classify(now.AddDate(0, 0, 14), now).State)
}

func TestClassifier_CustomThreshold(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, est)
	c := NewClassifier(30)

	assert.Equal(t, 30, c.SoonDays())
	assert.Equal(t, models.StateExpiresSoon, c.Classify(now.AddDate(0, 0, 29), now).State)
	assert.Equal(t, models.StateHealthy, c.Classify(now.AddDate(0, 0, 30), now).State)

	assert.Equal(t, models.DefaultSoonThresholdDays, NewClassifier(0).SoonDays())
	assert.Equal(t, models.DefaultSoonThresholdDays, NewClassifier(1).SoonDays())
}

func TestClassify_Idempotent(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, est)
	expiration := time.Date(2024, 3, 15, 17, 0, 0, 0, est)

	assert.Equal(t, Classify(expiration, now), Classify(expiration, now))
}

func TestClassify_SpringForward(t *testing.T) {
	ny := mustZone(t, "America/New_York")
	// Clocks jump from 02:00 to 03:00 on 2024-03-10.
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, ny)
	expiration := time.Date(2024, 3, 14, 12, 0, 0, 0, ny)

	res := Classify(expiration, now)

	assert.Equal(t, int64(13*secondsPerDay-3600), res.MidnightDeltaSeconds())
	assert.Equal(t, 13, res.DaysRemaining)
	assert.Equal(t, models.StateExpiresSoon, res.State)
}

func TestClassify_FallBack(t *testing.T) {
	ny := mustZone(t, "America/New_York")
	// Clocks go back from 02:00 to 01:00 on 2024-11-03.
	now := time.Date(2024, 10, 21, 12, 0, 0, 0, ny)
	expiration := time.Date(2024, 11, 4, 12, 0, 0, 0, ny)

	res := Classify(expiration, now)

	assert.Equal(t, int64(14*secondsPerDay+3600), res.MidnightDeltaSeconds())
	assert.Equal(t, 14, res.DaysRemaining)
	assert.Equal(t, models.StateHealthy, res.State)
}

func TestClassify_TomorrowAcrossTransition(t *testing.T) {
	ny := mustZone(t, "America/New_York")
	now := time.Date(2024, 3, 10, 22, 0, 0, 0, ny)
	expiration := time.Date(2024, 3, 11, 23, 0, 0, 0, ny)

	res := Classify(expiration, now)

	assert.Equal(t, int64(secondsPerDay-3600), res.MidnightDeltaSeconds())
	assert.Equal(t, models.StateExpiresTomorrow, res.State)
}

func TestClassify_UTCExpirationConvertedToLocal(t *testing.T) {
	// 02:00 UTC on the 11th is still the evening of the 10th in EST.
	expiration := time.Date(2024, 3, 11, 2, 0, 0, 0, time.UTC)
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, est)

	exp, n := InZone(est, expiration, now)
	res := Classify(exp, n)

	assert.Equal(t, 0, res.DaysRemaining)
	assert.Equal(t, models.StateExpiresToday, res.State)
}

func TestClassifier_CheckRejectsMixedZones(t *testing.T) {
	// Half an hour in the future, but on an earlier calendar date than now.
	now := time.Date(2024, 3, 11, 0, 30, 0, 0, time.FixedZone("east", 14*60*60))
	expiration := time.Date(2024, 3, 9, 23, 0, 0, 0, time.FixedZone("west", -12*60*60))
	require.Greater(t, expiration.Unix(), now.Unix())
	require.Equal(t, -1, Classify(expiration, now).DaysRemaining)

	_, err := NewClassifier(models.DefaultSoonThresholdDays).Check(expiration, now)

	var tre *TimeResolutionError
	require.ErrorAs(t, err, &tre)
}

func TestClassifier_CheckAcceptsConsistentInput(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, est)

	res, err := NewClassifier(14).Check(now.Add(72*time.Hour), now)

	require.NoError(t, err)
	assert.Equal(t, 3, res.DaysRemaining)
}

func TestLocalMidnight(t *testing.T) {
	ts := time.Date(2024, 3, 10, 17, 45, 12, 99, est)

	m := LocalMidnight(ts)

	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, est), m)
	assert.Equal(t, est, m.Location())
}

func TestLoadZone(t *testing.T) {
	loc, err := LoadZone("")
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = LoadZone("Europe/Berlin")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())

	_, err = LoadZone("Mars/Olympus_Mons")
	var tre *TimeResolutionError
	require.ErrorAs(t, err, &tre)
	assert.Equal(t, "Mars/Olympus_Mons", tre.Input)
}
