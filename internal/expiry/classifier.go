package expiry

import (
	"fmt"
	"math"
	"time"

	"p12expiry/pkg/models"
)

const secondsPerDay = 24 * 60 * 60

// Result holds the classification of one certificate against one instant.
type Result struct {
	State               models.State
	SecondsToExpiration int64
	DaysRemaining       int

	// Local midnights the day count was derived from, kept for debug output.
	MidnightNow        time.Time
	MidnightExpiration time.Time
}

// MidnightDeltaSeconds is the elapsed time between the two local midnights.
// It is a multiple of a day except across daylight-saving transitions.
func (r Result) MidnightDeltaSeconds() int64 {
	return r.MidnightExpiration.Unix() - r.MidnightNow.Unix()
}

// Consistent reports whether the exact and calendar differences agree in sign.
// A future expiration on a past calendar day can only come from mixing time
// zones upstream.
func (r Result) Consistent() bool {
	if r.SecondsToExpiration > 0 && r.DaysRemaining < 0 {
		return false
	}
	if r.SecondsToExpiration <= 0 && r.DaysRemaining > 0 {
		return false
	}
	return true
}

// Classifier maps an expiration instant onto an urgency state.
type Classifier struct {
	soonDays int
}

// NewClassifier returns a classifier reporting ExpiresSoon below soonDays
// calendar days. Values under 2 fall back to the default threshold.
func NewClassifier(soonDays int) *Classifier {
	if soonDays < 2 {
		soonDays = models.DefaultSoonThresholdDays
	}
	return &Classifier{soonDays: soonDays}
}

// SoonDays returns the configured threshold.
func (c *Classifier) SoonDays() int {
	return c.soonDays
}

// Classify compares expiration with now. Both must already be in the zone the
// calendar days are counted in; see InZone.
func (c *Classifier) Classify(expiration, now time.Time) Result {
	seconds := expiration.Unix() - now.Unix()

	midnightExp := LocalMidnight(expiration)
	midnightNow := LocalMidnight(now)

	res := Result{
		SecondsToExpiration: seconds,
		DaysRemaining:       DaysBetween(midnightNow, midnightExp),
		MidnightNow:         midnightNow,
		MidnightExpiration:  midnightExp,
	}

	switch {
	case res.SecondsToExpiration <= 0:
		res.State = models.StateExpired
	case res.DaysRemaining == 0:
		res.State = models.StateExpiresToday
	case res.DaysRemaining == 1:
		res.State = models.StateExpiresTomorrow
	case res.DaysRemaining < c.soonDays:
		res.State = models.StateExpiresSoon
	default:
		res.State = models.StateHealthy
	}

	return res
}

// Check classifies and rejects results whose exact and calendar differences
// disagree.
func (c *Classifier) Check(expiration, now time.Time) (Result, error) {
	res := c.Classify(expiration, now)
	if !res.Consistent() {
		return res, &TimeResolutionError{
			Input: fmt.Sprintf("expires=%s now=%s", expiration.Format(time.RFC3339), now.Format(time.RFC3339)),
			Err: fmt.Errorf("%d seconds but %d calendar days to expiration",
				res.SecondsToExpiration, res.DaysRemaining),
		}
	}
	return res, nil
}

// Classify uses the default soon threshold.
func Classify(expiration, now time.Time) Result {
	return NewClassifier(models.DefaultSoonThresholdDays).Classify(expiration, now)
}

// LocalMidnight returns the instant of 00:00:00 on t's calendar date in t's
// location.
func LocalMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from one local midnight to another.
// Midnights straddling a DST change are an hour short or long of a whole
// number of days, so the quotient is rounded rather than truncated.
func DaysBetween(from, to time.Time) int {
	delta := to.Unix() - from.Unix()
	return int(math.Round(float64(delta) / secondsPerDay))
}
