package renderer

import (
	"fmt"
	"io"
	"time"

	"p12expiry/internal/expiry"
	"p12expiry/pkg/models"
)

// RenderDebug writes the intermediate values behind a classification, one
// "key: value" pair per line.
func RenderDebug(w io.Writer, report *models.Report, res expiry.Result) error {
	lines := []struct {
		key   string
		value any
	}{
		{"now", report.CheckedAt.Format(LocalTimeLayout)},
		{"now_epoch", report.CheckedAt.Unix()},
		{"expires", report.ExpiresAt.Format(LocalTimeLayout)},
		{"expires_epoch", report.ExpiresAt.Unix()},
		{"expires_utc", expiry.FormatNotAfter(report.ExpiresAt)},
		{"seconds_to_expiration", res.SecondsToExpiration},
		{"midnight_now", res.MidnightNow.Format(time.RFC3339)},
		{"midnight_now_epoch", res.MidnightNow.Unix()},
		{"midnight_expires", res.MidnightExpiration.Format(time.RFC3339)},
		{"midnight_expires_epoch", res.MidnightExpiration.Unix()},
		{"midnight_delta_seconds", res.MidnightDeltaSeconds()},
		{"days_remaining", res.DaysRemaining},
		{"state", res.State},
	}

	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s: %v\n", l.key, l.value); err != nil {
			return err
		}
	}
	return nil
}
