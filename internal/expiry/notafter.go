package expiry

import (
	"fmt"
	"strings"
	"time"
)

// Layout of the "notAfter" field as printed by OpenSSL, e.g.
// "Mar 10 23:00:00 2024 GMT". Single-digit days are space padded.
const openSSLLayout = "Jan _2 15:04:05 2006 GMT"

// ParseNotAfter parses an OpenSSL-style expiration string. A leading
// "notAfter=" is accepted. The zone must be GMT or UTC.
func ParseNotAfter(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "notAfter=")
	s = strings.Join(strings.Fields(s), " ")

	if !strings.HasSuffix(s, " GMT") && !strings.HasSuffix(s, " UTC") {
		return time.Time{}, &TimeResolutionError{Input: raw, Err: fmt.Errorf("expected a GMT or UTC timestamp")}
	}

	// Fields collapsed the padding, so parse with a non-padded day.
	t, err := time.Parse("Jan 2 15:04:05 2006 MST", s)
	if err != nil {
		return time.Time{}, &TimeResolutionError{Input: raw, Err: err}
	}
	return t.UTC(), nil
}

// FormatNotAfter renders t the way ParseNotAfter reads it.
func FormatNotAfter(t time.Time) string {
	return t.UTC().Format(openSSLLayout)
}
