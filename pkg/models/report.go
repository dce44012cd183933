package models

import "time"

// Report is the outcome of a single expiration check.
type Report struct {
	Archive             string    `json:"archive"`
	ExpiresAt           time.Time `json:"expires_at"`
	CheckedAt           time.Time `json:"checked_at"`
	State               State     `json:"state"`
	SecondsToExpiration int64     `json:"seconds_to_expiration"`
	DaysRemaining       int       `json:"days_remaining"`
}

// Suppressed reports whether quiet mode hides this report.
func (r *Report) Suppressed(quiet bool) bool {
	return quiet && r.State == StateHealthy
}
