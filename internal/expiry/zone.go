package expiry

import (
	"fmt"
	"time"
)

// TimeResolutionError means a timestamp could not be placed in the local
// calendar: the zone failed to load, the input failed to parse, or the
// classification came out inconsistent.
type TimeResolutionError struct {
	Input string
	Err   error
}

func (e *TimeResolutionError) Error() string {
	return fmt.Sprintf("time resolution failed for %q: %v", e.Input, e.Err)
}

func (e *TimeResolutionError) Unwrap() error {
	return e.Err
}

// LoadZone resolves a zone name. Empty and "Local" return the host zone.
func LoadZone(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &TimeResolutionError{Input: name, Err: err}
	}
	return loc, nil
}

// InZone converts both instants into loc so their calendar days are comparable.
func InZone(loc *time.Location, expiration, now time.Time) (time.Time, time.Time) {
	return expiration.In(loc), now.In(loc)
}
