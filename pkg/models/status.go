package models

// State is the urgency classification of a certificate's expiration.
type State int

// Urgency states, ordered from most to least urgent.
const (
	StateExpired State = iota
	StateExpiresToday
	StateExpiresTomorrow
	StateExpiresSoon
	StateHealthy
)

// DefaultSoonThresholdDays is the number of calendar days below which a
// certificate is reported as expiring soon rather than healthy.
const DefaultSoonThresholdDays = 14

var stateNames = map[State]string{
	StateExpired:         "expired",
	StateExpiresToday:    "expires_today",
	StateExpiresTomorrow: "expires_tomorrow",
	StateExpiresSoon:     "expires_soon",
	StateHealthy:         "healthy",
}

// AllStates lists every state in urgency order.
func AllStates() []State {
	return []State{StateExpired, StateExpiresToday, StateExpiresTomorrow, StateExpiresSoon, StateHealthy}
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the state by name so JSON reports stay readable.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
