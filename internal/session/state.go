package session

// State is the controller's per-turn phase. A turn moves from Idle
// through QuotaCheck, Sending, Streaming and Persisting back to Idle.
// Error is reachable from Sending, Streaming and Persisting and always
// returns to Idle.
type State int

const (
	StateIdle State = iota
	StateQuotaCheck
	StateSending
	StateStreaming
	StatePersisting
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateQuotaCheck:
		return "quota_check"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	case StatePersisting:
		return "persisting"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
