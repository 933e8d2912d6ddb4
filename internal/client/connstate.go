package client

// ConnectionState describes the current link status. Transitions are
// driven solely by the supervisor loop: Disconnected → Connecting →
// Connected → Disconnected → … until Stop.
type ConnectionState int32

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
)

func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}
