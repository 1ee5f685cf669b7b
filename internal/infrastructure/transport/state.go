package transport

// State is the connection lifecycle state of the hub client.
type State string

const (
	StateDisconnected State = "DISCONNECTED"
	StateConnecting   State = "CONNECTING"
	StateRegistering  State = "REGISTERING"
	StateConnected    State = "CONNECTED"
)

func (s State) String() string {
	return string(s)
}
