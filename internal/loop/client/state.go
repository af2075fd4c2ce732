package client

// ClientState holds host-side session flags that sit outside the game
// itself.
type ClientState struct {
	Running       bool    // Client loop running
	shuttingDown  bool    // Server asked everyone to leave
	shutdownTimer float64 // Countdown before auto-disconnect on shutdown
	isInactive    bool    // Whether the client is in inactive warning state
	message       string  // Last server notice
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{Running: true}
}
