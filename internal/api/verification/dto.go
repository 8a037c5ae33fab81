package verification

// Frame statuses sent back over the websocket, one per inbound frame.
const (
	StatusError      = "error"
	StatusFail       = "fail"
	StatusInProgress = "in_progress"
	StatusSuccess    = "success"

	// Handshake-only statuses.
	StatusAuthenticated = "authenticated"
	StatusReady         = "ready"
)

type FrameStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Blinks  *int   `json:"blinks,omitempty"`
}

// TokenMessage is the first message a client must send after the
// websocket upgrade.
type TokenMessage struct {
	Token string `json:"token"`
}
