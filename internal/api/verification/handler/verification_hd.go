package verificationHandler

import (
	"testa/internal/api/verification"
	jwtPkg "testa/pkg/jwt"

	"fmt"
	"time"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/net/context"
)

const (
	authReadTimeout  = 30 * time.Second
	frameReadTimeout = 60 * time.Second
	writeTimeout     = 10 * time.Second
	setupTimeout     = 30 * time.Second
)

// handleVerificationWebSocket drives one verification attempt over a
// websocket. The client authenticates with its first message, waits for
// "ready", then streams frames and gets one status back per frame. The
// connection closes itself after a success.
func (h *VerificationHandler) handleVerificationWebSocket(c *websocket.Conn) {
	h.log.Info("Verification WebSocket client connected")
	defer h.log.Info("Verification WebSocket client disconnected")

	defer func() {
		if err := c.Close(); err != nil {
			h.log.Debug(fmt.Sprintf("Error closing verification websocket: %v", err))
		}
	}()

	user, ok := h.authenticate(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	session, err := h.verificationService.NewSessionForUser(ctx, user.ID)
	cancel()
	if err != nil {
		h.log.Error(fmt.Sprintf("Failed to build verification session for %s: %v", user.ID, err))
		h.closeWith(c, websocket.CloseInternalServerErr, "Could not initialize from reference image.")
		return
	}

	if !h.writeStatus(c, verification.FrameStatus{
		Status:  verification.StatusReady,
		Message: "Send frames to begin verification.",
	}) {
		return
	}

	for {
		if err := c.SetReadDeadline(time.Now().Add(frameReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				h.log.Errorf("Verification WebSocket error: %v", err)
			} else {
				h.log.Info("Verification WebSocket connection closed")
			}
			break
		}

		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}

		result := session.ProcessFrame(message)
		if !h.writeStatus(c, result) {
			break
		}

		if result.Status == verification.StatusSuccess {
			flagCtx, flagCancel := context.WithTimeout(context.Background(), writeTimeout)
			if err := h.verificationService.MarkVerified(flagCtx, user.ID); err != nil {
				h.log.Error(fmt.Sprintf("Failed to record verification for %s: %v", user.ID, err))
			}
			flagCancel()

			h.closeWith(c, websocket.CloseNormalClosure, "Verification complete.")
			break
		}
	}
}

// authenticate reads the first websocket message, which must carry a valid
// access token. Anything else ends the connection with a policy violation.
func (h *VerificationHandler) authenticate(c *websocket.Conn) (user userIdentity, ok bool) {
	if err := c.SetReadDeadline(time.Now().Add(authReadTimeout)); err != nil {
		h.log.Errorf("Error setting read deadline: %v", err)
		return userIdentity{}, false
	}

	var hello verification.TokenMessage
	if err := c.ReadJSON(&hello); err != nil {
		h.log.Warn(fmt.Sprintf("Verification websocket closed before authentication: %v", err))
		h.closeWith(c, websocket.ClosePolicyViolation, "Token not provided.")
		return userIdentity{}, false
	}

	token, err := jwtPkg.VerifyTokenString(hello.Token, jwtPkg.AccessTokenSecretEnv)
	if err != nil {
		h.log.Warn(fmt.Sprintf("Verification websocket rejected token: %v", err))
		h.closeWith(c, websocket.ClosePolicyViolation, "Invalid token.")
		return userIdentity{}, false
	}

	loginData, err := jwtPkg.UserFromClaims(token)
	if err != nil {
		h.log.Warn(fmt.Sprintf("Verification websocket token missing claims: %v", err))
		h.closeWith(c, websocket.ClosePolicyViolation, "Invalid token.")
		return userIdentity{}, false
	}

	if !h.writeStatus(c, verification.FrameStatus{
		Status:  verification.StatusAuthenticated,
		Message: "Authentication successful.",
	}) {
		return userIdentity{}, false
	}

	return userIdentity{ID: loginData.ID, Email: loginData.Email}, true
}

type userIdentity struct {
	ID    string
	Email string
}

func (h *VerificationHandler) writeStatus(c *websocket.Conn, status verification.FrameStatus) bool {
	if err := c.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		h.log.Errorf("Error setting write deadline: %v", err)
		return false
	}

	if err := c.WriteJSON(status); err != nil {
		h.log.Errorf("Error writing JSON response: %v", err)
		return false
	}

	return true
}

func (h *VerificationHandler) closeWith(c *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	if err := c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout)); err != nil {
		h.log.Debug(fmt.Sprintf("Error sending close frame: %v", err))
	}
}
