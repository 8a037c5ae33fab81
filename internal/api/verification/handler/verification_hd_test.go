package verificationHandler

import (
	"testa/internal/api/verification"
	verificationService "testa/internal/api/verification/service"
	"testa/internal/middleware"
	facePkg "testa/pkg/face"
	jwtPkg "testa/pkg/jwt"

	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// scriptedEngine feeds scripted detection results to the session, one per
// frame. The last entry repeats.
type scriptedEngine struct {
	results [][]facePkg.Face
	calls   int
}

func (e *scriptedEngine) Detect(imgData []byte) ([]facePkg.Face, error) {
	i := e.calls
	if i >= len(e.results) {
		i = len(e.results) - 1
	}
	e.calls++
	return e.results[i], nil
}

func (e *scriptedEngine) Close() {}

type fakeVerificationService struct {
	engine     facePkg.ItfFace
	sessionErr error
	marked     atomic.Bool
}

func (f *fakeVerificationService) NewSessionForUser(ctx context.Context, userID string) (*verificationService.Session, error) {
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return verificationService.NewSession(log, f.engine, verificationService.DefaultConfig(), facePkg.Descriptor{}), nil
}

func (f *fakeVerificationService) MarkVerified(ctx context.Context, userID string) error {
	f.marked.Store(true)
	return nil
}

// eyeFace builds a matching face whose eye aspect ratio lands close to the
// requested value.
func eyeFace(ear float64) facePkg.Face {
	landmarks := make([]image.Point, facePkg.LandmarkCount)

	height := int(ear * 100)
	eye := func(offset int) []image.Point {
		return []image.Point{
			{X: offset, Y: 100},
			{X: offset + 30, Y: 100 - height/2},
			{X: offset + 70, Y: 100 - height/2},
			{X: offset + 100, Y: 100},
			{X: offset + 70, Y: 100 + height/2},
			{X: offset + 30, Y: 100 + height/2},
		}
	}

	copy(landmarks[facePkg.LeftEyeStart:facePkg.LeftEyeEnd], eye(0))
	copy(landmarks[facePkg.RightEyeStart:facePkg.RightEyeEnd], eye(200))

	return facePkg.Face{Rect: image.Rect(0, 0, 300, 300), Landmarks: landmarks}
}

func frameMessage(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode frame: %v", err)
	}
	return []byte(base64.StdEncoding.EncodeToString(buf.Bytes()))
}

// startTestServer runs the verification routes on a random port and
// returns the websocket URL.
func startTestServer(t *testing.T, svc verificationService.IVerificationService) string {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler := New(log, validator.New(), middleware.New(log), svc)
	handler.Start(app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	go func() {
		if err := app.Listener(ln); err != nil {
			log.Error(err)
		}
	}()
	t.Cleanup(func() {
		_ = app.Shutdown()
	})

	return fmt.Sprintf("ws://%s/verification/ws", ln.Addr().String())
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	var conn *websocket.Conn
	var err error
	for i := 0; i < 20; i++ {
		conn, _, err = websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

func readStatus(t *testing.T, conn *websocket.Conn) verification.FrameStatus {
	t.Helper()

	var status verification.FrameStatus
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}
	if err := conn.ReadJSON(&status); err != nil {
		t.Fatalf("read status: %v", err)
	}
	return status
}

func expectClose(t *testing.T, conn *websocket.Conn, code int) {
	t.Helper()

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("set read deadline: %v", err)
	}
	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) {
		t.Fatalf("read after close: %v; want a close frame", err)
	}
	if closeErr.Code != code {
		t.Errorf("close code = %d; want %d", closeErr.Code, code)
	}
}

func TestWebSocketRejectsInvalidToken(t *testing.T) {
	t.Setenv(jwtPkg.AccessTokenSecretEnv, "access-secret")

	svc := &fakeVerificationService{engine: &scriptedEngine{results: [][]facePkg.Face{nil}}}
	url := startTestServer(t, svc)

	conn := dial(t, url)
	if err := conn.WriteJSON(verification.TokenMessage{Token: "garbage"}); err != nil {
		t.Fatalf("write token: %v", err)
	}

	expectClose(t, conn, websocket.ClosePolicyViolation)
}

func TestWebSocketSessionSetupFailure(t *testing.T) {
	t.Setenv(jwtPkg.AccessTokenSecretEnv, "access-secret")

	svc := &fakeVerificationService{sessionErr: verification.ErrMissingReferencePortrait}
	url := startTestServer(t, svc)

	conn := dial(t, url)
	if err := conn.WriteJSON(verification.TokenMessage{Token: signTestToken(t)}); err != nil {
		t.Fatalf("write token: %v", err)
	}

	if status := readStatus(t, conn); status.Status != verification.StatusAuthenticated {
		t.Fatalf("status = %q; want %q", status.Status, verification.StatusAuthenticated)
	}

	expectClose(t, conn, websocket.CloseInternalServerErr)
}

func TestWebSocketFullVerificationFlow(t *testing.T) {
	t.Setenv(jwtPkg.AccessTokenSecretEnv, "access-secret")

	engine := &scriptedEngine{results: [][]facePkg.Face{
		{eyeFace(0.1)}, // closed
		{eyeFace(0.1)}, // closed
		{eyeFace(0.1)}, // closed
		{eyeFace(0.4)}, // reopen, blink counted
		{eyeFace(0.4)}, // success
	}}
	svc := &fakeVerificationService{engine: engine}
	url := startTestServer(t, svc)

	conn := dial(t, url)
	if err := conn.WriteJSON(verification.TokenMessage{Token: signTestToken(t)}); err != nil {
		t.Fatalf("write token: %v", err)
	}

	if status := readStatus(t, conn); status.Status != verification.StatusAuthenticated {
		t.Fatalf("status = %q; want %q", status.Status, verification.StatusAuthenticated)
	}
	if status := readStatus(t, conn); status.Status != verification.StatusReady {
		t.Fatalf("status = %q; want %q", status.Status, verification.StatusReady)
	}

	frame := frameMessage(t)
	var last verification.FrameStatus
	for i := 0; i < 5; i++ {
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			t.Fatalf("write frame %d: %v", i, err)
		}
		last = readStatus(t, conn)
	}

	if last.Status != verification.StatusSuccess {
		t.Fatalf("final status = %q (%s); want %q", last.Status, last.Message, verification.StatusSuccess)
	}

	expectClose(t, conn, websocket.CloseNormalClosure)

	if !svc.marked.Load() {
		t.Error("verification success was not recorded")
	}
}

func signTestToken(t *testing.T) string {
	t.Helper()

	token, _, err := jwtPkg.Sign(map[string]interface{}{
		"id":       "01J0TESTUSER",
		"email":    "student@example.com",
		"is_admin": false,
	}, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}
