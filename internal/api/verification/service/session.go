package verificationService

import (
	"testa/internal/api/verification"
	facePkg "testa/pkg/face"

	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Config carries the matching and liveness thresholds. Defaults follow the
// values the ocular-blink literature settled on; every one can be tuned per
// deployment through the environment.
type Config struct {
	// MatchTolerance is the maximum descriptor distance still accepted as
	// the same person.
	MatchTolerance float64
	// EyeARThreshold is the eye aspect ratio under which an eye counts as
	// closed.
	EyeARThreshold float64
	// EyeARConsecFrames is how many consecutive closed-eye frames make a
	// blink once the eyes reopen.
	EyeARConsecFrames int
	// RequiredBlinks is how many blinks prove liveness.
	RequiredBlinks int
}

func DefaultConfig() Config {
	return Config{
		MatchTolerance:    0.6,
		EyeARThreshold:    0.25,
		EyeARConsecFrames: 3,
		RequiredBlinks:    1,
	}
}

// ConfigFromEnv starts from the defaults and applies any overrides present
// in the environment. Malformed values are ignored.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v, err := strconv.ParseFloat(os.Getenv("VERIFY_MATCH_TOLERANCE"), 64); err == nil && v > 0 {
		cfg.MatchTolerance = v
	}
	if v, err := strconv.ParseFloat(os.Getenv("VERIFY_EYE_AR_THRESHOLD"), 64); err == nil && v > 0 {
		cfg.EyeARThreshold = v
	}
	if v, err := strconv.Atoi(os.Getenv("VERIFY_EYE_AR_CONSEC_FRAMES")); err == nil && v > 0 {
		cfg.EyeARConsecFrames = v
	}
	if v, err := strconv.Atoi(os.Getenv("VERIFY_REQUIRED_BLINKS")); err == nil && v > 0 {
		cfg.RequiredBlinks = v
	}

	return cfg
}

// State is everything a session remembers between frames.
type State struct {
	IdentityConfirmed bool
	LivenessConfirmed bool
	ConsecLowEAR      int
	TotalBlinks       int
	Done              bool
}

// observation is what a single frame contributed: how far the face sits
// from the reference descriptor, and the averaged eye aspect ratio when the
// landmarks allowed computing one.
type observation struct {
	distance float64
	avgEAR   float64
	earValid bool
}

// Session is one websocket client's verification attempt. It is owned by a
// single connection goroutine so it needs no locking.
type Session struct {
	log       *logrus.Logger
	engine    facePkg.ItfFace
	cfg       Config
	reference facePkg.Descriptor
	state     State
}

// NewSession builds a session around an already-encoded reference
// descriptor.
func NewSession(log *logrus.Logger, engine facePkg.ItfFace, cfg Config, reference facePkg.Descriptor) *Session {
	return &Session{
		log:       log,
		engine:    engine,
		cfg:       cfg,
		reference: reference,
	}
}

// State returns a copy of the current session state.
func (s *Session) State() State {
	return s.state
}

// ProcessFrame runs one inbound frame through the full pipeline: decode,
// detect, identity check, blink tracking. It never returns an error; every
// outcome is expressed as a FrameStatus the handler relays verbatim.
func (s *Session) ProcessFrame(payload []byte) verification.FrameStatus {
	if s.state.Done {
		return successStatus()
	}

	imgData, err := decodeFramePayload(payload)
	if err != nil {
		return verification.FrameStatus{
			Status:  verification.StatusError,
			Message: "Invalid frame data.",
		}
	}

	faces, err := s.engine.Detect(imgData)
	if err != nil {
		s.log.Warn(fmt.Sprintf("Face detection failed on frame: %v", err))
		return verification.FrameStatus{
			Status:  verification.StatusError,
			Message: "Invalid frame data.",
		}
	}

	if len(faces) == 0 {
		return verification.FrameStatus{
			Status:  verification.StatusFail,
			Message: "No face detected.",
		}
	}
	if len(faces) > 1 {
		return verification.FrameStatus{
			Status:  verification.StatusFail,
			Message: "Multiple faces detected.",
		}
	}

	obs := observation{
		distance: facePkg.Distance(s.reference, faces[0].Descriptor),
	}
	obs.avgEAR, obs.earValid = averageEyeAspectRatio(faces[0].Landmarks)

	var status verification.FrameStatus
	s.state, status = advance(s.state, obs, s.cfg)
	return status
}

// advance is the pure transition function of the verification state
// machine. Given the accumulated state and one frame's observation it
// returns the next state and the status to report for that frame.
func advance(st State, obs observation, cfg Config) (State, verification.FrameStatus) {
	if st.Done {
		return st, successStatus()
	}

	// Identity is checked until it passes once. A mismatching face voids
	// all progress, blink counters included.
	if !st.IdentityConfirmed {
		if obs.distance > cfg.MatchTolerance {
			return State{}, verification.FrameStatus{
				Status:  verification.StatusFail,
				Message: "Verification Failed: User does not match.",
			}
		}
		st.IdentityConfirmed = true
	}

	if !st.LivenessConfirmed {
		if obs.earValid {
			if obs.avgEAR < cfg.EyeARThreshold {
				st.ConsecLowEAR++
			} else {
				if st.ConsecLowEAR >= cfg.EyeARConsecFrames {
					st.TotalBlinks++
				}
				st.ConsecLowEAR = 0
			}
		}

		if st.TotalBlinks >= cfg.RequiredBlinks {
			st.LivenessConfirmed = true
		}

		blinks := st.TotalBlinks
		return st, verification.FrameStatus{
			Status:  verification.StatusInProgress,
			Message: fmt.Sprintf("Blink %d/%d times.", st.TotalBlinks, cfg.RequiredBlinks),
			Blinks:  &blinks,
		}
	}

	// Both gates were already passed when this frame arrived.
	st.Done = true
	return st, successStatus()
}

func successStatus() verification.FrameStatus {
	return verification.FrameStatus{
		Status:  verification.StatusSuccess,
		Message: "Verification and Liveness Passed!",
	}
}

// decodeFramePayload accepts the raw websocket text payload: a base64
// string, optionally carrying a data-URL prefix. The decoded bytes must
// parse as an image header.
func decodeFramePayload(payload []byte) ([]byte, error) {
	raw := string(bytes.TrimSpace(payload))
	if idx := indexAfterComma(raw); idx > 0 {
		raw = raw[idx:]
	}

	imgData, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, err
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(imgData)); err != nil {
		return nil, err
	}

	return imgData, nil
}

// indexAfterComma returns the position right after the comma of a
// "data:image/...;base64," prefix, or 0 when the payload has none.
func indexAfterComma(raw string) int {
	if len(raw) < 5 || raw[:5] != "data:" {
		return 0
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] == ',' {
			return i + 1
		}
	}
	return 0
}
