package verificationService

import (
	"testa/internal/api/verification"
	facePkg "testa/pkg/face"

	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/sirupsen/logrus"
)

// fakeEngine returns a scripted sequence of detection results, one per
// Detect call. The last result repeats once the script runs out.
type fakeEngine struct {
	results [][]facePkg.Face
	errs    []error
	calls   int
}

func (f *fakeEngine) Detect(imgData []byte) ([]facePkg.Face, error) {
	i := f.calls
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	f.calls++
	if f.errs != nil && i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return f.results[i], nil
}

func (f *fakeEngine) Close() {}

func matchingFace(ear float64) facePkg.Face {
	return faceWithDescriptor(facePkg.Descriptor{}, ear)
}

func mismatchingFace() facePkg.Face {
	var d facePkg.Descriptor
	d[0] = 1.0
	return faceWithDescriptor(d, 1.2)
}

// faceWithDescriptor builds a face with a symmetric pair of eyes whose
// aspect ratio is close to the requested value.
func faceWithDescriptor(d facePkg.Descriptor, ear float64) facePkg.Face {
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

	return facePkg.Face{
		Rect:       image.Rect(0, 0, 300, 300),
		Descriptor: d,
		Landmarks:  landmarks,
	}
}

func framePayload(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.White)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test frame: %v", err)
	}

	return []byte(base64.StdEncoding.EncodeToString(buf.Bytes()))
}

func newTestSession(engine facePkg.ItfFace) *Session {
	log := logrus.New()
	log.SetOutput(bytes.NewBuffer(nil))
	return NewSession(log, engine, DefaultConfig(), facePkg.Descriptor{})
}

func TestProcessFrameInvalidPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"not base64", []byte("???not-base64???")},
		{"base64 but not an image", []byte(base64.StdEncoding.EncodeToString([]byte("hello")))},
		{"empty", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sess := newTestSession(&fakeEngine{results: [][]facePkg.Face{{matchingFace(0.4)}}})

			status := sess.ProcessFrame(tc.payload)
			if status.Status != verification.StatusError {
				t.Errorf("status = %q; want %q", status.Status, verification.StatusError)
			}
			if status.Message != "Invalid frame data." {
				t.Errorf("message = %q", status.Message)
			}
			if got := sess.State(); got != (State{}) {
				t.Errorf("state changed on an error frame: %+v", got)
			}
		})
	}
}

func TestProcessFrameDataURLPrefix(t *testing.T) {
	sess := newTestSession(&fakeEngine{results: [][]facePkg.Face{{matchingFace(0.4)}}})

	payload := append([]byte("data:image/png;base64,"), framePayload(t)...)
	status := sess.ProcessFrame(payload)
	if status.Status != verification.StatusInProgress {
		t.Errorf("status = %q; want %q", status.Status, verification.StatusInProgress)
	}
}

func TestProcessFrameDetectError(t *testing.T) {
	sess := newTestSession(&fakeEngine{
		results: [][]facePkg.Face{nil},
		errs:    []error{errors.New("jpeg load failed")},
	})

	status := sess.ProcessFrame(framePayload(t))
	if status.Status != verification.StatusError {
		t.Errorf("status = %q; want %q", status.Status, verification.StatusError)
	}
	if status.Message != "Invalid frame data." {
		t.Errorf("message = %q", status.Message)
	}
}

func TestProcessFrameNoFace(t *testing.T) {
	sess := newTestSession(&fakeEngine{results: [][]facePkg.Face{{}}})

	status := sess.ProcessFrame(framePayload(t))
	if status.Status != verification.StatusFail {
		t.Errorf("status = %q; want %q", status.Status, verification.StatusFail)
	}
	if status.Message != "No face detected." {
		t.Errorf("message = %q", status.Message)
	}
	if got := sess.State(); got != (State{}) {
		t.Errorf("state changed on a faceless frame: %+v", got)
	}
}

func TestProcessFrameMultipleFaces(t *testing.T) {
	sess := newTestSession(&fakeEngine{results: [][]facePkg.Face{
		{matchingFace(0.4), matchingFace(0.4)},
	}})

	status := sess.ProcessFrame(framePayload(t))
	if status.Status != verification.StatusFail {
		t.Errorf("status = %q; want %q", status.Status, verification.StatusFail)
	}
	if status.Message != "Multiple faces detected." {
		t.Errorf("message = %q", status.Message)
	}
	if got := sess.State(); got != (State{}) {
		t.Errorf("state changed on a multi-face frame: %+v", got)
	}
}

// A full happy path: identity match, three closed-eye frames, a reopen
// that completes the blink, then success on the following frame.
func TestProcessFrameBlinkSequence(t *testing.T) {
	engine := &fakeEngine{results: [][]facePkg.Face{
		{matchingFace(0.4)}, // open
		{matchingFace(0.1)}, // closed
		{matchingFace(0.1)}, // closed
		{matchingFace(0.1)}, // closed
		{matchingFace(0.4)}, // reopen, blink counted, liveness passes
		{matchingFace(0.4)}, // success
	}}
	sess := newTestSession(engine)
	frame := framePayload(t)

	for i := 0; i < 5; i++ {
		status := sess.ProcessFrame(frame)
		if status.Status != verification.StatusInProgress {
			t.Fatalf("frame %d: status = %q; want %q", i, status.Status, verification.StatusInProgress)
		}
	}

	if got := sess.State(); !got.LivenessConfirmed || got.TotalBlinks != 1 {
		t.Fatalf("after blink: state = %+v", got)
	}

	status := sess.ProcessFrame(frame)
	if status.Status != verification.StatusSuccess {
		t.Fatalf("final status = %q; want %q", status.Status, verification.StatusSuccess)
	}
	if status.Message != "Verification and Liveness Passed!" {
		t.Errorf("message = %q", status.Message)
	}

	// Extra frames are answered with the terminal status and do not
	// mutate anything.
	again := sess.ProcessFrame(frame)
	if again.Status != verification.StatusSuccess {
		t.Errorf("post-success status = %q", again.Status)
	}
}

func TestProcessFrameMismatchFails(t *testing.T) {
	sess := newTestSession(&fakeEngine{results: [][]facePkg.Face{{mismatchingFace()}}})

	status := sess.ProcessFrame(framePayload(t))
	if status.Status != verification.StatusFail {
		t.Fatalf("status = %q; want %q", status.Status, verification.StatusFail)
	}
	if status.Message != "Verification Failed: User does not match." {
		t.Errorf("message = %q", status.Message)
	}
	if got := sess.State(); got != (State{}) {
		t.Errorf("state = %+v; want zero", got)
	}
}

func TestAdvanceMismatchVoidsAllProgress(t *testing.T) {
	cfg := DefaultConfig()
	st := State{ConsecLowEAR: 2, TotalBlinks: 1}

	st, status := advance(st, observation{distance: 1.5, avgEAR: 0.4, earValid: true}, cfg)
	if status.Status != verification.StatusFail {
		t.Fatalf("status = %q; want %q", status.Status, verification.StatusFail)
	}
	if st != (State{}) {
		t.Errorf("state not reset: %+v", st)
	}
}

// After a mismatch the session is not locked out: a matching face and a
// full blink sequence still complete the verification.
func TestProcessFrameRecoveryAfterMismatch(t *testing.T) {
	engine := &fakeEngine{results: [][]facePkg.Face{
		{mismatchingFace()}, // wrong person
		{matchingFace(0.1)}, // closed
		{matchingFace(0.1)}, // closed
		{matchingFace(0.1)}, // closed
		{matchingFace(0.4)}, // reopen
		{matchingFace(0.4)}, // success
	}}
	sess := newTestSession(engine)
	frame := framePayload(t)

	if status := sess.ProcessFrame(frame); status.Status != verification.StatusFail {
		t.Fatalf("mismatch status = %q; want %q", status.Status, verification.StatusFail)
	}

	var last verification.FrameStatus
	for i := 0; i < 5; i++ {
		last = sess.ProcessFrame(frame)
	}

	if last.Status != verification.StatusSuccess {
		t.Errorf("final status = %q (%s); want %q", last.Status, last.Message, verification.StatusSuccess)
	}
}

// Blinks from the wrong face never count: every mismatching frame resets
// the counters before any liveness bookkeeping can happen.
func TestAdvanceNoBlinksBeforeIdentity(t *testing.T) {
	cfg := DefaultConfig()
	st := State{}

	for i := 0; i < 4; i++ {
		st, _ = advance(st, observation{distance: 1.5, avgEAR: 0.1, earValid: true}, cfg)
	}
	st, _ = advance(st, observation{distance: 1.5, avgEAR: 0.4, earValid: true}, cfg)

	if st.TotalBlinks != 0 || st.LivenessConfirmed {
		t.Errorf("state = %+v; want no liveness progress", st)
	}
}

func TestAdvanceShortClosureIsNotABlink(t *testing.T) {
	cfg := DefaultConfig()
	st := State{}

	// Two closed frames, below the three-frame minimum.
	for i := 0; i < 2; i++ {
		st, _ = advance(st, observation{distance: 0.1, avgEAR: 0.1, earValid: true}, cfg)
	}
	st, status := advance(st, observation{distance: 0.1, avgEAR: 0.4, earValid: true}, cfg)

	if st.TotalBlinks != 0 {
		t.Errorf("TotalBlinks = %d; want 0", st.TotalBlinks)
	}
	if st.ConsecLowEAR != 0 {
		t.Errorf("ConsecLowEAR = %d; want 0", st.ConsecLowEAR)
	}
	if status.Status != verification.StatusInProgress {
		t.Errorf("status = %q", status.Status)
	}
	if status.Message != "Blink 0/1 times." {
		t.Errorf("message = %q", status.Message)
	}
}

func TestAdvanceIdentityNotRecheckedAfterPass(t *testing.T) {
	cfg := DefaultConfig()

	st, _ := advance(State{}, observation{distance: 0.1, avgEAR: 0.4, earValid: true}, cfg)
	if !st.IdentityConfirmed {
		t.Fatal("identity not confirmed on matching frame")
	}

	// A later frame with a large distance must not void progress once
	// identity has passed.
	st, status := advance(st, observation{distance: 1.5, avgEAR: 0.4, earValid: true}, cfg)
	if !st.IdentityConfirmed {
		t.Error("identity voided after it had passed")
	}
	if status.Status != verification.StatusInProgress {
		t.Errorf("status = %q", status.Status)
	}
}

// A predictor that only yields 5 landmark points lets identity pass but
// can never feed the blink counters: the session must stay in progress
// instead of silently succeeding or failing.
func TestProcessFrameFivePointLandmarksNeverPassLiveness(t *testing.T) {
	fivePointFace := facePkg.Face{
		Rect:      image.Rect(0, 0, 300, 300),
		Landmarks: make([]image.Point, 5),
	}
	sess := newTestSession(&fakeEngine{results: [][]facePkg.Face{{fivePointFace}}})
	frame := framePayload(t)

	for i := 0; i < 50; i++ {
		status := sess.ProcessFrame(frame)
		if status.Status != verification.StatusInProgress {
			t.Fatalf("frame %d: status = %q; want %q", i, status.Status, verification.StatusInProgress)
		}
	}

	got := sess.State()
	if !got.IdentityConfirmed {
		t.Error("identity not confirmed")
	}
	if got.LivenessConfirmed || got.TotalBlinks != 0 || got.Done {
		t.Errorf("liveness progressed without eye landmarks: %+v", got)
	}
}

func TestAdvanceInvalidEARContributesNothing(t *testing.T) {
	cfg := DefaultConfig()
	st := State{IdentityConfirmed: true, ConsecLowEAR: 2}

	st, status := advance(st, observation{distance: 0.1, earValid: false}, cfg)
	if st.ConsecLowEAR != 2 {
		t.Errorf("ConsecLowEAR = %d; want 2", st.ConsecLowEAR)
	}
	if status.Status != verification.StatusInProgress {
		t.Errorf("status = %q", status.Status)
	}
}

func TestConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("VERIFY_MATCH_TOLERANCE", "0.5")
	t.Setenv("VERIFY_EYE_AR_THRESHOLD", "0.3")
	t.Setenv("VERIFY_EYE_AR_CONSEC_FRAMES", "2")
	t.Setenv("VERIFY_REQUIRED_BLINKS", "3")

	cfg := ConfigFromEnv()
	if cfg.MatchTolerance != 0.5 || cfg.EyeARThreshold != 0.3 ||
		cfg.EyeARConsecFrames != 2 || cfg.RequiredBlinks != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestConfigFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("VERIFY_MATCH_TOLERANCE", "not-a-number")
	t.Setenv("VERIFY_REQUIRED_BLINKS", "-2")

	cfg := ConfigFromEnv()
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v; want defaults", cfg)
	}
}
