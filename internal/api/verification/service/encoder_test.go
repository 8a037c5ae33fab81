package verificationService

import (
	"testa/internal/api/verification"
	facePkg "testa/pkg/face"

	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func referenceImage(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode reference image: %v", err)
	}
	return buf.Bytes()
}

func newEncoderService(engine facePkg.ItfFace) *verificationService {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &verificationService{
		log:        log,
		engine:     engine,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		cfg:        DefaultConfig(),
	}
}

func TestBuildReferenceDescriptor(t *testing.T) {
	var want facePkg.Descriptor
	want[3] = 0.5

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(referenceImage(t))
	}))
	defer srv.Close()

	svc := newEncoderService(&fakeEngine{results: [][]facePkg.Face{
		{faceWithDescriptor(want, 0.4)},
	}})

	got, err := svc.buildReferenceDescriptor(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("buildReferenceDescriptor: %v", err)
	}
	if got != want {
		t.Errorf("descriptor = %v; want %v", got[:4], want[:4])
	}
}

func TestBuildReferenceDescriptorNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	svc := newEncoderService(&fakeEngine{results: [][]facePkg.Face{nil}})

	_, err := svc.buildReferenceDescriptor(context.Background(), srv.URL)
	if !errors.Is(err, verification.ErrReferenceUnreachable) {
		t.Errorf("err = %v; want ErrReferenceUnreachable", err)
	}
}

func TestBuildReferenceDescriptorNonImageBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>definitely not a portrait</html>"))
	}))
	defer srv.Close()

	svc := newEncoderService(&fakeEngine{results: [][]facePkg.Face{nil}})

	_, err := svc.buildReferenceDescriptor(context.Background(), srv.URL)
	if !errors.Is(err, verification.ErrReferenceUnreachable) {
		t.Errorf("err = %v; want ErrReferenceUnreachable", err)
	}
}

// A transient 5xx is retried and the second attempt succeeds.
func TestBuildReferenceDescriptorRetriesServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write(referenceImage(t))
	}))
	defer srv.Close()

	svc := newEncoderService(&fakeEngine{results: [][]facePkg.Face{
		{matchingFace(0.4)},
	}})

	if _, err := svc.buildReferenceDescriptor(context.Background(), srv.URL); err != nil {
		t.Fatalf("buildReferenceDescriptor: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("fetch attempts = %d; want 2", got)
	}
}

// A fetched image the engine cannot process is distinct from one with no
// face in it: the caller sees a processing failure, not a face-count one.
func TestBuildReferenceDescriptorDetectError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(referenceImage(t))
	}))
	defer srv.Close()

	svc := newEncoderService(&fakeEngine{
		results: [][]facePkg.Face{nil},
		errs:    []error{errors.New("unsupported image type")},
	})

	_, err := svc.buildReferenceDescriptor(context.Background(), srv.URL)
	if !errors.Is(err, verification.ErrReferenceUnreadable) {
		t.Errorf("err = %v; want ErrReferenceUnreadable", err)
	}
}

func TestBuildReferenceDescriptorNoFace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(referenceImage(t))
	}))
	defer srv.Close()

	svc := newEncoderService(&fakeEngine{results: [][]facePkg.Face{{}}})

	_, err := svc.buildReferenceDescriptor(context.Background(), srv.URL)
	if !errors.Is(err, verification.ErrNoFaceInReference) {
		t.Errorf("err = %v; want ErrNoFaceInReference", err)
	}
}

func TestBuildReferenceDescriptorMultipleFacesUsesFirst(t *testing.T) {
	var first, second facePkg.Descriptor
	first[0] = 0.25
	second[0] = 0.75

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(referenceImage(t))
	}))
	defer srv.Close()

	svc := newEncoderService(&fakeEngine{results: [][]facePkg.Face{
		{faceWithDescriptor(first, 0.4), faceWithDescriptor(second, 0.4)},
	}})

	got, err := svc.buildReferenceDescriptor(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("buildReferenceDescriptor: %v", err)
	}
	if got != first {
		t.Errorf("descriptor[0] = %v; want %v", got[0], first[0])
	}
}
