package face

import (
	"image"
	"math"
)

// Descriptor is a fixed-length identity embedding. Two descriptors of the
// same person sit within a small Euclidean distance of each other.
type Descriptor [128]float32

// Face is one detected face in an image.
type Face struct {
	Rect       image.Rectangle
	Descriptor Descriptor
	// Landmarks follows the 68-point dlib layout. Indexes 36-41 are the
	// left eye, 42-47 the right eye.
	Landmarks []image.Point
}

// ItfFace is the process-wide face capability. The model weights are loaded
// once and used read-only, so a single instance is shared by every
// verification session.
type ItfFace interface {
	// Detect returns every face found in an encoded (JPEG) image.
	Detect(imgData []byte) ([]Face, error)
	Close()
}

// Landmark windows of the 68-point shape layout.
const (
	LeftEyeStart  = 36
	LeftEyeEnd    = 42
	RightEyeStart = 42
	RightEyeEnd   = 48
	LandmarkCount = 68
)

// HasFullLandmarks reports whether a detected face carries the complete
// 68-point layout. Blink tracking reads the eye windows above, so a face
// from a 5-point predictor contributes nothing to liveness.
func HasFullLandmarks(f Face) bool {
	return len(f.Landmarks) >= LandmarkCount
}

// Distance is the Euclidean distance between two descriptors. Lower is a
// closer identity match.
func Distance(a, b Descriptor) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
