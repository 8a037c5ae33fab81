package verificationService

import (
	facePkg "testa/pkg/face"

	"image"
	"math"
)

// eyeAspectRatio computes (|p1-p5| + |p2-p4|) / (2 |p0-p3|) over the six
// landmarks of one eye. The ratio collapses toward zero as the eyelid
// closes. The second return is false when the geometry is degenerate, so a
// bad frame contributes nothing to blink tracking.
func eyeAspectRatio(eye []image.Point) (float64, bool) {
	if len(eye) != 6 {
		return 0, false
	}

	a := pointDistance(eye[1], eye[5])
	b := pointDistance(eye[2], eye[4])
	c := pointDistance(eye[0], eye[3])

	if c < 1e-6 {
		return 0, false
	}

	return (a + b) / (2.0 * c), true
}

// averageEyeAspectRatio averages the two per-eye ratios from a full
// 68-point landmark set.
func averageEyeAspectRatio(landmarks []image.Point) (float64, bool) {
	if len(landmarks) < facePkg.RightEyeEnd {
		return 0, false
	}

	left, okLeft := eyeAspectRatio(landmarks[facePkg.LeftEyeStart:facePkg.LeftEyeEnd])
	right, okRight := eyeAspectRatio(landmarks[facePkg.RightEyeStart:facePkg.RightEyeEnd])
	if !okLeft || !okRight {
		return 0, false
	}

	return (left + right) / 2.0, true
}

func pointDistance(p, q image.Point) float64 {
	dx := float64(p.X - q.X)
	dy := float64(p.Y - q.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
