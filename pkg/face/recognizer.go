package face

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	goface "github.com/Kagami/go-face"
	"github.com/sirupsen/logrus"
)

// go-face always loads the shape predictor from this filename. The file it
// ships is the 5-point variant, which cannot drive blink detection: the
// 68-point predictor (shape_predictor_68_face_landmarks.dat) must be saved
// under this name in FACE_MODELS_DIR.
const predictorFileName = "shape_predictor_5_face_landmarks.dat"

// The 68-point predictor is roughly 95 MiB on disk; the 5-point one is
// under 10 MiB. A size floor distinguishes them without running inference.
const minPredictorFileSize = 50 << 20

// recognizer wraps the dlib-backed go-face recognizer. goface.Recognizer is
// safe for concurrent Recognize calls once constructed, so one instance
// serves every session in the process.
type recognizer struct {
	rec          *goface.Recognizer
	closeOnce    sync.Once
	landmarkWarn sync.Once
}

func New() (ItfFace, error) {
	modelsDir := os.Getenv("FACE_MODELS_DIR")
	if modelsDir == "" {
		modelsDir = "models"
	}

	logrus.Info(fmt.Sprintf("Loading face models from %s...", modelsDir))

	if err := checkPredictorModel(modelsDir); err != nil {
		return nil, err
	}

	rec, err := goface.NewRecognizer(modelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create face recognizer: %w", err)
	}

	logrus.Info("Face models loaded")

	return &recognizer{rec: rec}, nil
}

// checkPredictorModel fails fast when the models directory holds the stock
// 5-point predictor: identity matching would still work but no session
// could ever pass liveness.
func checkPredictorModel(modelsDir string) error {
	path := filepath.Join(modelsDir, predictorFileName)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("shape predictor model not found at %s: %w", path, err)
	}

	if info.Size() < minPredictorFileSize {
		return fmt.Errorf(
			"%s looks like the 5-point predictor (%d bytes); blink detection needs the 68-point predictor saved under this filename",
			path, info.Size(),
		)
	}

	return nil
}

func (r *recognizer) Detect(imgData []byte) ([]Face, error) {
	found, err := r.rec.Recognize(imgData)
	if err != nil {
		return nil, fmt.Errorf("face recognition failed: %w", err)
	}

	faces := make([]Face, 0, len(found))
	for _, f := range found {
		face := Face{
			Rect:       f.Rectangle,
			Descriptor: Descriptor(f.Descriptor),
			Landmarks:  f.Shapes,
		}

		if !HasFullLandmarks(face) {
			r.landmarkWarn.Do(func() {
				logrus.Error(fmt.Sprintf(
					"Shape predictor produced %d landmarks instead of %d; liveness cannot pass with this model",
					len(face.Landmarks), LandmarkCount,
				))
			})
		}

		faces = append(faces, face)
	}

	return faces, nil
}

func (r *recognizer) Close() {
	r.closeOnce.Do(func() {
		r.rec.Close()
	})
}
