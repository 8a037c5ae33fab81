package face

import (
	"image"
	"os"
	"path/filepath"
	"testing"
)

func writePredictorStub(t *testing.T, dir string, size int64) {
	t.Helper()

	path := filepath.Join(dir, predictorFileName)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create predictor stub: %v", err)
	}
	if err := f.Truncate(size); err != nil {
		t.Fatalf("truncate predictor stub: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close predictor stub: %v", err)
	}
}

func TestCheckPredictorModel(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if err := checkPredictorModel(t.TempDir()); err == nil {
			t.Error("no error for an empty models directory")
		}
	})

	t.Run("5-point sized file rejected", func(t *testing.T) {
		dir := t.TempDir()
		writePredictorStub(t, dir, 9<<20)

		if err := checkPredictorModel(dir); err == nil {
			t.Error("no error for a 5-point sized predictor")
		}
	})

	t.Run("68-point sized file accepted", func(t *testing.T) {
		dir := t.TempDir()
		writePredictorStub(t, dir, 95<<20)

		if err := checkPredictorModel(dir); err != nil {
			t.Errorf("checkPredictorModel: %v", err)
		}
	})
}

func TestHasFullLandmarks(t *testing.T) {
	tests := []struct {
		name   string
		points int
		want   bool
	}{
		{"5-point predictor output", 5, false},
		{"empty", 0, false},
		{"one short of full", LandmarkCount - 1, false},
		{"full 68-point layout", LandmarkCount, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := Face{Landmarks: make([]image.Point, tc.points)}
			if got := HasFullLandmarks(f); got != tc.want {
				t.Errorf("HasFullLandmarks(%d points) = %v; want %v", tc.points, got, tc.want)
			}
		})
	}
}

func TestDistance(t *testing.T) {
	var a, b Descriptor
	if got := Distance(a, b); got != 0 {
		t.Errorf("Distance(zero, zero) = %v; want 0", got)
	}

	b[0] = 3
	b[1] = 4
	if got := Distance(a, b); got != 5 {
		t.Errorf("Distance = %v; want 5", got)
	}
}
