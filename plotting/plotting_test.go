package plotting

import (
	"gonum.org/v1/gonum/mat"

	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func checkFile(t *testing.T, path string) {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected %q to be written: %v", path, err)
	} else if info.Size() == 0 {
		t.Fatalf("%q is empty", path)
	}
}

func noisy(n int, seed int64) (labels, preds []float64) {
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		l := 7 + 9*rng.Float64()
		labels = append(labels, l)
		preds = append(preds, l+rng.NormFloat64())
	}
	return
}

func TestBandShare(t *testing.T) {
	labels := []float64{10, 10, 10, 10, 10}
	preds := []float64{10, 11, 12.8, 7.1, 4}

	share, outside, err := BandShare(labels, preds, 2.8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// a prediction on the limit is beyond the band
	if outside != 3 || math.Abs(share-0.4) > 1e-12 {
		t.Fatalf("expected 3 outside and a share of 0.4, got %d and %v", outside, share)
	}

	if _, _, err := BandShare(labels, preds[:2], 2.8); err == nil {
		t.Fatalf("expected error for mismatched lengths")
	}
}

func TestCharts(t *testing.T) {
	dir := t.TempDir()
	labels, preds := noisy(60, 1)

	train := []float64{3, 2, 1.5, 1.2, 1.1}
	test := []float64{3.2, 2.4, 1.9, 1.7, 1.7}

	if err := TrainingHistory(train, test, "", filepath.Join(dir, "history.png")); err != nil {
		t.Fatalf("TrainingHistory: %v", err)
	}
	checkFile(t, filepath.Join(dir, "history.png"))

	// missing directories are created
	path := filepath.Join(dir, "nested", "history.svg")
	if err := History(train, test, 1.234, 0.9, false, path); err != nil {
		t.Fatalf("History: %v", err)
	}
	checkFile(t, path)

	if err := Validation(labels, preds, ValidationOptions{}, filepath.Join(dir, "val.png")); err != nil {
		t.Fatalf("Validation: %v", err)
	}
	checkFile(t, filepath.Join(dir, "val.png"))

	if err := ErrorHistogram(labels, preds, HistogramOptions{Deviation: 3}, filepath.Join(dir, "err.png")); err != nil {
		t.Fatalf("ErrorHistogram: %v", err)
	}
	checkFile(t, filepath.Join(dir, "err.png"))

	if err := Prediction(labels, preds, filepath.Join(dir, "pred.png")); err != nil {
		t.Fatalf("Prediction: %v", err)
	}
	checkFile(t, filepath.Join(dir, "pred.png"))

	if err := TrainingHistory(nil, nil, "", filepath.Join(dir, "none.png")); err == nil {
		t.Fatalf("expected error for empty history")
	}
	if err := Validation(labels, preds[:3], ValidationOptions{}, filepath.Join(dir, "bad.png")); err == nil {
		t.Fatalf("expected error for mismatched lengths")
	}
	if err := TrainingHistory(train, test, "", filepath.Join(dir, "history.bmp")); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func spectra(n, length int, seed int64) (*mat.Dense, []float64) {
	rng := rand.New(rand.NewSource(seed))
	m := mat.NewDense(n, length, nil)
	for i := 0; i < n; i++ {
		centre := float64(length) * (0.3 + 0.4*rng.Float64())
		for j := 0; j < length; j++ {
			d := (float64(j) - centre) / 8
			m.Set(i, j, math.Exp(-d*d)+0.01*rng.NormFloat64())
		}
	}

	wavenumbers := make([]float64, length)
	for j := range wavenumbers {
		wavenumbers[j] = 4000 - 10*float64(j)
	}
	return m, wavenumbers
}

func TestSpectralCharts(t *testing.T) {
	dir := t.TempDir()
	values, wavenumbers := spectra(4, 64, 2)
	shap, _ := spectra(4, 64, 3)

	if err := Spectra(values, wavenumbers, Style{}, filepath.Join(dir, "spectra.png")); err != nil {
		t.Fatalf("Spectra: %v", err)
	}
	checkFile(t, filepath.Join(dir, "spectra.png"))

	if err := ShapleyLines(shap, wavenumbers, Style{Width: 400, Height: 300}, filepath.Join(dir, "shap.png")); err != nil {
		t.Fatalf("ShapleyLines: %v", err)
	}
	checkFile(t, filepath.Join(dir, "shap.png"))

	if err := ShapleyOverlay(shap, values, wavenumbers, Style{}, filepath.Join(dir, "overlay.png")); err != nil {
		t.Fatalf("ShapleyOverlay: %v", err)
	}
	checkFile(t, filepath.Join(dir, "overlay.png"))

	if err := PLSCoefficients(values.Slice(0, 1, 0, 64), wavenumbers, Style{}, filepath.Join(dir, "pls.svg")); err != nil {
		t.Fatalf("PLSCoefficients: %v", err)
	}
	checkFile(t, filepath.Join(dir, "pls.svg"))

	if err := Spectra(values, wavenumbers[:10], Style{}, filepath.Join(dir, "bad.png")); err == nil {
		t.Fatalf("expected error for mismatched wavenumbers")
	}
	if err := ShapleyOverlay(shap.Slice(0, 2, 0, 64), values, wavenumbers, Style{}, filepath.Join(dir, "bad.png")); err == nil {
		t.Fatalf("expected error for mismatched rows")
	}
}

func TestComponents(t *testing.T) {
	// every column is a multiple of the first, so one component explains everything
	line := mat.NewDense(5, 3, nil)
	for i := 0; i < 5; i++ {
		line.SetRow(i, []float64{float64(i), 2 * float64(i), 3 * float64(i)})
	}

	scores, ratios, err := Components(line, 0.99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ratios) != 1 || math.Abs(ratios[0]-1) > 1e-9 {
		t.Fatalf("expected a single component explaining everything, got %v", ratios)
	}
	if r, c := scores.Dims(); r != 5 || c != 1 {
		t.Fatalf("unexpected scores shape (%d, %d)", r, c)
	}

	values, _ := spectra(20, 32, 4)
	n, err := ExplorePCA(values, 0.99, filepath.Join(t.TempDir(), "pca.png"))
	if err != nil {
		t.Fatalf("ExplorePCA: %v", err)
	}
	if n < 2 || n > 20 {
		t.Fatalf("unexpected number of components %d", n)
	}

	if _, _, err := Components(line, 1.5); err == nil {
		t.Fatalf("expected error for variance > 1")
	}
	if _, _, err := Components(line.Slice(0, 1, 0, 3), 0.9); err == nil {
		t.Fatalf("expected error for a single example")
	}
}
