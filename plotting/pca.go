package plotting

import (
	"github.com/florent-haffner/ipa-under-the-light/preprocess"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"

	"fmt"
)

// Components rescales the columns of 'x' to [0, 1] and projects the rows onto the fewest
// principal components whose explained variance ratios sum to more than 'variance'. It returns
// the scores (one row per row of 'x') and the explained variance ratio of each kept component.
func Components(x mat.Matrix, variance float64) (*mat.Dense, []float64, error) {
	if variance <= 0 || variance > 1 {
		return nil, nil, errors.Errorf("Explained variance must be in (0, 1] (got %v)", variance)
	}
	if r, _ := x.Dims(); r < 2 {
		return nil, nil, errors.Errorf("PCA needs at least 2 examples (got %d)", r)
	}

	scaled, err := preprocess.MinMax().FitTransform(x)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "Failed to rescale data")
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(scaled, nil); !ok {
		return nil, nil, errors.Errorf("Principal components analysis failed")
	}

	vars := pc.VarsTo(nil)
	total := floats.Sum(vars)

	ratios := make([]float64, len(vars))
	if total != 0 {
		floats.ScaleTo(ratios, 1/total, vars)
	}

	k := len(ratios)
	var cum float64
	for i, r := range ratios {
		cum += r
		if cum > variance {
			k = i + 1
			break
		}
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	n, d := scaled.Dims()
	centered := mat.NewDense(n, d, nil)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, scaled)
		floats.AddConst(-stat.Mean(col, nil), col)
		centered.SetCol(j, col)
	}

	var scores mat.Dense
	scores.Mul(centered, vecs.Slice(0, d, 0, k))

	return &scores, ratios[:k], nil
}

// ExplorePCA draws the scores of the principal components of 'x' that together explain more
// than 'variance' of its variance (see Components), one series per component against the index
// of each example. It returns the number of components kept.
func ExplorePCA(x mat.Matrix, variance float64, path string) (int, error) {
	scores, ratios, err := Components(x, variance)
	if err != nil {
		return 0, err
	}

	p := newPlot("", "Example", "Score")

	var vs []interface{}
	for i := range ratios {
		vs = append(vs, fmt.Sprintf("PC%d (%.1f%%)", i+1, 100*ratios[i]), series(mat.Col(nil, i, scores)))
	}
	if err := plotutil.AddScatters(p, vs...); err != nil {
		return 0, errors.Wrapf(err, "Failed to draw scores")
	}
	p.Add(plotter.NewGrid())

	return len(ratios), save(p, width, height, path)
}
