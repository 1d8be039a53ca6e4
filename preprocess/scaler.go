// Package preprocess rescales the columns of a dataset, so that spectra and labels can be
// given to a network in a comparable range and predictions mapped back to the original units.
package preprocess

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrNotFitted is returned when a Scaler is used before Fit.
var ErrNotFitted = errors.New("Scaler has not been fitted")

// Scaler maps each column of a matrix through an affine transform learned by Fit:
// scaled = value·Scale[j] + Offset[j]
type Scaler interface {
	Fit(m mat.Matrix) error
	Transform(m mat.Matrix) (*mat.Dense, error)
	InverseMatrix(m mat.Matrix) (*mat.Dense, error)

	// InverseTransform maps values of the first column back to the original units. It is used
	// for labels, which have a single column.
	InverseTransform(vs []float64) []float64
}

// affine holds the per-column transform shared by the scalers
type affine struct {
	Scale  []float64
	Offset []float64
}

func (a *affine) transform(m mat.Matrix, inverse bool) (*mat.Dense, error) {
	if a.Scale == nil {
		return nil, ErrNotFitted
	}

	r, c := m.Dims()
	if c != len(a.Scale) {
		return nil, errors.Errorf("Scaler was fitted on %d columns, got %d", len(a.Scale), c)
	}

	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, v float64) float64 {
		if inverse {
			return (v - a.Offset[j]) / a.Scale[j]
		}
		return v*a.Scale[j] + a.Offset[j]
	}, m)

	return out, nil
}

func (a *affine) Transform(m mat.Matrix) (*mat.Dense, error) {
	return a.transform(m, false)
}

func (a *affine) InverseMatrix(m mat.Matrix) (*mat.Dense, error) {
	return a.transform(m, true)
}

func (a *affine) InverseTransform(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = (v - a.Offset[0]) / a.Scale[0]
	}

	return out
}

// TransformVec scales values of the first column.
func (a *affine) TransformVec(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v*a.Scale[0] + a.Offset[0]
	}

	return out
}

// MinMaxScaler rescales each column to lie within a range, [0, 1] by default. Constant columns
// are only shifted.
type MinMaxScaler struct {
	affine
	lo, hi float64
}

// MinMax returns a MinMaxScaler to [0, 1].
func MinMax() *MinMaxScaler {
	return &MinMaxScaler{lo: 0, hi: 1}
}

// Range sets the target range of the scaler.
func (s *MinMaxScaler) Range(lo, hi float64) *MinMaxScaler {
	s.lo, s.hi = lo, hi
	return s
}

func (s *MinMaxScaler) Fit(m mat.Matrix) error {
	r, c := m.Dims()
	if r == 0 {
		return errors.Errorf("Cannot fit on an empty matrix")
	} else if s.hi <= s.lo {
		return errors.Errorf("Bad range [%v, %v]", s.lo, s.hi)
	}

	s.Scale = make([]float64, c)
	s.Offset = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, m)
		min, max := floats.Min(col), floats.Max(col)

		span := max - min
		if span == 0 {
			span = 1
		}

		s.Scale[j] = (s.hi - s.lo) / span
		s.Offset[j] = s.lo - min*s.Scale[j]
	}

	return nil
}

// FitTransform fits the scaler on 'm' and returns 'm' scaled.
func (s *MinMaxScaler) FitTransform(m mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(m); err != nil {
		return nil, err
	}
	return s.Transform(m)
}

// StandardScaler rescales each column to zero mean and unit (population) standard deviation.
// Constant columns are only centered.
type StandardScaler struct {
	affine
}

// Standard returns a StandardScaler.
func Standard() *StandardScaler {
	return &StandardScaler{}
}

func (s *StandardScaler) Fit(m mat.Matrix) error {
	r, c := m.Dims()
	if r == 0 {
		return errors.Errorf("Cannot fit on an empty matrix")
	}

	s.Scale = make([]float64, c)
	s.Offset = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, m)
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}

		s.Scale[j] = 1 / std
		s.Offset[j] = -mean / std
	}

	return nil
}

// FitTransform fits the scaler on 'm' and returns 'm' scaled.
func (s *StandardScaler) FitTransform(m mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(m); err != nil {
		return nil, err
	}
	return s.Transform(m)
}

// Column returns the values as a single-column matrix, sharing them.
func Column(vs []float64) *mat.Dense {
	return mat.NewDense(len(vs), 1, vs)
}
