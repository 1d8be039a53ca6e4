package ipa

import (
	"github.com/florent-haffner/ipa-under-the-light/utils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Tensor is a batch of values with a shape, stored in row-major order.
//
// Signal tensors have the shape (batch, channels, positions). Labels and predictions have the
// shape (batch, 1).
type Tensor struct {
	Dims   []int
	Values []float64

	// Dev is the Device the Tensor has been placed on
	Dev Device
}

// NewTensor returns a Tensor of zeros with the given dimensions.
func NewTensor(dims ...int) Tensor {
	size := 1
	for _, d := range dims {
		size *= d
	}

	return Tensor{
		Dims:   append([]int(nil), dims...),
		Values: make([]float64, size),
	}
}

// FromValues wraps the given values in a Tensor, returning an error if their number doesn't
// match the dimensions. The values are not copied.
func FromValues(values []float64, dims ...int) (Tensor, error) {
	size := 1
	for _, d := range dims {
		if d < 0 {
			return Tensor{}, errors.Errorf("Dimension %d is negative", d)
		}
		size *= d
	}

	if size != len(values) {
		return Tensor{}, SizeMismatchError{"tensor values", size, len(values)}
	}

	return Tensor{Dims: append([]int(nil), dims...), Values: values}, nil
}

// Size returns the number of values in the Tensor.
func (t Tensor) Size() int {
	return len(t.Values)
}

// Rank returns the number of dimensions of the Tensor.
func (t Tensor) Rank() int {
	return len(t.Dims)
}

// Batch returns the size of the first dimension, or 0 for an empty Tensor.
func (t Tensor) Batch() int {
	if len(t.Dims) == 0 {
		return 0
	}

	return t.Dims[0]
}

// Layout returns the MultiDim describing the Tensor's dimensions.
func (t Tensor) Layout() *utils.MultiDim {
	return utils.NewMultiDim(t.Dims)
}

// At returns the value at the given point.
func (t Tensor) At(point ...int) float64 {
	return t.Values[t.Layout().Index(point)]
}

// PerExample returns the number of values belonging to each example of the batch.
func (t Tensor) PerExample() int {
	if t.Batch() == 0 {
		return 0
	}

	return len(t.Values) / t.Batch()
}

// Example returns the values of example 'b', as a matrix with one row per channel. Rank-2
// Tensors give a single row. The matrix shares its values with the Tensor.
func (t Tensor) Example(b int) *mat.Dense {
	n := t.PerExample()
	rows, cols := 1, n
	if len(t.Dims) == 3 {
		rows, cols = t.Dims[1], t.Dims[2]
	}

	return mat.NewDense(rows, cols, t.Values[b*n:(b+1)*n])
}

// Like returns a Tensor of zeros with the same dimensions and Device as 't'.
func (t Tensor) Like() Tensor {
	z := NewTensor(t.Dims...)
	z.Dev = t.Dev
	return z
}

// Reshape returns a Tensor sharing the values of 't' with new dimensions.
func (t Tensor) Reshape(dims ...int) (Tensor, error) {
	r, err := FromValues(t.Values, dims...)
	if err != nil {
		return Tensor{}, errors.Wrapf(err, "Failed to reshape %v to %v", t.Dims, dims)
	}

	r.Dev = t.Dev
	return r, nil
}

// Rows returns a Tensor containing the examples at the given indexes of the batch, in order.
// Values are copied.
func (t Tensor) Rows(indexes []int) Tensor {
	dims := append([]int(nil), t.Dims...)
	dims[0] = len(indexes)

	n := t.PerExample()
	r := NewTensor(dims...)
	r.Dev = t.Dev
	for i, idx := range indexes {
		copy(r.Values[i*n:(i+1)*n], t.Values[idx*n:(idx+1)*n])
	}

	return r
}

// Slice returns the examples in [start, end) of the batch, sharing values with 't'.
func (t Tensor) Slice(start, end int) Tensor {
	dims := append([]int(nil), t.Dims...)
	dims[0] = end - start

	n := t.PerExample()
	return Tensor{Dims: dims, Values: t.Values[start*n : end*n], Dev: t.Dev}
}

// CheckRank returns an error if the Tensor doesn't have the given number of dimensions.
func (t Tensor) CheckRank(rank int) error {
	if len(t.Dims) != rank {
		return SizeMismatchError{"tensor rank", rank, len(t.Dims)}
	}

	return nil
}
