package ipa

import (
	"github.com/pkg/errors"

	"math/rand"
)

// DefaultBatchSize is the number of examples per batch when none is given to Data.
const DefaultBatchSize int = 16

// Batch is a group of examples, given to the network together.
type Batch struct {
	X Tensor
	Y Tensor
}

// Loader splits a dataset into batches. The last batch may be smaller than the others.
type Loader struct {
	x, y      Tensor
	batchSize int

	shuffle bool
	rng     *rand.Rand
}

// Data returns a Loader over the examples in 'x' and the labels in 'y'. 'x' must have the shape
// (n, channels, positions) and 'y' the shape (n, 1). A batch size of 0 uses DefaultBatchSize.
// If 'shuffle' is true, the order of examples is drawn from 'seed' again on every pass.
func Data(x, y Tensor, batchSize int, shuffle bool, seed int64) (*Loader, error) {
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	} else if batchSize < 0 {
		return nil, errors.Errorf("Batch size must be > 0 (got %d)", batchSize)
	}

	if err := x.CheckRank(3); err != nil {
		return nil, errors.Wrapf(err, "Bad input dimensions %v", x.Dims)
	} else if err := y.CheckRank(2); err != nil {
		return nil, errors.Wrapf(err, "Bad label dimensions %v", y.Dims)
	} else if x.Batch() != y.Batch() {
		return nil, SizeMismatchError{"number of labels", x.Batch(), y.Batch()}
	}

	l := &Loader{x: x, y: y, batchSize: batchSize, shuffle: shuffle}
	if shuffle {
		l.rng = rand.New(rand.NewSource(seed))
	}

	return l, nil
}

// Len returns the number of batches in one pass over the data.
func (l *Loader) Len() int {
	n := l.x.Batch()
	return (n + l.batchSize - 1) / l.batchSize
}

// Examples returns the total number of examples.
func (l *Loader) Examples() int {
	return l.x.Batch()
}

// Each calls 'f' with every batch, in order, stopping at the first error.
func (l *Loader) Each(f func(i int, b Batch) error) error {
	n := l.x.Batch()

	var order []int
	if l.shuffle {
		order = l.rng.Perm(n)
	}

	for i := 0; i < l.Len(); i++ {
		start := i * l.batchSize
		end := start + l.batchSize
		if end > n {
			end = n
		}

		var b Batch
		if order == nil {
			b = Batch{l.x.Slice(start, end), l.y.Slice(start, end)}
		} else {
			b = Batch{l.x.Rows(order[start:end]), l.y.Rows(order[start:end])}
		}

		if err := f(i, b); err != nil {
			return err
		}
	}

	return nil
}
