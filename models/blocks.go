package models

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"github.com/florent-haffner/ipa-under-the-light/operators"
	"github.com/pkg/errors"

	"fmt"
	"math/rand"
)

// LeakySlope is the negative slope of the activation in every BasicConv.
const LeakySlope float64 = 0.3

// BasicConv returns a convolution followed by a leaky ReLU with slope LeakySlope. Its weights
// are drawn from 'rng' with He-uniform initialization.
func BasicConv(name string, in, out, kernel, stride, padding int, rng *rand.Rand) (ipa.Operator, error) {
	return DefaultOptions().conv(name, in, out, kernel, stride, padding, rng)
}

// lengther is implemented by the operators that change the number of positions
type lengther interface {
	OutputLength(length int) (int, error)
}

// layered is implemented by operators that are made of others
type layered interface {
	Layers() []ipa.Operator
}

// outputLength returns the number of positions 'op' gives for an input with 'length' positions.
func outputLength(op ipa.Operator, length int) (int, error) {
	if l, ok := op.(lengther); ok {
		return l.OutputLength(length)
	} else if s, ok := op.(layered); ok {
		var err error
		for _, o := range s.Layers() {
			if length, err = outputLength(o, length); err != nil {
				return 0, err
			}
		}
	}

	return length, nil
}

// MultiBranch is the inception-style module: four parallel branches over the same input, each
// giving twice the input channels, concatenated along the position axis.
//
//  1. max-pool(2)          → conv(k1, s2)
//  2. conv(k1, s2)         → conv(k3)
//  3. conv(k1, s2)         → conv(k3, s2) → conv(k3, s2)
//  4. conv(k1, s2)
//
// Each convolution is followed by the activation of the Options, a leaky ReLU by default.
type MultiBranch struct {
	In       int
	branches []ipa.Operator

	// lengths of each branch output, from the last training Evaluate
	lengths []int
}

// NewMultiBranch returns a MultiBranch over inputs with 'in' channels, laid out with
// DefaultOptions.
func NewMultiBranch(name string, in int, rng *rand.Rand) (*MultiBranch, error) {
	return newMultiBranch(name, in, rng, DefaultOptions())
}

func newMultiBranch(name string, in int, rng *rand.Rand, opts Options) (*MultiBranch, error) {
	out := 2 * in

	type convLayout struct {
		in, kernel, stride int
	}
	layouts := [][]convLayout{
		{{in, 1, 2}},
		{{in, 1, 2}, {out, 3, 1}},
		{{in, 1, 2}, {out, 3, 2}, {out, 3, 2}},
		{{in, 1, 2}},
	}

	m := &MultiBranch{In: in}
	for b, layout := range layouts {
		var ops []ipa.Operator
		if b == 0 {
			p, err := operators.NewPool(opts.Pool, 2)
			if err != nil {
				return nil, err
			}
			ops = append(ops, p)
		}

		for i, s := range layout {
			op, err := opts.conv(fmt.Sprintf("%s.branch%d.%d", name, b+1, i), s.in, out, s.kernel, s.stride, 0, rng)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}

		m.branches = append(m.branches, operators.Sequential(fmt.Sprintf("%s.branch%d", name, b+1), ops...))
	}

	return m, nil
}

func (m *MultiBranch) TypeString() string {
	return "multi-branch"
}

// Branches returns the four branches, in order.
func (m *MultiBranch) Branches() []ipa.Operator {
	return m.branches
}

// BranchLengths returns the number of positions each branch gives for an input with 'length'
// positions. It returns an error if any branch would be empty.
func (m *MultiBranch) BranchLengths(length int) ([]int, error) {
	ls := make([]int, len(m.branches))
	for i, b := range m.branches {
		l, err := outputLength(b, length)
		if err != nil {
			return nil, errors.Wrapf(err, "Branch %d is empty for input length %d", i+1, length)
		}
		ls[i] = l
	}

	return ls, nil
}

// OutputLength returns the total number of positions of the concatenated output.
func (m *MultiBranch) OutputLength(length int) (int, error) {
	ls, err := m.BranchLengths(length)
	if err != nil {
		return 0, err
	}

	var total int
	for _, l := range ls {
		total += l
	}
	return total, nil
}

func (m *MultiBranch) Params() []*ipa.Param {
	var ps []*ipa.Param
	for _, b := range m.branches {
		ps = append(ps, b.Params()...)
	}

	return ps
}

func (m *MultiBranch) Evaluate(in ipa.Tensor, train bool) (ipa.Tensor, error) {
	outs := make([]ipa.Tensor, len(m.branches))
	for i, b := range m.branches {
		out, err := b.Evaluate(in, train)
		if err != nil {
			return ipa.Tensor{}, errors.Wrapf(err, "Branch %d failed", i+1)
		}
		outs[i] = out
	}

	out, err := operators.Concat(2, outs...)
	if err != nil {
		return ipa.Tensor{}, errors.Wrapf(err, "Failed to join branches")
	}

	m.lengths = nil
	if train {
		for _, o := range outs {
			m.lengths = append(m.lengths, o.Dims[2])
		}
	}

	return out, nil
}

func (m *MultiBranch) InputDeltas(deltas ipa.Tensor) (ipa.Tensor, error) {
	if m.lengths == nil {
		return ipa.Tensor{}, errors.Errorf("multi-branch: InputDeltas called without a preceding training Evaluate")
	}

	parts, err := operators.Split(deltas, 2, m.lengths)
	if err != nil {
		return ipa.Tensor{}, errors.Wrapf(err, "Failed to split deltas between branches")
	}

	var sum ipa.Tensor
	for i, b := range m.branches {
		ds, err := b.InputDeltas(parts[i])
		if err != nil {
			return ipa.Tensor{}, errors.Wrapf(err, "Branch %d failed", i+1)
		}

		if i == 0 {
			sum = ds
			continue
		}

		for j, d := range ds.Values {
			sum.Values[j] += d
		}
	}

	m.lengths = nil
	return sum, nil
}
