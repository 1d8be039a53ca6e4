// relus.go contains the shared elementwise wrapper, and the activation functions that are
// derivative of relu:
// * ReLU
// * Leaky ReLU
package operators

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"github.com/florent-haffner/ipa-under-the-light/utils"
	"github.com/pkg/errors"
)

// activation is a function applied to each value independently
type activation interface {
	TypeString() string
	Value(in float64) float64

	// Deriv returns the derivative of the output with respect to the input
	Deriv(in float64) float64
}

// elementwise wraps an activation into an ipa.Operator
type elementwise struct {
	activation

	last ipa.Tensor
	set  bool
}

func (e *elementwise) Params() []*ipa.Param {
	return nil
}

func (e *elementwise) Evaluate(in ipa.Tensor, train bool) (ipa.Tensor, error) {
	out := in.Like()
	per := in.PerExample()

	err := utils.MultiThread(0, in.Batch(), func(b int) error {
		for i := b * per; i < (b+1)*per; i++ {
			out.Values[i] = e.Value(in.Values[i])
		}
		return nil
	}, 4, in.Dev.Workers())
	if err != nil {
		return ipa.Tensor{}, err
	}

	e.last, e.set = in, train
	return out, nil
}

func (e *elementwise) InputDeltas(deltas ipa.Tensor) (ipa.Tensor, error) {
	if !e.set {
		return ipa.Tensor{}, errNoTraining(e.TypeString())
	} else if deltas.Size() != e.last.Size() {
		return ipa.Tensor{}, ipa.SizeMismatchError{What: e.TypeString() + " deltas", Expected: e.last.Size(), Got: deltas.Size()}
	}

	ds := e.last.Like()
	for i, d := range deltas.Values {
		ds.Values[i] = d * e.Deriv(e.last.Values[i])
	}

	e.last, e.set = ipa.Tensor{}, false
	return ds, nil
}

// ****************************************
// ReLU
// ****************************************

type relu int8

// ReLU returns the standard rectified linear unit, which implements ipa.Operator.
func ReLU() *elementwise {
	return &elementwise{activation: relu(0)}
}

func (t relu) TypeString() string {
	return "relu"
}

func (t relu) Value(in float64) float64 {
	if in < 0 {
		return 0
	}
	return in
}

func (t relu) Deriv(in float64) float64 {
	if in < 0 {
		return 0
	}
	return 1
}

// ****************************************
// Leaky ReLU
// ****************************************

type lrelu float64

// LeakyReLU returns a standard 'leaky ReLU', where the leaky factor is given by alpha.
func LeakyReLU(alpha float64) *elementwise {
	return &elementwise{activation: lrelu(alpha)}
}

func (t lrelu) TypeString() string {
	return "leaky-relu"
}

func (t lrelu) Value(in float64) float64 {
	if in < 0 {
		return float64(t) * in
	}
	return in
}

func (t lrelu) Deriv(in float64) float64 {
	if in < 0 {
		return float64(t)
	}
	return 1
}

// Slope returns the leaky factor, or an error if the Operator is not a leaky ReLU.
func Slope(op ipa.Operator) (float64, error) {
	if e, ok := op.(*elementwise); ok {
		if l, ok := e.activation.(lrelu); ok {
			return float64(l), nil
		}
	}

	return 0, errors.Errorf("Operator %q is not a leaky ReLU", op.TypeString())
}
