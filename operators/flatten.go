package operators

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
)

type flatten struct {
	lastDims []int
}

// Flatten returns an Operator that collapses every dimension but the first, so that a
// (batch, channels, positions) Tensor becomes (batch, channels·positions).
func Flatten() *flatten {
	return &flatten{}
}

func (f *flatten) TypeString() string {
	return "flatten"
}

func (f *flatten) Params() []*ipa.Param {
	return nil
}

func (f *flatten) Evaluate(in ipa.Tensor, train bool) (ipa.Tensor, error) {
	if in.Rank() == 0 {
		return ipa.Tensor{}, ipa.SizeMismatchError{What: "flatten input rank", Expected: 2, Got: 0}
	}

	out, err := in.Reshape(in.Batch(), in.PerExample())
	if err != nil {
		return ipa.Tensor{}, err
	}

	if train {
		f.lastDims = in.Dims
	}
	return out, nil
}

func (f *flatten) InputDeltas(deltas ipa.Tensor) (ipa.Tensor, error) {
	if f.lastDims == nil {
		return ipa.Tensor{}, errNoTraining(f.TypeString())
	}

	ds, err := deltas.Reshape(f.lastDims...)
	f.lastDims = nil
	return ds, err
}
