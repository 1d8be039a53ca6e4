package operators

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"

	"math/rand"
)

type dropout struct {
	P   float64
	rng *rand.Rand

	// multiplier of each value from the last training Evaluate; nil if nothing was dropped
	mask []float64
	set  bool
}

// Dropout returns an Operator that, while training, zeroes each value with probability 'p' and
// scales the rest by 1/(1-p). During inference it passes values through unchanged. The values to
// drop are drawn from 'rng'.
func Dropout(p float64, rng *rand.Rand) *dropout {
	return &dropout{P: p, rng: rng}
}

func (d *dropout) TypeString() string {
	return "dropout"
}

func (d *dropout) Params() []*ipa.Param {
	return nil
}

func (d *dropout) Evaluate(in ipa.Tensor, train bool) (ipa.Tensor, error) {
	d.mask, d.set = nil, train
	if !train || d.P <= 0 {
		return in, nil
	}

	var scale float64
	if d.P < 1 {
		scale = 1 / (1 - d.P)
	}

	out := in.Like()
	d.mask = make([]float64, in.Size())
	for i, v := range in.Values {
		if d.rng.Float64() >= d.P {
			d.mask[i] = scale
			out.Values[i] = v * scale
		}
	}

	return out, nil
}

func (d *dropout) InputDeltas(deltas ipa.Tensor) (ipa.Tensor, error) {
	if !d.set {
		return ipa.Tensor{}, errNoTraining(d.TypeString())
	}
	d.set = false

	if d.mask == nil {
		return deltas, nil
	} else if deltas.Size() != len(d.mask) {
		return ipa.Tensor{}, ipa.SizeMismatchError{What: "dropout deltas", Expected: len(d.mask), Got: deltas.Size()}
	}

	ds := deltas.Like()
	for i, m := range d.mask {
		ds.Values[i] = deltas.Values[i] * m
	}

	d.mask = nil
	return ds, nil
}
