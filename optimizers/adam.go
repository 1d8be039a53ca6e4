package optimizers

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"github.com/pkg/errors"

	"math"
)

type adamState struct {
	m, v []float64
	step int
}

type adam struct {
	β1, β2, ε   float64
	weightDecay float64

	state map[*ipa.Param]*adamState
}

const (
	defaultBeta1   float64 = 0.9
	defaultBeta2   float64 = 0.999
	defaultEpsilon float64 = 1e-8
)

// Adam returns the Adam optimizer with the usual defaults (β1 = 0.9, β2 = 0.999, ε = 1e-8),
// which implements ipa.Optimizer. Moment estimates are kept separately for each Param.
func Adam() *adam {
	return &adam{
		β1:    defaultBeta1,
		β2:    defaultBeta2,
		ε:     defaultEpsilon,
		state: make(map[*ipa.Param]*adamState),
	}
}

// Betas sets the decay rates of the first and second moment estimates.
func (a *adam) Betas(β1, β2 float64) *adam {
	a.β1, a.β2 = β1, β2
	return a
}

// Epsilon sets the value added to the denominator of each update.
func (a *adam) Epsilon(ε float64) *adam {
	a.ε = ε
	return a
}

// WeightDecay sets decoupled weight decay, as in AdamW. It defaults to 0.
func (a *adam) WeightDecay(d float64) *adam {
	a.weightDecay = d
	return a
}

func (a *adam) TypeString() string {
	return "adam"
}

func (a *adam) Run(p *ipa.Param, size int, grad func(int) float64, add func(int, float64), learningRate float64) error {
	if p == nil {
		return ipa.NilArg("Param")
	}

	s, ok := a.state[p]
	if !ok {
		s = &adamState{m: make([]float64, size), v: make([]float64, size)}
		a.state[p] = s
	} else if len(s.m) != size {
		return errors.Errorf("Size of %q changed from %d to %d", p.Name, len(s.m), size)
	}

	s.step++
	c1 := 1 - math.Pow(a.β1, float64(s.step))
	c2 := 1 - math.Pow(a.β2, float64(s.step))

	for i := 0; i < size; i++ {
		g := grad(i)
		s.m[i] = a.β1*s.m[i] + (1-a.β1)*g
		s.v[i] = a.β2*s.v[i] + (1-a.β2)*g*g

		mHat := s.m[i] / c1
		vHat := s.v[i] / c2

		d := -learningRate * mHat / (math.Sqrt(vHat) + a.ε)
		if a.weightDecay != 0 {
			d -= learningRate * a.weightDecay * p.Values[i]
		}

		add(i, d)
	}

	return nil
}
