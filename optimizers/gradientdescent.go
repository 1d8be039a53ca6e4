package optimizers

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
)

type gradientdescent struct {
	momentum float64

	// velocity of each Param, only used with momentum
	velocity map[*ipa.Param][]float64
}

// GradientDescent returns plain stochastic gradient descent, which implements ipa.Optimizer.
func GradientDescent() *gradientdescent {
	return &gradientdescent{}
}

// SGD is a proxy for GradientDescent
func SGD() *gradientdescent {
	return GradientDescent()
}

// Momentum sets the fraction of the previous update carried into the next one. It defaults to 0.
func (g *gradientdescent) Momentum(m float64) *gradientdescent {
	g.momentum = m
	return g
}

func (g *gradientdescent) TypeString() string {
	return "sgd"
}

func (g *gradientdescent) Run(p *ipa.Param, size int, grad func(int) float64, add func(int, float64), learningRate float64) error {
	if g.momentum == 0 {
		for i := 0; i < size; i++ {
			add(i, -1*learningRate*grad(i))
		}

		return nil
	}

	if g.velocity == nil {
		g.velocity = make(map[*ipa.Param][]float64)
	}

	v, ok := g.velocity[p]
	if !ok || len(v) != size {
		v = make([]float64, size)
		g.velocity[p] = v
	}

	for i := 0; i < size; i++ {
		v[i] = g.momentum*v[i] + grad(i)
		add(i, -1*learningRate*v[i])
	}

	return nil
}
