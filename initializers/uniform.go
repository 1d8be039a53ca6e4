package initializers

import (
	"math"
	"math/rand"
)

type uniform struct {
	Interval
}

// Uniform returns an Initializer drawing every weight from an Interval, by default
// ["uniform-lower", "uniform-upper"). Exact zeros are redrawn unless the interval is a single
// point.
func Uniform() *uniform {
	return &uniform{*UniformRNG()}
}

// Range sets the interval. The bounds may be given in either order.
func (u *uniform) Range(lower, upper float64) *uniform {
	u.Lo, u.Hi = math.Min(lower, upper), math.Max(lower, upper)
	return u
}

func (u *uniform) Set(_, _ int, ws []float64, rng *rand.Rand) {
	for i := range ws {
		w := u.Gen(rng)
		for w == 0 && u.Lo != u.Hi {
			w = u.Gen(rng)
		}
		ws[i] = w
	}
}

type fanInUniform struct{}

// FanInUniform draws from U(-1/√fanIn, 1/√fanIn), the usual initialization of biases in the
// convolution and linear layers.
func FanInUniform() fanInUniform {
	return fanInUniform{}
}

func (fanInUniform) Set(fanIn, _ int, ws []float64, rng *rand.Rand) {
	b := 1 / math.Sqrt(math.Max(float64(fanIn), 1))
	Random(&Interval{Lo: -b, Hi: b}).Set(fanIn, 0, ws, rng)
}
