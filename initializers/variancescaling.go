package initializers

import (
	"math"
	"math/rand"
)

// FanMode selects which fan a VarianceScaling divides its factor by.
type FanMode int

const (
	FanIn FanMode = iota
	FanOut
	FanAvg
)

type varianceScaling struct {
	fan    FanMode
	factor float64

	// draw from an Interval rather than a Gaussian cut at 2σ
	flat bool
}

// VarianceScaling returns an Initializer whose weights have variance factor/fan. The fan is the
// average of fan-in and fan-out unless In or Out is called; the factor defaults to
// "varscl-factor".
func VarianceScaling() *varianceScaling {
	return &varianceScaling{fan: FanAvg, factor: getDefault("varscl-factor")}
}

func (v *varianceScaling) Factor(f float64) *varianceScaling { v.factor = f; return v }

func (v *varianceScaling) In() *varianceScaling  { v.fan = FanIn; return v }
func (v *varianceScaling) Out() *varianceScaling { v.fan = FanOut; return v }
func (v *varianceScaling) Avg() *varianceScaling { v.fan = FanAvg; return v }

// Uniform switches to U(-√(3·var), √(3·var)), which has the same variance.
func (v *varianceScaling) Uniform() *varianceScaling {
	v.flat = true
	return v
}

func (v *varianceScaling) variance(fanIn, fanOut int) float64 {
	n := float64(fanIn+fanOut) / 2
	switch v.fan {
	case FanIn:
		n = float64(fanIn)
	case FanOut:
		n = float64(fanOut)
	}

	return v.factor / math.Max(n, 1)
}

func (v *varianceScaling) Set(fanIn, fanOut int, ws []float64, rng *rand.Rand) {
	variance := v.variance(fanIn, fanOut)

	var g RNG = TruncNormal().SD(math.Sqrt(variance))
	if v.flat {
		b := math.Sqrt(3 * variance)
		g = &Interval{Lo: -b, Hi: b}
	}

	Random(g).Set(fanIn, fanOut, ws, rng)
}
