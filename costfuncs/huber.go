package costfuncs

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"

	"math"
)

// Huber is quadratic for residuals up to δ in size and linear beyond.
func Huber(δ float64) ipa.CostFunction {
	return &pointwise{
		name: "huber",
		loss: func(r float64) float64 {
			a := math.Abs(r)
			if a <= δ {
				return r * r / 2
			}
			return δ * (a - δ/2)
		},
		slope: func(r float64) float64 {
			return math.Max(-δ, math.Min(δ, r))
		},
	}
}
