package costfuncs

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"

	"math"
)

// Abs is the mean absolute error. Its derivative at a residual of exactly zero is taken as zero.
func Abs() ipa.CostFunction {
	return &pointwise{
		name: "mae",
		loss: math.Abs,
		slope: func(r float64) float64 {
			if r == 0 {
				return 0
			}
			return math.Copysign(1, r)
		},
	}
}

// L1 is another name for Abs.
func L1() ipa.CostFunction { return Abs() }
