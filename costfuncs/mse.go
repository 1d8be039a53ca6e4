package costfuncs

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
)

// MSE is the mean squared error, the criterion the IPA network is trained with.
func MSE() ipa.CostFunction {
	return &pointwise{
		name:  "mse",
		loss:  func(r float64) float64 { return r * r },
		slope: func(r float64) float64 { return 2 * r },
	}
}

// L2 is another name for MSE.
func L2() ipa.CostFunction { return MSE() }
