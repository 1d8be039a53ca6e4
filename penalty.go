package ipa

import (
	"gonum.org/v1/gonum/floats"
)

type weightNorm float64

// WeightNorm returns the default Penalty used for training: λ times the (unsquared) Euclidean
// norm of each regularizable Param. Its gradient is λ·w/‖w‖, and zero for a Param whose values
// are all zero.
func WeightNorm(λ float64) Penalty {
	return weightNorm(λ)
}

func (p weightNorm) TypeString() string {
	return "weight-norm"
}

func (p weightNorm) Cost(param *Param) float64 {
	return float64(p) * floats.Norm(param.Values, 2)
}

func (p weightNorm) Penalize(param *Param) {
	λ := float64(p)
	norm := floats.Norm(param.Values, 2)
	if λ == 0 || norm == 0 {
		return
	}

	floats.AddScaled(param.Grads, λ/norm, param.Values)
}

// Regularize applies the Penalty to every regularizable Param, adding to their gradients, and
// returns the total penalty.
func Regularize(ps []*Param, pen Penalty) float64 {
	var sum float64
	for _, p := range Regularizable(ps) {
		sum += pen.Cost(p)
		pen.Penalize(p)
	}

	return sum
}
