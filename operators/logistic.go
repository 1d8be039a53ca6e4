package operators

import (
	"math"
)

type logistic int8

// Logistic returns an Operator that applies the logistic (sigmoid) function to each value.
func Logistic() *elementwise {
	return &elementwise{activation: logistic(0)}
}

func (t logistic) TypeString() string {
	return "logistic"
}

func (t logistic) Value(in float64) float64 {
	return 1 / (1 + math.Exp(-in))
}

func (t logistic) Deriv(in float64) float64 {
	v := t.Value(in)
	return v * (1 - v)
}
