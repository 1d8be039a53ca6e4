package operators

import (
	"math"
)

type tanh int8

// Tanh returns an Operator that performs an element-wise application of the tanh() function.
func Tanh() *elementwise {
	return &elementwise{activation: tanh(0)}
}

func (t tanh) TypeString() string {
	return "tanh"
}

func (t tanh) Value(in float64) float64 {
	return math.Tanh(in)
}

// the derivative of tanh(x) is 1 - tanh(x)^2
func (t tanh) Deriv(in float64) float64 {
	v := math.Tanh(in)
	return 1 - v*v
}
