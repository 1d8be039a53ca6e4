package operators

type identity int8

// Identity returns an Operator that outputs its input unchanged. It stands in where a layer
// expects an activation but none should be applied.
func Identity() *elementwise {
	return &elementwise{activation: identity(0)}
}

func (t identity) TypeString() string {
	return "identity"
}

func (t identity) Value(in float64) float64 {
	return in
}

func (t identity) Deriv(in float64) float64 {
	return 1
}
