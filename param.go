package ipa

// Param is a set of trainable values, with the gradient of the loss with respect to each of
// them.
type Param struct {
	Name   string
	Values []float64
	Grads  []float64

	// Regularizable indicates that the Param is subject to the weight penalty during training.
	// It is set by the operator that creates the Param.
	Regularizable bool
}

// NewParam returns a Param of zeros of the given size.
func NewParam(name string, size int, regularizable bool) *Param {
	return &Param{
		Name:          name,
		Values:        make([]float64, size),
		Grads:         make([]float64, size),
		Regularizable: regularizable,
	}
}

// ZeroGrad resets the gradients of the Param.
func (p *Param) ZeroGrad() {
	for i := range p.Grads {
		p.Grads[i] = 0
	}
}

// ZeroGrads resets the gradients of all the given Params.
func ZeroGrads(ps []*Param) {
	for _, p := range ps {
		p.ZeroGrad()
	}
}

// Regularizable returns the subset of the given Params that are subject to the weight penalty.
func Regularizable(ps []*Param) []*Param {
	var rs []*Param
	for _, p := range ps {
		if p.Regularizable {
			rs = append(rs, p)
		}
	}

	return rs
}
