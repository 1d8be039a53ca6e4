package costfuncs

// pointwise is a criterion that is the mean over examples of a function of the residual
// (prediction minus label).
type pointwise struct {
	name  string
	loss  func(r float64) float64
	slope func(r float64) float64
}

func (p *pointwise) TypeString() string {
	return p.name
}

// Cost returns the mean loss. An empty batch costs nothing.
func (p *pointwise) Cost(outs, targets []float64) float64 {
	if len(outs) == 0 {
		return 0
	}

	var sum float64
	for i, o := range outs {
		sum += p.loss(o - targets[i])
	}
	return sum / float64(len(outs))
}

func (p *pointwise) Derivs(outs, targets []float64) []float64 {
	ds := make([]float64, len(outs))
	scale := 1 / float64(len(outs))
	for i, o := range outs {
		ds[i] = scale * p.slope(o-targets[i])
	}
	return ds
}
