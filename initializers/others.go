package initializers

type leCun struct {
	*varianceScaling
}

func LeCun() leCun {
	return leCun{VarianceScaling().In()}
}

type he struct {
	*varianceScaling
}

func He() he {
	return he{VarianceScaling().In().Factor(2)}
}

type xavier struct {
	*varianceScaling
}

func Xavier() xavier {
	return xavier{VarianceScaling().Avg()}
}

func Glorot() xavier {
	return Xavier()
}

type kaiming struct {
	*varianceScaling
}

// KaimingUniform returns the He initialization for layers followed by a leaky ReLU with the
// given negative slope, drawing uniformly from ±gain·√(3/fanIn) where gain = √(2/(1+slope²)).
//
// The default slope can be set by SetDefault("leaky-slope").
func KaimingUniform(slope float64) kaiming {
	return kaiming{VarianceScaling().In().Uniform().Factor(2 / (1 + slope*slope))}
}

// DefaultKaimingUniform is KaimingUniform with the default slope.
func DefaultKaimingUniform() kaiming {
	return KaimingUniform(getDefault("leaky-slope"))
}
