package hyperparams

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
)

// the settings of the decaying HyperParameters when constructed by name
const (
	defaultStepSize int     = 10
	defaultGamma    float64 = 0.5
)

func init() {
	list := map[string]func(float64) ipa.HyperParameter{
		"constant":    func(b float64) ipa.HyperParameter { return Constant(b) },
		"step":        func(b float64) ipa.HyperParameter { return Step(b) },
		"step-decay":  func(b float64) ipa.HyperParameter { return StepDecay(b, defaultStepSize, defaultGamma) },
		"exponential": func(b float64) ipa.HyperParameter { return Exponential(b, defaultGamma) },
	}

	for s, f := range list {
		err := ipa.RegisterHyperParameter(s, f)
		if err != nil {
			panic(err.Error())
		}
	}
}
