package costfuncs

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
)

const defaultHuberDelta float64 = 1

func init() {
	list := map[string]func() ipa.CostFunction{
		"mse":   func() ipa.CostFunction { return MSE() },
		"mae":   func() ipa.CostFunction { return Abs() },
		"huber": func() ipa.CostFunction { return Huber(defaultHuberDelta) },
	}

	for s, f := range list {
		err := ipa.RegisterCostFunction(s, f)
		if err != nil {
			panic(err.Error())
		}
	}
}
