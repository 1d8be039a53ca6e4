package optimizers

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
)

func init() {
	list := map[string]func() ipa.Optimizer{
		"sgd":  func() ipa.Optimizer { return GradientDescent() },
		"adam": func() ipa.Optimizer { return Adam() },
	}

	for s, f := range list {
		err := ipa.RegisterOptimizer(s, f)
		if err != nil {
			panic(err.Error())
		}
	}
}
