package penalties

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"github.com/pkg/errors"

	"sort"
)

// the default α given to ElasticNet when it is constructed by name
const defaultElasticRatio float64 = 0.5

var list = map[string]func(λ float64) ipa.Penalty{
	"weight-norm": func(λ float64) ipa.Penalty { return ipa.WeightNorm(λ) },
	"l1-lasso":    func(λ float64) ipa.Penalty { return L1(λ) },
	"l2-ridge":    func(λ float64) ipa.Penalty { return L2(λ) },
	"elastic-net": func(λ float64) ipa.Penalty { return ElasticNet(defaultElasticRatio, λ) },
}

// New returns the Penalty with the given type string and coefficient.
func New(name string, λ float64) (ipa.Penalty, error) {
	f, ok := list[name]
	if !ok {
		return nil, errors.Wrapf(ipa.ErrNotRegistered, "Penalty %q (known: %v)", name, Names())
	}

	return f(λ), nil
}

// Names returns the sorted type strings of every Penalty that New can construct.
func Names() []string {
	ns := make([]string, 0, len(list))
	for n := range list {
		ns = append(ns, n)
	}

	sort.Strings(ns)
	return ns
}
