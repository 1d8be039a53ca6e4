package operators

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"github.com/pkg/errors"

	"sort"
)

// activations maps type strings to constructors. The slope is only read by "leaky-relu".
var activations = map[string]func(slope float64) ipa.Operator{
	"relu":       func(float64) ipa.Operator { return ReLU() },
	"leaky-relu": func(s float64) ipa.Operator { return LeakyReLU(s) },
	"tanh":       func(float64) ipa.Operator { return Tanh() },
	"logistic":   func(float64) ipa.Operator { return Logistic() },
	"identity":   func(float64) ipa.Operator { return Identity() },
}

var pools = map[string]func(kernel int) ipa.Operator{
	"max": func(k int) ipa.Operator { return MaxPool(k) },
	"avg": func(k int) ipa.Operator { return AvgPool(k) },
}

// NewActivation returns a fresh activation Operator by its type string. 'slope' is the negative
// slope of "leaky-relu" and is ignored by the others.
func NewActivation(name string, slope float64) (ipa.Operator, error) {
	f, ok := activations[name]
	if !ok {
		return nil, errors.Wrapf(ipa.ErrNotRegistered, "Activation %q (known: %v)", name, sortedKeys(activations))
	}
	return f(slope), nil
}

// Activations returns the sorted names accepted by NewActivation.
func Activations() []string {
	return sortedKeys(activations)
}

// NewPool returns a pooling Operator, "max" or "avg", whose stride equals its kernel.
func NewPool(name string, kernel int) (ipa.Operator, error) {
	f, ok := pools[name]
	if !ok {
		return nil, errors.Wrapf(ipa.ErrNotRegistered, "Pool %q (known: %v)", name, sortedKeys(pools))
	} else if kernel < 1 {
		return nil, errors.Errorf("Pool kernel must be ≥ 1 (got %d)", kernel)
	}
	return f(kernel), nil
}

// Pools returns the sorted names accepted by NewPool.
func Pools() []string {
	return sortedKeys(pools)
}

func sortedKeys[V any](m map[string]V) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
