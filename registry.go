package ipa

import (
	"github.com/pkg/errors"

	"sort"
	"sync"
)

var (
	registryMux sync.RWMutex

	optimizers  = make(map[string]func() Optimizer)
	costFuncs   = make(map[string]func() CostFunction)
	hyperParams = make(map[string]func(base float64) HyperParameter)
)

// RegisterOptimizer makes an Optimizer constructor available by name, through NewOptimizer.
// It is intended to be called from the init function of the package providing the Optimizer.
func RegisterOptimizer(name string, f func() Optimizer) error {
	if f == nil {
		return NilArgError{"Optimizer constructor"}
	} else if f() == nil {
		return ErrRegisterNilReturn
	}

	registryMux.Lock()
	defer registryMux.Unlock()

	if _, ok := optimizers[name]; ok {
		return errors.Wrapf(ErrRegisterExists, "Failed to register Optimizer %q", name)
	}

	optimizers[name] = f
	return nil
}

// RegisterCostFunction makes a CostFunction constructor available by name, through
// NewCostFunction.
func RegisterCostFunction(name string, f func() CostFunction) error {
	if f == nil {
		return NilArgError{"CostFunction constructor"}
	} else if f() == nil {
		return ErrRegisterNilReturn
	}

	registryMux.Lock()
	defer registryMux.Unlock()

	if _, ok := costFuncs[name]; ok {
		return errors.Wrapf(ErrRegisterExists, "Failed to register CostFunction %q", name)
	}

	costFuncs[name] = f
	return nil
}

// RegisterHyperParameter makes a HyperParameter constructor available by name, through
// NewHyperParameter. The constructor is given the base value of the HyperParameter.
func RegisterHyperParameter(name string, f func(base float64) HyperParameter) error {
	if f == nil {
		return NilArgError{"HyperParameter constructor"}
	} else if f(0) == nil {
		return ErrRegisterNilReturn
	}

	registryMux.Lock()
	defer registryMux.Unlock()

	if _, ok := hyperParams[name]; ok {
		return errors.Wrapf(ErrRegisterExists, "Failed to register HyperParameter %q", name)
	}

	hyperParams[name] = f
	return nil
}

// NewOptimizer returns a new Optimizer registered under the given name.
func NewOptimizer(name string) (Optimizer, error) {
	registryMux.RLock()
	f, ok := optimizers[name]
	registryMux.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrNotRegistered, "Optimizer %q (known: %v)", name, Optimizers())
	}

	return f(), nil
}

// NewCostFunction returns a new CostFunction registered under the given name.
func NewCostFunction(name string) (CostFunction, error) {
	registryMux.RLock()
	f, ok := costFuncs[name]
	registryMux.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrNotRegistered, "CostFunction %q (known: %v)", name, CostFunctions())
	}

	return f(), nil
}

// NewHyperParameter returns a new HyperParameter registered under the given name, starting at
// 'base'.
func NewHyperParameter(name string, base float64) (HyperParameter, error) {
	registryMux.RLock()
	f, ok := hyperParams[name]
	registryMux.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrNotRegistered, "HyperParameter %q (known: %v)", name, HyperParameters())
	}

	return f(base), nil
}

// Optimizers returns the sorted names of all registered Optimizers.
func Optimizers() []string {
	registryMux.RLock()
	defer registryMux.RUnlock()

	return sortedKeys(len(optimizers), func(add func(string)) {
		for k := range optimizers {
			add(k)
		}
	})
}

// CostFunctions returns the sorted names of all registered CostFunctions.
func CostFunctions() []string {
	registryMux.RLock()
	defer registryMux.RUnlock()

	return sortedKeys(len(costFuncs), func(add func(string)) {
		for k := range costFuncs {
			add(k)
		}
	})
}

// HyperParameters returns the sorted names of all registered HyperParameters.
func HyperParameters() []string {
	registryMux.RLock()
	defer registryMux.RUnlock()

	return sortedKeys(len(hyperParams), func(add func(string)) {
		for k := range hyperParams {
			add(k)
		}
	})
}

func sortedKeys(n int, each func(func(string))) []string {
	ks := make([]string, 0, n)
	each(func(k string) { ks = append(ks, k) })
	sort.Strings(ks)
	return ks
}
