package operators

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"github.com/pkg/errors"

	"math"
	"sync"
)

var defaults = struct {
	sync.RWMutex
	v map[string]float64
}{v: map[string]float64{
	"conv-padding": 0,
	"conv-stride":  1,
}}

// SetDefault changes the value new convolutions start from for "conv-padding" or "conv-stride".
func SetDefault(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.Errorf("Default %q must be finite (got %v)", name, value)
	}

	defaults.Lock()
	defer defaults.Unlock()

	if _, ok := defaults.v[name]; !ok {
		return errors.Wrapf(ipa.ErrNotRegistered, "Default %q", name)
	}

	defaults.v[name] = value
	return nil
}

// SetDefault_Lazy is SetDefault, panicking on error.
func SetDefault_Lazy(name string, value float64) {
	if err := SetDefault(name, value); err != nil {
		panic(err)
	}
}

func getDefault(name string) float64 {
	defaults.RLock()
	defer defaults.RUnlock()

	return defaults.v[name]
}

// errNoTraining is returned by InputDeltas when there has not been a training Evaluate since the
// last call.
func errNoTraining(op string) error {
	return errors.Errorf("%s: InputDeltas called without a preceding training Evaluate", op)
}
