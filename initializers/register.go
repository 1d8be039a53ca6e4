package initializers

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
	"uniform-lower": -1,
	"uniform-upper": 1,
	"normal-mean":   0,
	"normal-sd":     1,
	"varscl-factor": 1,
	"leaky-slope":   0,
}}

// SetDefault changes a value that constructors in this package start from. The known names are
// "uniform-lower", "uniform-upper", "normal-mean", "normal-sd", "varscl-factor" and
// "leaky-slope". Already constructed Initializers are unaffected.
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
