package initializers

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"github.com/pkg/errors"

	"sort"
)

// the standard deviation of the "normal" initializer
const normalSD float64 = 0.05

var list = map[string]func() ipa.Initializer{
	"kaiming-uniform": func() ipa.Initializer { return DefaultKaimingUniform() },
	"he":              func() ipa.Initializer { return He() },
	"lecun":           func() ipa.Initializer { return LeCun() },
	"xavier":          func() ipa.Initializer { return Xavier() },
	"normal":          func() ipa.Initializer { return Random(TruncNormal().SD(normalSD)) },
}

// New returns the weight Initializer with the given name.
func New(name string) (ipa.Initializer, error) {
	f, ok := list[name]
	if !ok {
		return nil, errors.Wrapf(ipa.ErrNotRegistered, "Initializer %q (known: %v)", name, Names())
	}
	return f(), nil
}

// Names returns the sorted names accepted by New.
func Names() []string {
	ns := make([]string, 0, len(list))
	for n := range list {
		ns = append(ns, n)
	}
	sort.Strings(ns)
	return ns
}
