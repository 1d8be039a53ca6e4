package models

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"github.com/florent-haffner/ipa-under-the-light/initializers"
	"github.com/florent-haffner/ipa-under-the-light/operators"
	"github.com/pkg/errors"

	"math/rand"
)

const (
	// DefaultSeed is the seed used by Default.
	DefaultSeed int64 = 1

	// MinInputLength is the shortest sequence for which every branch of the network is
	// non-empty.
	MinInputLength int = 35

	// DropoutRate is the default probability of dropping each flattened feature while training.
	DropoutRate float64 = 0.2

	// the dropout source is seeded apart from the weights, so that changing one doesn't shift
	// the other
	dropoutSeedOffset int64 = 7919
)

// the operators that can be resolved lazily
type resolver interface {
	ipa.Operator
	Resolve(width int) error
	Resolved() bool
}

// IPA is the regression network for spectra: a three-convolution stem, a MultiBranch module, and
// a single-output linear regressor behind dropout. It takes inputs of the shape (batch, 1,
// positions) with at least MinInputLength positions, and gives outputs of the shape (batch, 1).
//
// The width of the regressor is resolved on the first call to Evaluate. After that, only inputs
// of the same length are accepted.
type IPA struct {
	stem      ipa.Operator
	mixed     *MultiBranch
	head      ipa.Operator
	regressor resolver

	net ipa.Operator
}

// New returns a network laid out with DefaultOptions whose weights, and the decisions of its
// dropout, are drawn from 'seed'. Two networks built with the same seed have identical Params and
// give identical outputs for identical inputs.
func New(seed int64) *IPA {
	m, err := NewWithOptions(seed, DefaultOptions())
	if err != nil {
		// the default layout is fixed, so this can only happen if the operators themselves are
		// broken
		panic(err.Error())
	}

	return m
}

// Default returns the network built from DefaultSeed.
func Default() *IPA {
	return New(DefaultSeed)
}

// NewWithOptions is New with a different choice of activation, pooling, initialization or
// dropout.
func NewWithOptions(seed int64, opts Options) (*IPA, error) {
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrapf(err, "Bad network options")
	}

	rng := rand.New(rand.NewSource(seed))
	dropRng := rand.New(rand.NewSource(seed + dropoutSeedOffset))

	convs := []struct {
		name                    string
		in, out, kernel, stride int
	}{
		{"stem.0", 1, 16, 3, 2},
		{"stem.1", 16, 16, 3, 1},
		{"stem.2", 16, 32, 3, 1},
	}

	var stem []ipa.Operator
	for _, c := range convs {
		op, err := opts.bareConv(c.name, c.in, c.out, c.kernel, c.stride, 0, rng)
		if err != nil {
			return nil, err
		}
		stem = append(stem, op)
	}

	mixed, err := newMultiBranch("mixed", 32, rng, opts)
	if err != nil {
		return nil, err
	}

	wInit, err := initializers.New(opts.Init)
	if err != nil {
		return nil, err
	}
	regressor := operators.Linear(1, rng).
		Name("regressor").
		Regularize(false).
		Init(wInit, nil)

	m := &IPA{
		stem:      operators.Sequential("stem", stem...),
		mixed:     mixed,
		head:      operators.Sequential("head", operators.Flatten(), operators.Dropout(opts.Dropout, dropRng), regressor),
		regressor: regressor,
	}
	m.net = operators.Sequential("ipa", m.stem, m.mixed, m.head)

	return m, nil
}

func (m *IPA) TypeString() string {
	return "ipa"
}

// Stem returns the three unactivated convolutions at the start of the network.
func (m *IPA) Stem() ipa.Operator {
	return m.stem
}

// Mixed returns the MultiBranch module.
func (m *IPA) Mixed() *MultiBranch {
	return m.mixed
}

// Regressor returns the final linear layer.
func (m *IPA) Regressor() ipa.Operator {
	return m.regressor
}

// Resolved returns whether the width of the regressor has been fixed.
func (m *IPA) Resolved() bool {
	return m.regressor.Resolved()
}

// FeatureWidth returns the number of flattened features given to the regressor for inputs with
// 'length' positions.
func (m *IPA) FeatureWidth(length int) (int, error) {
	if length < MinInputLength {
		return 0, errors.Wrapf(ipa.SizeMismatchError{What: "input length", Expected: MinInputLength, Got: length},
			"Input is shorter than the minimum length")
	}

	l, err := outputLength(m.stem, length)
	if err != nil {
		return 0, err
	}

	if l, err = m.mixed.OutputLength(l); err != nil {
		return 0, err
	}

	return 2 * m.mixed.In * l, nil
}

// Resolve fixes the width of the regressor for inputs with 'length' positions, without
// evaluating the network. Resolving again for the same length does nothing; for a different
// length it returns an error.
func (m *IPA) Resolve(length int) error {
	width, err := m.FeatureWidth(length)
	if err != nil {
		return err
	}

	return m.regressor.Resolve(width)
}

// Params returns every Param of the network. The regressor's Params are only included once it
// has been resolved.
func (m *IPA) Params() []*ipa.Param {
	return m.net.Params()
}

func (m *IPA) Evaluate(in ipa.Tensor, train bool) (ipa.Tensor, error) {
	if err := in.CheckRank(3); err != nil {
		return ipa.Tensor{}, errors.Wrapf(err, "Bad input dimensions %v", in.Dims)
	} else if in.Dims[2] < MinInputLength {
		return ipa.Tensor{}, errors.Wrapf(ipa.SizeMismatchError{What: "input length", Expected: MinInputLength, Got: in.Dims[2]},
			"Input is shorter than the minimum length")
	}

	return m.net.Evaluate(in, train)
}

func (m *IPA) InputDeltas(deltas ipa.Tensor) (ipa.Tensor, error) {
	if !m.Resolved() {
		return ipa.Tensor{}, ipa.ErrUnresolved
	}

	return m.net.InputDeltas(deltas)
}

// Predict returns the output of the network for each example of 'x', in inference mode.
func (m *IPA) Predict(x ipa.Tensor) ([]float64, error) {
	return ipa.Predict(m, x.Dev, x, 0)
}
