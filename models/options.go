package models

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"github.com/florent-haffner/ipa-under-the-light/initializers"
	"github.com/florent-haffner/ipa-under-the-light/operators"
	"github.com/pkg/errors"

	"math/rand"
)

// Options are the choices left open in the layout of the network. The zero value is not usable;
// start from DefaultOptions.
type Options struct {
	// Activation follows every convolution of the MultiBranch module. It is one of
	// operators.Activations.
	Activation string
	// LeakySlope is the negative slope when Activation is "leaky-relu".
	LeakySlope float64

	// Pool opens the first branch; "max" or "avg".
	Pool string

	// Init draws the weights of every convolution and of the regressor. It is one of
	// initializers.Names.
	Init string

	// Dropout is the probability of dropping each flattened feature while training, in [0, 1).
	Dropout float64
}

// DefaultOptions returns the layout of the published network: leaky ReLU with slope LeakySlope,
// max pooling, He-uniform weights, and dropout at DropoutRate.
func DefaultOptions() Options {
	return Options{
		Activation: "leaky-relu",
		LeakySlope: LeakySlope,
		Pool:       "max",
		Init:       "kaiming-uniform",
		Dropout:    DropoutRate,
	}
}

// Validate returns an error if any of the names is unknown or Dropout is out of range.
func (o Options) Validate() error {
	if _, err := operators.NewActivation(o.Activation, o.LeakySlope); err != nil {
		return err
	} else if _, err := operators.NewPool(o.Pool, 2); err != nil {
		return err
	} else if _, err := initializers.New(o.Init); err != nil {
		return err
	} else if o.Dropout < 0 || o.Dropout >= 1 {
		return errors.Errorf("Dropout must be in [0, 1) (got %v)", o.Dropout)
	}

	return nil
}

// conv returns a convolution followed by the activation, drawing its weights from 'rng'.
func (o Options) conv(name string, in, out, kernel, stride, padding int, rng *rand.Rand) (ipa.Operator, error) {
	c, err := o.bareConv(name, in, out, kernel, stride, padding, rng)
	if err != nil {
		return nil, err
	}

	act, err := operators.NewActivation(o.Activation, o.LeakySlope)
	if err != nil {
		return nil, err
	}

	return operators.Sequential(name, c, act), nil
}

// bareConv is conv without the activation.
func (o Options) bareConv(name string, in, out, kernel, stride, padding int, rng *rand.Rand) (ipa.Operator, error) {
	wInit, err := initializers.New(o.Init)
	if err != nil {
		return nil, err
	}

	c, err := operators.Conv(in, out, kernel).
		Stride(stride).
		Pad(padding).
		Name(name).
		Init(wInit, nil).
		Finalize(rng)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to build %s", name)
	}
	return c, nil
}
