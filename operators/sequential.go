package operators

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"github.com/pkg/errors"
)

type sequential struct {
	name string
	ops  []ipa.Operator
}

// Sequential returns an Operator that applies each of the given Operators in order. Deltas are
// propagated through them in reverse.
func Sequential(name string, ops ...ipa.Operator) *sequential {
	return &sequential{name, ops}
}

func (s *sequential) TypeString() string {
	return "sequential"
}

// Layers returns the Operators in order.
func (s *sequential) Layers() []ipa.Operator {
	return s.ops
}

func (s *sequential) Params() []*ipa.Param {
	var ps []*ipa.Param
	for _, op := range s.ops {
		ps = append(ps, op.Params()...)
	}

	return ps
}

func (s *sequential) Evaluate(in ipa.Tensor, train bool) (ipa.Tensor, error) {
	var err error
	for i, op := range s.ops {
		if in, err = op.Evaluate(in, train); err != nil {
			return ipa.Tensor{}, errors.Wrapf(err, "%s: failed to evaluate %s (layer %d)", s.name, op.TypeString(), i)
		}
	}

	return in, nil
}

func (s *sequential) InputDeltas(deltas ipa.Tensor) (ipa.Tensor, error) {
	var err error
	for i := len(s.ops) - 1; i >= 0; i-- {
		if deltas, err = s.ops[i].InputDeltas(deltas); err != nil {
			return ipa.Tensor{}, errors.Wrapf(err, "%s: failed to get deltas of %s (layer %d)", s.name, s.ops[i].TypeString(), i)
		}
	}

	return deltas, nil
}
