package penalties

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"gonum.org/v1/gonum/floats"

	"math"
)

// Mix is the weighted sum of the L1 norm and the squared L2 norm of a Param's values:
// Abs·‖w‖₁ + Sq·‖w‖₂². Every Penalty in this package is a Mix with different weights.
type Mix struct {
	Abs, Sq float64

	name string
}

func (m *Mix) TypeString() string {
	return m.name
}

func (m *Mix) Cost(p *ipa.Param) float64 {
	var c float64
	if m.Abs != 0 {
		c += m.Abs * floats.Norm(p.Values, 1)
	}
	if m.Sq != 0 {
		c += m.Sq * floats.Dot(p.Values, p.Values)
	}
	return c
}

// Penalize adds the gradient of Cost to p.Grads. The L1 term contributes nothing for values that
// are exactly zero.
func (m *Mix) Penalize(p *ipa.Param) {
	if m.Sq != 0 {
		floats.AddScaled(p.Grads, 2*m.Sq, p.Values)
	}
	if m.Abs == 0 {
		return
	}

	for i, w := range p.Values {
		if w != 0 {
			p.Grads[i] += math.Copysign(m.Abs, w)
		}
	}
}

// L1 returns the lasso penalty λ·Σ|w|.
func L1(λ float64) *Mix { return &Mix{Abs: λ, name: "l1-lasso"} }

// Lasso is L1.
func Lasso(λ float64) *Mix { return L1(λ) }

// L2 returns the ridge penalty λ·Σw². The unsquared norm applied by default during training is
// ipa.WeightNorm.
func L2(λ float64) *Mix { return &Mix{Sq: λ, name: "l2-ridge"} }

// Ridge is L2.
func Ridge(λ float64) *Mix { return L2(λ) }

// ElasticNet splits λ between the two norms: α of it goes to L1 and the rest to L2. α must be in
// [0, 1].
func ElasticNet(α, λ float64) *Mix {
	return &Mix{Abs: α * λ, Sq: (1 - α) * λ, name: "elastic-net"}
}
