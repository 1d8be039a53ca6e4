package penalties

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"

	"math"
	"testing"
)

func param(values ...float64) *ipa.Param {
	return &ipa.Param{Values: values, Grads: make([]float64, len(values)), Regularizable: true}
}

func TestCosts(t *testing.T) {
	p := param(3, -4)

	cases := []struct {
		pen  ipa.Penalty
		want float64
	}{
		{L1(0.5), 3.5},
		{L2(0.5), 12.5},
		{ElasticNet(0.5, 1), 0.5*7 + 0.5*25},
		{ipa.WeightNorm(2), 10},
	}

	for _, c := range cases {
		if got := c.pen.Cost(p); math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("%s: expected %v, got %v", c.pen.TypeString(), c.want, got)
		}
	}
}

func TestPenalizeMatchesFiniteDifferences(t *testing.T) {
	for _, name := range Names() {
		pen, err := New(name, 0.3)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}

		p := param(0.7, -1.2, 2.5)
		pen.Penalize(p)

		numeric := fd.Gradient(nil, func(v []float64) float64 {
			return pen.Cost(&ipa.Param{Values: v})
		}, p.Values, &fd.Settings{Formula: fd.Central})

		if !floats.EqualApprox(p.Grads, numeric, 1e-6) {
			t.Fatalf("%s: expected %v, got %v", name, numeric, p.Grads)
		}
	}
}

func TestUnknownPenalty(t *testing.T) {
	if _, err := New("dropconnect", 1); err == nil {
		t.Fatalf("expected error for unknown penalty")
	}
}
