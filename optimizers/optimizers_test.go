package optimizers

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"

	"math"
	"testing"
)

func run(t *testing.T, opt ipa.Optimizer, p *ipa.Param, lr float64) {
	t.Helper()
	err := opt.Run(p, len(p.Values),
		func(i int) float64 { return p.Grads[i] },
		func(i int, d float64) { p.Values[i] += d },
		lr)
	if err != nil {
		t.Fatalf("%s: run failed: %v", opt.TypeString(), err)
	}
}

func TestGradientDescent(t *testing.T) {
	p := &ipa.Param{Values: []float64{1, -2}, Grads: []float64{0.5, -1}}
	run(t, GradientDescent(), p, 0.1)

	if math.Abs(p.Values[0]-0.95) > 1e-12 || math.Abs(p.Values[1]+1.9) > 1e-12 {
		t.Fatalf("unexpected values %v", p.Values)
	}
}

func TestMomentum(t *testing.T) {
	opt := SGD().Momentum(0.5)
	p := &ipa.Param{Values: []float64{0}, Grads: []float64{1}}

	run(t, opt, p, 1)
	run(t, opt, p, 1)

	// velocities 1 then 1.5
	if math.Abs(p.Values[0]+2.5) > 1e-12 {
		t.Fatalf("expected -2.5, got %v", p.Values[0])
	}
}

func TestAdamFirstStep(t *testing.T) {
	// the first bias-corrected step moves each value by lr·sign(grad)
	p := &ipa.Param{Values: []float64{1, 1, 1}, Grads: []float64{3, -0.01, 200}}
	run(t, Adam(), p, 0.1)

	want := []float64{0.9, 1.1, 0.9}
	for i := range want {
		if math.Abs(p.Values[i]-want[i]) > 1e-6 {
			t.Fatalf("value %d: expected %v, got %v", i, want[i], p.Values[i])
		}
	}
}

func TestAdamMinimizesQuadratic(t *testing.T) {
	opt := Adam()
	p := &ipa.Param{Values: []float64{5, -3}, Grads: make([]float64, 2)}

	for i := 0; i < 3000; i++ {
		for j, v := range p.Values {
			p.Grads[j] = 2 * v
		}
		run(t, opt, p, 0.01)
	}

	for _, v := range p.Values {
		if math.Abs(v) > 0.05 {
			t.Fatalf("expected values near 0, got %v", p.Values)
		}
	}
}

func TestAdamKeepsStatePerParam(t *testing.T) {
	opt := Adam()
	a := &ipa.Param{Name: "a", Values: []float64{0}, Grads: []float64{1}}
	b := &ipa.Param{Name: "b", Values: []float64{0, 0}, Grads: []float64{1, 1}}

	run(t, opt, a, 0.1)
	run(t, opt, b, 0.1)

	if len(opt.state) != 2 {
		t.Fatalf("expected state for 2 params, got %d", len(opt.state))
	}

	b.Values = append(b.Values, 0)
	b.Grads = append(b.Grads, 0)
	if err := opt.Run(b, 3, func(i int) float64 { return 0 }, func(int, float64) {}, 0.1); err == nil {
		t.Fatalf("expected error when a Param changes size")
	}
}

func TestRegistered(t *testing.T) {
	for _, name := range []string{"sgd", "adam"} {
		opt, err := ipa.NewOptimizer(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if opt.TypeString() != name {
			t.Fatalf("expected %q, got %q", name, opt.TypeString())
		}
	}
}
