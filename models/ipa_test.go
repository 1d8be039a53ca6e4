package models

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"github.com/pkg/errors"

	"math/rand"
	"testing"
)

func spectra(batch, length int, seed int64) ipa.Tensor {
	rng := rand.New(rand.NewSource(seed))
	x := ipa.NewTensor(batch, 1, length)
	for i := range x.Values {
		x.Values[i] = rng.Float64()
	}
	return x
}

func TestOutputShape(t *testing.T) {
	m := New(1)

	out, err := m.Evaluate(spectra(4, 512, 2), false)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if len(out.Dims) != 2 || out.Dims[0] != 4 || out.Dims[1] != 1 {
		t.Fatalf("expected output dims [4 1], got %v", out.Dims)
	}
}

func TestBasicConv(t *testing.T) {
	op, err := BasicConv("block", 2, 4, 3, 2, 0, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	x := ipa.NewTensor(3, 2, 9)
	for i := range x.Values {
		x.Values[i] = -1
	}
	out, err := op.Evaluate(x, false)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if out.Dims[0] != 3 || out.Dims[1] != 4 || out.Dims[2] != 4 {
		t.Fatalf("expected output dims [3 4 4], got %v", out.Dims)
	}

	_, err = op.Evaluate(ipa.NewTensor(3, 1, 9), false)
	if _, ok := errors.Cause(err).(ipa.SizeMismatchError); !ok {
		t.Fatalf("expected SizeMismatchError for wrong channel count, got %v", err)
	}

	if _, err := op.Evaluate(ipa.NewTensor(3, 2, 2), false); err == nil {
		t.Fatalf("expected error for input shorter than the kernel")
	}
}

func TestBranchLengths(t *testing.T) {
	m := New(1)

	ls, err := m.Mixed().BranchLengths(251)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{63, 124, 30, 126}
	for i := range want {
		if ls[i] != want[i] {
			t.Fatalf("expected branch lengths %v, got %v", want, ls)
		}
	}

	width, err := m.FeatureWidth(512)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if width != 64*343 {
		t.Fatalf("expected feature width %d, got %d", 64*343, width)
	}
}

func TestMinimumInputLength(t *testing.T) {
	m := New(1)

	_, err := m.Evaluate(spectra(2, MinInputLength-1, 3), false)
	if _, ok := errors.Cause(err).(ipa.SizeMismatchError); !ok {
		t.Fatalf("expected SizeMismatchError for length %d, got %v", MinInputLength-1, err)
	}

	// below the minimum, the branches themselves can't be built
	if _, err := m.Mixed().BranchLengths(12); err == nil {
		t.Fatalf("expected an empty branch for a stem output of 12 positions")
	}

	out, err := m.Evaluate(spectra(2, MinInputLength, 3), false)
	if err != nil {
		t.Fatalf("length %d should be accepted: %v", MinInputLength, err)
	}
	if out.Dims[0] != 2 || out.Dims[1] != 1 {
		t.Fatalf("unexpected output dims %v", out.Dims)
	}
}

func TestSameSeedSameNetwork(t *testing.T) {
	a, b := New(42), New(42)
	x := spectra(3, 128, 5)

	for _, train := range []bool{false, true} {
		outA, err := a.Evaluate(x, train)
		if err != nil {
			t.Fatalf("evaluate failed: %v", err)
		}
		outB, err := b.Evaluate(x, train)
		if err != nil {
			t.Fatalf("evaluate failed: %v", err)
		}

		for i := range outA.Values {
			if outA.Values[i] != outB.Values[i] {
				t.Fatalf("train=%v: output %d differs: %v vs %v", train, i, outA.Values[i], outB.Values[i])
			}
		}
	}

	pa, pb := a.Params(), b.Params()
	if len(pa) != len(pb) {
		t.Fatalf("different number of params: %d vs %d", len(pa), len(pb))
	}
	for i := range pa {
		if pa[i].Name != pb[i].Name {
			t.Fatalf("param %d named %q vs %q", i, pa[i].Name, pb[i].Name)
		}
		for j := range pa[i].Values {
			if pa[i].Values[j] != pb[i].Values[j] {
				t.Fatalf("%s[%d] differs between identical seeds", pa[i].Name, j)
			}
		}
	}

	c := New(43)
	if c.Params()[0].Values[0] == pa[0].Values[0] {
		t.Fatalf("expected different seeds to give different weights")
	}
}

func TestRegularizableParams(t *testing.T) {
	m := New(1)
	if err := m.Resolve(64); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	var weights, regularizable int
	for _, p := range m.Params() {
		if p.Regularizable {
			regularizable++
		}
		if len(p.Name) > 7 && p.Name[len(p.Name)-7:] == ".weight" {
			weights++
		}
		if p.Name == "regressor.weight" && p.Regularizable {
			t.Fatalf("the regressor weight should not be regularizable")
		}
	}

	// three stem convolutions, seven in the branches, and the regressor
	if weights != 11 {
		t.Fatalf("expected 11 weights, got %d", weights)
	}
	if regularizable != 10 {
		t.Fatalf("expected 10 regularizable params, got %d", regularizable)
	}
}

func TestLazyRegressor(t *testing.T) {
	m := New(1)

	if m.Resolved() {
		t.Fatalf("network should start unresolved")
	}
	if _, err := m.InputDeltas(ipa.NewTensor(1, 1)); errors.Cause(err) != ipa.ErrUnresolved {
		t.Fatalf("expected ErrUnresolved, got %v", err)
	}

	if _, err := m.Evaluate(spectra(1, 100, 1), false); err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if !m.Resolved() {
		t.Fatalf("network should be resolved after the first Evaluate")
	}

	if err := m.Resolve(100); err != nil {
		t.Fatalf("resolving for the same length should be a no-op: %v", err)
	}
	if err := m.Resolve(120); err == nil {
		t.Fatalf("expected error when resolving for a different length")
	}
	if _, err := m.Evaluate(spectra(1, 120, 1), false); err == nil {
		t.Fatalf("expected error for a different input length after resolution")
	}
}

func TestBackwardReachesEveryParam(t *testing.T) {
	m := New(3)
	x := spectra(2, 64, 9)

	out, err := m.Evaluate(x, true)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	ipa.ZeroGrads(m.Params())
	deltas := out.Like()
	for i := range deltas.Values {
		deltas.Values[i] = 1
	}

	dx, err := m.InputDeltas(deltas)
	if err != nil {
		t.Fatalf("input deltas failed: %v", err)
	}
	if dx.Size() != x.Size() {
		t.Fatalf("expected %d input deltas, got %d", x.Size(), dx.Size())
	}

	for _, p := range m.Params() {
		var nonzero bool
		for _, g := range p.Grads {
			if g != 0 {
				nonzero = true
				break
			}
		}
		if !nonzero {
			t.Fatalf("%s received no gradient", p.Name)
		}
	}
}

func TestOptions(t *testing.T) {
	variants := map[string]func(*Options){
		"relu":     func(o *Options) { o.Activation = "relu" },
		"tanh":     func(o *Options) { o.Activation = "tanh" },
		"logistic": func(o *Options) { o.Activation = "logistic" },
		"identity": func(o *Options) { o.Activation = "identity" },
		"avg pool": func(o *Options) { o.Pool = "avg" },
		"he":       func(o *Options) { o.Init = "he" },
		"lecun":    func(o *Options) { o.Init = "lecun" },
		"xavier":   func(o *Options) { o.Init = "xavier" },
		"normal":   func(o *Options) { o.Init = "normal" },
		"dropout":  func(o *Options) { o.Dropout = 0 },
	}

	x := spectra(2, 64, 4)
	for name, edit := range variants {
		opts := DefaultOptions()
		edit(&opts)

		m, err := NewWithOptions(1, opts)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		out, err := m.Evaluate(x, true)
		if err != nil {
			t.Fatalf("%s: evaluate failed: %v", name, err)
		}
		if out.Dims[0] != 2 || out.Dims[1] != 1 {
			t.Fatalf("%s: unexpected output dims %v", name, out.Dims)
		}
		if _, err := m.InputDeltas(out.Like()); err != nil {
			t.Fatalf("%s: input deltas failed: %v", name, err)
		}
	}

	// the first op of the first branch is the pool, and every convolution ends in the activation
	opts := DefaultOptions()
	opts.Pool, opts.Activation = "avg", "tanh"
	m, err := NewWithOptions(1, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	branch := m.Mixed().Branches()[0].(layered).Layers()
	if branch[0].TypeString() != "avg-pool" {
		t.Fatalf("expected avg-pool, got %q", branch[0].TypeString())
	}
	conv := branch[1].(layered).Layers()
	if conv[len(conv)-1].TypeString() != "tanh" {
		t.Fatalf("expected tanh, got %q", conv[len(conv)-1].TypeString())
	}

	for name, edit := range map[string]func(*Options){
		"activation":   func(o *Options) { o.Activation = "swish" },
		"pool":         func(o *Options) { o.Pool = "" },
		"init":         func(o *Options) { o.Init = "zeros" },
		"dropout":      func(o *Options) { o.Dropout = 1 },
		"neg. dropout": func(o *Options) { o.Dropout = -0.1 },
	} {
		opts := DefaultOptions()
		edit(&opts)
		if _, err := NewWithOptions(1, opts); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestDefaultOptionsMatchNew(t *testing.T) {
	a := New(7)
	b, err := NewWithOptions(7, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	x := spectra(2, 64, 1)
	outA, err := a.Evaluate(x, true)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	outB, err := b.Evaluate(x, true)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	for i := range outA.Values {
		if outA.Values[i] != outB.Values[i] {
			t.Fatalf("output %d differs: %v vs %v", i, outA.Values[i], outB.Values[i])
		}
	}
}
