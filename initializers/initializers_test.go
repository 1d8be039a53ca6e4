package initializers

import (
	ipa "github.com/florent-haffner/ipa-under-the-light"
	"github.com/pkg/errors"

	"math"
	"math/rand"
	"testing"
)

var (
	_ ipa.Initializer = Uniform()
	_ ipa.Initializer = FanInUniform()
	_ ipa.Initializer = He()
	_ ipa.Initializer = LeCun()
	_ ipa.Initializer = Xavier()
	_ ipa.Initializer = KaimingUniform(0.3)
	_ ipa.Initializer = Random(Normal())
)

func TestKaimingUniformBound(t *testing.T) {
	const fanIn = 48
	slope := 0.0
	bound := math.Sqrt(2/(1+slope*slope)) * math.Sqrt(3/float64(fanIn))

	ws := make([]float64, 5000)
	KaimingUniform(slope).Set(fanIn, 16, ws, rand.New(rand.NewSource(1)))

	var max float64
	for _, w := range ws {
		if math.Abs(w) > bound {
			t.Fatalf("value %v outside of bound %v", w, bound)
		}
		max = math.Max(max, math.Abs(w))
	}

	if max < 0.9*bound {
		t.Fatalf("values do not span the range: max %v, bound %v", max, bound)
	}
}

func TestSeededInitializersRepeat(t *testing.T) {
	inits := []ipa.Initializer{Uniform(), He(), Xavier(), KaimingUniform(0.3), FanInUniform()}

	for _, in := range inits {
		a := make([]float64, 32)
		b := make([]float64, 32)

		in.Set(8, 4, a, rand.New(rand.NewSource(7)))
		in.Set(8, 4, b, rand.New(rand.NewSource(7)))

		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("%T: value %d differs between identical seeds (%v vs %v)", in, i, a[i], b[i])
			}
		}
	}
}

func TestTruncNormalStaysInRange(t *testing.T) {
	g := TruncNormal().SD(0.5)
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 2000; i++ {
		if v := g.Gen(rng); math.Abs(v) > 1 {
			t.Fatalf("value %v beyond 2 standard deviations", v)
		}
	}
}

func TestSetDefault(t *testing.T) {
	if err := SetDefault("no-such-value", 1); err == nil {
		t.Fatalf("expected error for unknown name")
	}
	if err := SetDefault("uniform-upper", math.NaN()); err == nil {
		t.Fatalf("expected error for NaN")
	}

	if err := SetDefault("uniform-upper", 0.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer SetDefault_Lazy("uniform-upper", 1)

	ws := make([]float64, 100)
	Uniform().Set(1, 1, ws, rand.New(rand.NewSource(1)))
	for _, w := range ws {
		if w > 0.5 {
			t.Fatalf("value %v above new default upper bound", w)
		}
	}
}

func TestNames(t *testing.T) {
	for _, name := range Names() {
		in, err := New(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}

		ws := make([]float64, 200)
		in.Set(16, 8, ws, rand.New(rand.NewSource(2)))

		var sq float64
		for _, w := range ws {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				t.Fatalf("%s: non-finite weight %v", name, w)
			}
			sq += w * w
		}
		if sq == 0 {
			t.Fatalf("%s: every weight is zero", name)
		}
	}

	if _, err := New("orthogonal"); errors.Cause(err) != ipa.ErrNotRegistered {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}
