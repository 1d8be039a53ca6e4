package ipa

import (
	"testing"
)

func numbered(n int) (Tensor, Tensor) {
	x := NewTensor(n, 1, 2)
	y := NewTensor(n, 1)
	for i := 0; i < n; i++ {
		x.Values[2*i] = float64(i)
		x.Values[2*i+1] = float64(i)
		y.Values[i] = float64(i)
	}
	return x, y
}

func TestLoaderBatches(t *testing.T) {
	x, y := numbered(37)

	l, err := Data(x, y, 0, false, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Len() != 3 {
		t.Fatalf("expected 3 batches of up to %d, got %d", DefaultBatchSize, l.Len())
	}

	var sizes []int
	var next float64
	err = l.Each(func(i int, b Batch) error {
		sizes = append(sizes, b.X.Batch())
		for _, v := range b.Y.Values {
			if v != next {
				t.Fatalf("batch %d: expected label %v, got %v", i, next, v)
			}
			next++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sizes[0] != 16 || sizes[1] != 16 || sizes[2] != 5 {
		t.Fatalf("unexpected batch sizes %v", sizes)
	}
}

func TestLoaderShuffle(t *testing.T) {
	x, y := numbered(10)

	order := func(seed int64) [][]float64 {
		l, err := Data(x, y, 4, true, seed)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var passes [][]float64
		for pass := 0; pass < 2; pass++ {
			var labels []float64
			l.Each(func(i int, b Batch) error {
				for j, v := range b.Y.Values {
					if b.X.Values[2*j] != v {
						t.Fatalf("inputs and labels got separated")
					}
					labels = append(labels, v)
				}
				return nil
			})
			passes = append(passes, labels)
		}
		return passes
	}

	a, b := order(3), order(3)
	for p := range a {
		for i := range a[p] {
			if a[p][i] != b[p][i] {
				t.Fatalf("the same seed gave different orders")
			}
		}
	}

	same := true
	for i := range a[0] {
		if a[0][i] != a[1][i] {
			same = false
		}
	}
	if same {
		t.Fatalf("expected each pass to be shuffled again")
	}
}

func TestLoaderChecks(t *testing.T) {
	x, y := numbered(4)

	if _, err := Data(x, NewTensor(3, 1), 2, false, 0); err == nil {
		t.Fatalf("expected error for mismatched label count")
	}
	if _, err := Data(NewTensor(4, 2), y, 2, false, 0); err == nil {
		t.Fatalf("expected error for rank-2 inputs")
	}
	if _, err := Data(x, y, -1, false, 0); err == nil {
		t.Fatalf("expected error for negative batch size")
	}
}
