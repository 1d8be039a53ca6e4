package utils

import (
	"errors"
	"sync"
	"testing"
)

func TestMultiThreadCoversRange(t *testing.T) {
	for _, threads := range []int{1, 4} {
		var mux sync.Mutex
		seen := make(map[int]int)

		err := MultiThread(3, 50, func(i int) error {
			mux.Lock()
			seen[i]++
			mux.Unlock()
			return nil
		}, 4, threads)
		if err != nil {
			t.Fatalf("threads=%d: unexpected error: %v", threads, err)
		}

		if len(seen) != 47 {
			t.Fatalf("threads=%d: expected 47 indexes, got %d", threads, len(seen))
		}
		for i := 3; i < 50; i++ {
			if seen[i] != 1 {
				t.Fatalf("threads=%d: index %d visited %d times", threads, i, seen[i])
			}
		}
	}
}

func TestMultiThreadReturnsError(t *testing.T) {
	boom := errors.New("boom")

	err := MultiThread(0, 100, func(i int) error {
		if i == 42 {
			return boom
		}
		return nil
	}, 2, 3)
	if err != boom {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestMultiDimRowMajor(t *testing.T) {
	m := NewMultiDim([]int{2, 3, 4})

	if m.Size() != 24 {
		t.Fatalf("expected size 24, got %d", m.Size())
	}
	if idx := m.Index([]int{1, 2, 3}); idx != 23 {
		t.Fatalf("expected index 23, got %d", idx)
	}
	if idx := m.Index([]int{0, 1, 0}); idx != 4 {
		t.Fatalf("expected index 4, got %d", idx)
	}

	p := m.Point(17)
	if p[0] != 1 || p[1] != 1 || p[2] != 1 {
		t.Fatalf("expected point [1 1 1], got %v", p)
	}

	point := []int{0, 0, 0}
	for i := 1; i < 24; i++ {
		if !m.Increment(point) {
			t.Fatalf("unexpected overflow at step %d", i)
		}
		if m.Index(point) != i {
			t.Fatalf("increment %d landed on %v", i, point)
		}
	}
	if m.Increment(point) {
		t.Fatalf("expected overflow after the last point")
	}

	if m.Outer(2) != 6 || m.Inner(2) != 1 || m.Outer(1) != 2 || m.Inner(1) != 4 {
		t.Fatalf("unexpected outer/inner sizes")
	}
}
