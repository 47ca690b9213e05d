package buffer

import (
	"errors"
	"slices"
	"testing"
)

func TestNewRingRejectsNonPositive(t *testing.T) {
	for _, c := range []int{0, -3} {
		if _, err := NewRing(c); !errors.Is(err, ErrCapacity) {
			t.Fatalf("NewRing(%d) err = %v", c, err)
		}
	}
}

func TestRingWriteRespectsCapacity(t *testing.T) {
	r, _ := NewRing(4)

	if n := r.Write([]float64{1, 2, 3, 4, 5, 6}); n != 4 {
		t.Fatalf("Write = %d, want 4", n)
	}

	if r.Len() != 4 || r.Free() != 0 {
		t.Fatalf("Len=%d Free=%d", r.Len(), r.Free())
	}

	if n := r.Write([]float64{7}); n != 0 {
		t.Fatalf("Write to full ring = %d", n)
	}
}

func TestRingWrapAround(t *testing.T) {
	r, _ := NewRing(5)
	r.Write([]float64{1, 2, 3, 4})

	if n := r.Discard(3); n != 3 {
		t.Fatalf("Discard = %d", n)
	}

	// head is at 3, so this write wraps
	r.Write([]float64{5, 6, 7, 8})

	got := make([]float64, 5)
	if n := r.Peek(got, 0); n != 5 {
		t.Fatalf("Peek = %d", n)
	}

	if want := []float64{4, 5, 6, 7, 8}; !slices.Equal(got, want) {
		t.Fatalf("Peek = %v, want %v", got, want)
	}

	part := make([]float64, 3)
	if n := r.Peek(part, 3); n != 2 || part[0] != 7 || part[1] != 8 {
		t.Fatalf("offset Peek = %d %v", n, part)
	}
}

func TestRingConsumeAndReset(t *testing.T) {
	r, _ := NewRing(3)
	r.Write([]float64{1, 2, 3})

	dst := make([]float64, 2)
	if n := r.Peek(dst, 0); n != 2 || dst[0] != 1 || dst[1] != 2 {
		t.Fatalf("Peek = %d %v", n, dst)
	}

	r.Discard(2)

	if r.Len() != 1 {
		t.Fatalf("Len after read = %d", r.Len())
	}

	if n := r.Discard(10); n != 1 {
		t.Fatalf("Discard beyond Len = %d", n)
	}

	r.Write([]float64{9})
	r.Reset()

	if r.Len() != 0 || r.Peek(dst, 0) != 0 {
		t.Fatal("Reset should empty the ring")
	}
}

func TestRingStreamingOrder(t *testing.T) {
	r, _ := NewRing(7)

	var out []float64

	next := 0.0
	tmp := make([]float64, 3)

	for range 50 {
		chunk := []float64{next, next + 1}
		next += 2

		if r.Write(chunk) != 2 {
			t.Fatal("ring unexpectedly full")
		}

		n := r.Peek(tmp, 0)
		r.Discard(n)
		out = append(out, tmp[:n]...)
	}

	for i, v := range out {
		if v != float64(i) {
			t.Fatalf("out[%d] = %v: ordering broken", i, v)
		}
	}
}
