package stream

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/streamkit/errors"
)

func drainRange[T any](r Range[T]) []T {
	out := []T{}
	for r.HasNext() {
		out = append(out, r.Next())
	}
	return out
}

func TestSlice(t *testing.T) {
	r := Slice([]string{"a", "b", "c"})
	if r.Size() != 3 {
		t.Errorf("expected size 3, got %d", r.Size())
	}
	if !r.HasNext() || !r.HasNext() {
		t.Fatal("HasNext should be true and idempotent")
	}
	if v := r.Next(); v != "a" {
		t.Errorf("got %q, want a", v)
	}
	if r.Size() != 2 {
		t.Errorf("expected size 2 after one Next, got %d", r.Size())
	}
	if diff := cmp.Diff([]string{"b", "c"}, drainRange[string](r)); diff != "" {
		t.Errorf("remaining values mismatch (-want +got):\n%s", diff)
	}
	if r.HasNext() {
		t.Error("expected exhausted range")
	}
}

func TestBetween(t *testing.T) {
	values := []int{10, 20, 30, 40, 50}

	r := Between(values, 1, 4)
	if r.Size() != 3 {
		t.Errorf("expected size 3, got %d", r.Size())
	}
	if diff := cmp.Diff([]int{20, 30, 40}, drainRange[int](r)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if empty := Between(values, 2, 2); empty.HasNext() || empty.Size() != 0 {
		t.Error("expected empty range for begin == end")
	}
}

func TestBetween_InvalidBounds(t *testing.T) {
	values := []int{1, 2, 3}
	tests := []struct {
		name       string
		begin, end int
	}{
		{"negative begin", -1, 2},
		{"end past length", 0, 4},
		{"end before begin", 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectPanicCode(t, errors.ErrCodeInvalidRange, func() {
				Between(values, tt.begin, tt.end)
			})
		})
	}
}

func TestSliceRange_NextExhausted(t *testing.T) {
	r := Slice([]int{1})
	r.Next()
	expectPanicCode(t, errors.ErrCodeRangeExhausted, func() { r.Next() })
}

func TestStepTo(t *testing.T) {
	r := StepTo("a", "aaaa", func(s string) string { return s + "a" })
	if diff := cmp.Diff([]string{"a", "aa", "aaa"}, drainRange[string](r)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name              string
		start, stop, step int
		want              []int
	}{
		{"ascending", 0, 5, 1, []int{0, 1, 2, 3, 4}},
		{"descending stride", 25, 4, -7, []int{25, 18, 11}},
		{"start equals stop", 3, 3, 1, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Arithmetic(tt.start, tt.stop, tt.step)
			if r.Size() != 0 {
				t.Errorf("step ranges have unknown size, got %d", r.Size())
			}
			if diff := cmp.Diff(tt.want, drainRange[int](r)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestArithmetic_Float(t *testing.T) {
	got := drainRange[float64](Arithmetic(0.0, 1.0, 0.25))
	if diff := cmp.Diff([]float64{0, 0.25, 0.5, 0.75}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestArithmeticWhile(t *testing.T) {
	got := drainRange[int](ArithmeticWhile(0, func(v int) bool { return v < 17 }, 5))
	if diff := cmp.Diff([]int{0, 5, 10, 15}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestStep_InvalidStart(t *testing.T) {
	r := Step(10, func(v int) bool { return v < 5 }, func(v int) int { return v + 1 })
	if r.HasNext() {
		t.Fatal("expected empty range when start fails the predicate")
	}
	expectPanicCode(t, errors.ErrCodeRangeExhausted, func() { r.Next() })
}

func TestStepInPlace(t *testing.T) {
	type point struct{ X, Y int }
	r := StepInPlace(point{}, func(p point) bool { return p.X < 3 }, func(p *point) {
		p.X++
		p.Y += 2
	})
	want := []point{{0, 0}, {1, 2}, {2, 4}}
	if diff := cmp.Diff(want, drainRange[point](r)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestStep_NilFunctions(t *testing.T) {
	expectPanicCode(t, errors.ErrCodeInvalidStage, func() {
		Step(0, nil, func(v int) int { return v })
	})
	expectPanicCode(t, errors.ErrCodeInvalidStage, func() {
		Step(0, func(int) bool { return true }, nil)
	})
	expectPanicCode(t, errors.ErrCodeInvalidStage, func() {
		StepInPlace(0, func(int) bool { return true }, nil)
	})
}
