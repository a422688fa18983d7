package stream

import (
	"golang.org/x/exp/constraints"

	"github.com/kbukum/streamkit/errors"
)

// Number is the set of types arithmetic step ranges can add a delta to.
type Number interface {
	constraints.Integer | constraints.Float
}

// StepRange generates values from a start value, a validity predicate and
// a step function without materializing a sequence. Its size is always
// unknown.
type StepRange[T any] struct {
	cur   T
	valid func(T) bool
	step  func(T) T
}

// Step is the canonical step range: it yields start, step(start),
// step(step(start)), ... for as long as valid holds. A start that already
// fails valid yields nothing.
func Step[T any](start T, valid func(T) bool, step func(T) T) *StepRange[T] {
	if valid == nil {
		panic(errors.InvalidStage("Step", "validity predicate must not be nil"))
	}
	if step == nil {
		panic(errors.InvalidStage("Step", "step function must not be nil"))
	}
	return &StepRange[T]{cur: start, valid: valid, step: step}
}

// StepTo yields values until one equals stop. A step that never lands on
// stop produces an unbounded range.
func StepTo[T comparable](start, stop T, step func(T) T) *StepRange[T] {
	return Step(start, func(v T) bool { return v != stop }, step)
}

// StepInPlace is Step with a step function that mutates the value in place.
func StepInPlace[T any](start T, valid func(T) bool, step func(*T)) *StepRange[T] {
	if step == nil {
		panic(errors.InvalidStage("StepInPlace", "step function must not be nil"))
	}
	return Step(start, valid, func(v T) T {
		step(&v)
		return v
	})
}

// Arithmetic yields start, start+delta, ... until a value equals stop.
func Arithmetic[N Number](start, stop, delta N) *StepRange[N] {
	return StepTo(start, stop, func(v N) N { return v + delta })
}

// ArithmeticWhile yields start, start+delta, ... for as long as valid holds.
func ArithmeticWhile[N Number](start N, valid func(N) bool, delta N) *StepRange[N] {
	return Step(start, valid, func(v N) N { return v + delta })
}

// HasNext reports whether the current value is valid.
func (r *StepRange[T]) HasNext() bool { return r.valid(r.cur) }

// Next returns the current value and steps past it.
func (r *StepRange[T]) Next() T {
	if !r.valid(r.cur) {
		panic(errors.RangeExhausted("StepRange"))
	}
	v := r.cur
	r.cur = r.step(r.cur)
	return v
}

// Size is always 0: a generative range cannot know its length.
func (r *StepRange[T]) Size() int { return 0 }

// Stream moves the range into a new stream.
func (r *StepRange[T]) Stream(opts ...Option) *Stream[T] {
	return From[T](r, opts...)
}
