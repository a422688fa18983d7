package stream

import (
	"github.com/kbukum/streamkit/errors"
)

// Range is a pull-based source of values.
//
// HasNext has no side effects and may be called any number of times between
// calls to Next. Next panics once HasNext reports false. Size is an
// allocation hint: the exact number of remaining values when known, 0 when
// unknown.
type Range[T any] interface {
	HasNext() bool
	Next() T
	Size() int
}

// SliceRange is a fixed-bounds range over an existing slice.
type SliceRange[T any] struct {
	values []T
	cur    int
	end    int
}

// Slice returns a range over all of values.
func Slice[T any](values []T) *SliceRange[T] {
	return &SliceRange[T]{values: values, end: len(values)}
}

// Between returns a range over values[begin:end]. It panics with
// INVALID_RANGE if the cursors fall outside the slice.
func Between[T any](values []T, begin, end int) *SliceRange[T] {
	if begin < 0 || end < begin || end > len(values) {
		panic(errors.InvalidRange(begin, end, len(values)))
	}
	return &SliceRange[T]{values: values, cur: begin, end: end}
}

// HasNext reports whether the cursor has not reached the end bound.
func (r *SliceRange[T]) HasNext() bool { return r.cur < r.end }

// Next returns the value under the cursor and advances it.
func (r *SliceRange[T]) Next() T {
	if r.cur >= r.end {
		panic(errors.RangeExhausted("SliceRange"))
	}
	v := r.values[r.cur]
	r.cur++
	return v
}

// Size returns the exact number of values left.
func (r *SliceRange[T]) Size() int { return r.end - r.cur }

// Stream moves the range into a new stream.
func (r *SliceRange[T]) Stream(opts ...Option) *Stream[T] {
	return From[T](r, opts...)
}
