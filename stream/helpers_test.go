package stream

import (
	"fmt"
	"testing"

	"github.com/kbukum/streamkit/errors"
)

// recordSink is a terminal that logs every protocol call it receives.
type recordSink[T any] struct {
	terminal[T]
	events      []string
	cancelAfter int
	n           int
}

func (s *recordSink[T]) Pre(hint int) { s.events = append(s.events, fmt.Sprintf("pre:%d", hint)) }

func (s *recordSink[T]) Accept(v T) {
	s.n++
	s.events = append(s.events, fmt.Sprintf("accept:%v", v))
}

func (s *recordSink[T]) Post()           { s.events = append(s.events, "post") }
func (s *recordSink[T]) Cancelled() bool { return s.cancelAfter > 0 && s.n >= s.cancelAfter }
func (s *recordSink[T]) kind() string    { return "record" }

func record[T any](s *Stream[T], cancelAfter int) []string {
	rec := &recordSink[T]{cancelAfter: cancelAfter}
	s.evaluate("Record", rec)
	return rec.events
}

// counter returns a Peek function and a pointer to the number of values it saw.
func counter[T any]() (func(T), *int) {
	n := 0
	return func(T) { n++ }, &n
}

func naturals() *StepRange[int] {
	return Step(0, func(int) bool { return true }, func(v int) int { return v + 1 })
}

func expectPanicCode(t *testing.T, code errors.ErrorCode, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with code %s", code)
		}
		appErr, ok := r.(*errors.AppError)
		if !ok {
			t.Fatalf("expected *errors.AppError panic, got %T: %v", r, r)
		}
		if appErr.Code != code {
			t.Fatalf("expected code %s, got %s (%s)", code, appErr.Code, appErr.Message)
		}
	}()
	fn()
}
