package stream

import (
	"github.com/kbukum/streamkit/logger"
)

// evaluator drives a linked pipeline one pull at a time. There is exactly
// one per evaluation, owned by the root range, however many casts sit
// between it and the terminal.
type evaluator interface {
	begin()
	step() bool
	end()
	pulled() int
	cancelled() bool
}

// origin produces the values of a segment.
type origin[T any] interface {
	open(head Sink[T]) evaluator
	stages() []string
}

type rangeOrigin[T any] struct {
	r Range[T]
}

func (o *rangeOrigin[T]) open(head Sink[T]) evaluator {
	return &rangeEvaluator[T]{r: o.r, head: head}
}

func (o *rangeOrigin[T]) stages() []string { return nil }

type rangeEvaluator[T any] struct {
	r       Range[T]
	head    Sink[T]
	n       int
	stopped bool
}

func (e *rangeEvaluator[T]) begin() { e.head.Pre(e.r.Size()) }

func (e *rangeEvaluator[T]) step() bool {
	if e.head.Cancelled() {
		e.stopped = true
		return false
	}
	if !e.r.HasNext() {
		return false
	}
	e.head.Accept(e.r.Next())
	e.n++
	return true
}

func (e *rangeEvaluator[T]) end()            { e.head.Post() }
func (e *rangeEvaluator[T]) pulled() int     { return e.n }
func (e *rangeEvaluator[T]) cancelled() bool { return e.stopped }

// castOrigin turns a finished upstream segment into the producer of a
// differently typed one. The upstream chain ends in a converting sink
// whose receiver is this segment's head.
type castOrigin[S, T any] struct {
	up    *segment[S]
	adapt func(recv Sink[T]) Sink[S]
}

func (o *castOrigin[S, T]) open(head Sink[T]) evaluator {
	return o.up.open(o.adapt(head))
}

func (o *castOrigin[S, T]) stages() []string { return o.up.stages() }

// mapConvert applies fn and hands the result to the downstream head.
type mapConvert[S, T any] struct {
	link[S]
	recv Sink[T]
	fn   func(S) T
}

func (c *mapConvert[S, T]) Pre(hint int)    { c.recv.Pre(hint) }
func (c *mapConvert[S, T]) Accept(v S)      { c.recv.Accept(c.fn(v)) }
func (c *mapConvert[S, T]) Post()           { c.recv.Post() }
func (c *mapConvert[S, T]) Cancelled() bool { return c.recv.Cancelled() }
func (c *mapConvert[S, T]) kind() string    { return "map_to" }

type flatMapConvert[S, T any] struct {
	link[S]
	recv Sink[T]
	fn   func(S) []T
}

func (c *flatMapConvert[S, T]) Pre(int) { c.recv.Pre(0) }

func (c *flatMapConvert[S, T]) Accept(v S) {
	for _, e := range c.fn(v) {
		if c.recv.Cancelled() {
			return
		}
		c.recv.Accept(e)
	}
}

func (c *flatMapConvert[S, T]) Post()           { c.recv.Post() }
func (c *flatMapConvert[S, T]) Cancelled() bool { return c.recv.Cancelled() }
func (c *flatMapConvert[S, T]) kind() string    { return "flat_map_to" }

// MapTo consumes s and returns a stream of fn applied to each value.
func MapTo[S, T any](s *Stream[S], fn func(S) T) *Stream[T] {
	mustFunc("MapTo", fn == nil)
	return castTo(s, "MapTo", func(recv Sink[T]) Sink[S] {
		return &mapConvert[S, T]{recv: recv, fn: fn}
	})
}

// FlatMapTo consumes s and returns a stream of every value fn returns.
func FlatMapTo[S, T any](s *Stream[S], fn func(S) []T) *Stream[T] {
	mustFunc("FlatMapTo", fn == nil)
	return castTo(s, "FlatMapTo", func(recv Sink[T]) Sink[S] {
		return &flatMapConvert[S, T]{recv: recv, fn: fn}
	})
}

func castTo[S, T any](s *Stream[S], op string, adapt func(Sink[T]) Sink[S]) *Stream[T] {
	up := s.claim(op)
	depth := up.depth + 1

	if log := s.st.logger(); log.DebugEnabled() {
		log.Debug("cast boundary", logger.Fields(
			logger.FieldStream, s.st.displayName(),
			logger.FieldOperation, op,
			"from", typeName[S](),
			"to", typeName[T](),
			logger.FieldDepth, depth,
		))
	}
	return newStream[T](&castOrigin[S, T]{up: up, adapt: adapt}, depth, s.st)
}
