package stream

import (
	"cmp"

	"github.com/kbukum/streamkit/errors"
)

// Stream is a lazy pipeline under construction. Each method consumes the
// receiver and returns a new handle; see the package documentation.
type Stream[T any] struct {
	seg        *segment[T]
	st         *settings
	consumedBy string
}

// segment is the part of a pipeline that shares one element type: a
// producer and the stages appended after it.
type segment[T any] struct {
	origin origin[T]
	chain  *chain[T]
	depth  int
}

// open appends the terminal, links the chain and returns the driver for
// the whole pipeline.
func (g *segment[T]) open(term Sink[T]) evaluator {
	g.chain.append(term)
	return g.origin.open(g.chain.link())
}

// stages lists every stage kind from the root range down to this segment.
func (g *segment[T]) stages() []string {
	return append(g.origin.stages(), g.chain.kinds()...)
}

// --- Constructors ---

// From creates a stream that pulls from r.
func From[T any](r Range[T], opts ...Option) *Stream[T] {
	if r == nil {
		panic(errors.InvalidStage("From", "range must not be nil"))
	}
	return newStream(&rangeOrigin[T]{r: r}, 0, newSettings(opts))
}

// FromSlice creates a stream over values.
func FromSlice[T any](values []T, opts ...Option) *Stream[T] {
	return From[T](Slice(values), opts...)
}

// Of creates a stream over the given values.
func Of[T any](values ...T) *Stream[T] {
	return FromSlice(values)
}

func newStream[T any](o origin[T], depth int, st *settings) *Stream[T] {
	return &Stream[T]{
		seg: &segment[T]{origin: o, chain: newChain[T](), depth: depth},
		st:  st,
	}
}

// claim marks the handle consumed by op and hands over its segment.
func (s *Stream[T]) claim(op string) *segment[T] {
	if s == nil || s.seg == nil {
		panic(errors.InvalidStage(op, "stream is nil"))
	}
	if s.consumedBy != "" {
		panic(errors.StreamConsumed(op, s.consumedBy))
	}
	s.consumedBy = op
	return s.seg
}

func (s *Stream[T]) then(op string, stage Sink[T]) *Stream[T] {
	seg := s.claim(op)
	seg.chain.append(stage)
	return &Stream[T]{seg: seg, st: s.st}
}

func mustFunc(op string, isNil bool) {
	if isNil {
		panic(errors.InvalidStage(op, "function must not be nil"))
	}
}

func mustCount(op string, n int) {
	if n < 0 {
		panic(errors.InvalidStage(op, "count must not be negative").WithDetail("count", n))
	}
}

// --- Stateless stages ---

// Map replaces each value with fn(value). Use MapTo to change the type.
func (s *Stream[T]) Map(fn func(T) T) *Stream[T] {
	mustFunc("Map", fn == nil)
	return s.then("Map", &mapSink[T]{fn: fn})
}

// FlatMap replaces each value with the values fn returns for it.
func (s *Stream[T]) FlatMap(fn func(T) []T) *Stream[T] {
	mustFunc("FlatMap", fn == nil)
	return s.then("FlatMap", &flatMapSink[T]{fn: fn})
}

// Filter keeps values for which pred holds.
func (s *Stream[T]) Filter(pred func(T) bool) *Stream[T] {
	mustFunc("Filter", pred == nil)
	return s.then("Filter", &filterSink[T]{pred: pred})
}

// Peek calls fn on each value as it passes.
func (s *Stream[T]) Peek(fn func(T)) *Stream[T] {
	mustFunc("Peek", fn == nil)
	return s.then("Peek", &peekSink[T]{fn: fn})
}

// --- Stateful stages ---

// Sort buffers every value and emits them ordered by less. The sort is
// stable.
func (s *Stream[T]) Sort(less func(a, b T) bool) *Stream[T] {
	mustFunc("Sort", less == nil)
	return s.then("Sort", &sortSink[T]{less: less, limit: s.reserveLimit()})
}

// Limit passes at most n values and then cancels upstream.
func (s *Stream[T]) Limit(n int) *Stream[T] {
	mustCount("Limit", n)
	return s.then("Limit", &limitSink[T]{max: n})
}

// Skip drops the first n values.
func (s *Stream[T]) Skip(n int) *Stream[T] {
	mustCount("Skip", n)
	return s.then("Skip", &skipSink[T]{n: n})
}

// DistinctFunc drops values equal, by eq, to one already passed. Values
// with different hashes are never compared.
func (s *Stream[T]) DistinctFunc(hash func(T) uint64, eq func(a, b T) bool) *Stream[T] {
	mustFunc("DistinctFunc", hash == nil || eq == nil)
	return s.then("DistinctFunc", &distinctSink[T]{newSet: func() seenSet[T] {
		return &hashSet[T]{hash: hash, eq: eq, buckets: make(map[uint64][]T)}
	}})
}

// Distinct drops repeated values.
func Distinct[T comparable](s *Stream[T]) *Stream[T] {
	return DistinctBy(s, func(v T) T { return v })
}

// DistinctBy drops values whose key was already seen.
func DistinctBy[T any, K comparable](s *Stream[T], key func(T) K) *Stream[T] {
	mustFunc("DistinctBy", key == nil)
	return s.then("DistinctBy", &distinctSink[T]{newSet: func() seenSet[T] {
		return &keySet[T, K]{key: key, seen: make(map[K]struct{})}
	}})
}

// Sorted sorts values in their natural order.
func Sorted[T cmp.Ordered](s *Stream[T]) *Stream[T] {
	return s.Sort(cmp.Less[T])
}

func (s *Stream[T]) reserveLimit() int {
	if s == nil || s.st == nil {
		return DefaultReserveLimit
	}
	return s.st.reserveLimit
}

// --- Terminals ---

// evaluate runs the pipeline into term until the range is exhausted or
// the chain is cancelled.
func (s *Stream[T]) evaluate(op string, term Sink[T]) {
	seg := s.claim(op)
	ev := seg.open(term)
	obs := s.st.observe(op)

	ev.begin()
	for ev.step() {
	}
	ev.end()

	obs.finish(ev, seg.stages(), seg.depth)
}

// Collect returns every value in order.
func (s *Stream[T]) Collect() []T {
	sink := &collectSink[T]{limit: s.reserveLimit()}
	s.evaluate("Collect", sink)
	return sink.values
}

// ForEach calls fn on every value.
func (s *Stream[T]) ForEach(fn func(T)) {
	mustFunc("ForEach", fn == nil)
	s.evaluate("ForEach", &forEachSink[T]{fn: fn})
}

// Reduce folds values left to right, seeded with the first one. It
// reports false for an empty stream.
func (s *Stream[T]) Reduce(fn func(acc, v T) T) (T, bool) {
	mustFunc("Reduce", fn == nil)
	sink := &reduceSink[T]{fn: fn}
	s.evaluate("Reduce", sink)
	return sink.acc, sink.has
}

// Fold folds values left to right starting from init.
func Fold[T, R any](s *Stream[T], init R, fn func(acc R, v T) R) R {
	mustFunc("Fold", fn == nil)
	sink := &foldSink[T, R]{fn: fn, acc: init}
	s.evaluate("Fold", sink)
	return sink.acc
}

// FindFirst returns the first value for which pred holds and stops pulling.
func (s *Stream[T]) FindFirst(pred func(T) bool) (T, bool) {
	mustFunc("FindFirst", pred == nil)
	sink := &findSink[T]{pred: pred, name: "find_first"}
	s.evaluate("FindFirst", sink)
	return sink.value, sink.found
}

// AnyMatch reports whether pred holds for some value.
func (s *Stream[T]) AnyMatch(pred func(T) bool) bool {
	mustFunc("AnyMatch", pred == nil)
	sink := &findSink[T]{pred: pred, name: "any_match"}
	s.evaluate("AnyMatch", sink)
	return sink.found
}

// AllMatch reports whether pred holds for every value. It is true for an
// empty stream.
func (s *Stream[T]) AllMatch(pred func(T) bool) bool {
	mustFunc("AllMatch", pred == nil)
	sink := &findSink[T]{pred: func(v T) bool { return !pred(v) }, name: "all_match"}
	s.evaluate("AllMatch", sink)
	return !sink.found
}

// NoneMatch reports whether pred holds for no value.
func (s *Stream[T]) NoneMatch(pred func(T) bool) bool {
	mustFunc("NoneMatch", pred == nil)
	sink := &findSink[T]{pred: pred, name: "none_match"}
	s.evaluate("NoneMatch", sink)
	return !sink.found
}

// Count returns the number of values. When the upstream size is known it
// is returned without pulling.
func (s *Stream[T]) Count() int {
	sink := &countSink[T]{}
	s.evaluate("Count", sink)
	return sink.n
}
