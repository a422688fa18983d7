package stream

import (
	"sort"
)

// --- Stateless stages ---

type mapSink[T any] struct {
	relay[T]
	fn func(T) T
}

func (s *mapSink[T]) Accept(v T)   { s.next().Accept(s.fn(v)) }
func (s *mapSink[T]) kind() string { return "map" }

type filterSink[T any] struct {
	relay[T]
	pred func(T) bool
}

func (s *filterSink[T]) Pre(int) { s.next().Pre(0) }

func (s *filterSink[T]) Accept(v T) {
	if s.pred(v) {
		s.next().Accept(v)
	}
}

func (s *filterSink[T]) kind() string { return "filter" }

type flatMapSink[T any] struct {
	relay[T]
	fn func(T) []T
}

func (s *flatMapSink[T]) Pre(int) { s.next().Pre(0) }

func (s *flatMapSink[T]) Accept(v T) {
	next := s.next()
	for _, e := range s.fn(v) {
		if next.Cancelled() {
			return
		}
		next.Accept(e)
	}
}

func (s *flatMapSink[T]) kind() string { return "flat_map" }

type peekSink[T any] struct {
	relay[T]
	fn func(T)
}

func (s *peekSink[T]) Accept(v T) {
	s.fn(v)
	s.next().Accept(v)
}

func (s *peekSink[T]) kind() string { return "peek" }

// --- Stateful stages ---

// sortSink buffers everything it receives and replays it in order on Post.
// Upstream is never cancelled by a sort until it has flushed.
type sortSink[T any] struct {
	relay[T]
	less    func(a, b T) bool
	limit   int
	buf     []T
	flushed bool
}

func (s *sortSink[T]) Pre(hint int) {
	s.buf = make([]T, 0, reserve(hint, s.limit))
}

func (s *sortSink[T]) Accept(v T) { s.buf = append(s.buf, v) }

func (s *sortSink[T]) Post() {
	sort.SliceStable(s.buf, func(i, j int) bool { return s.less(s.buf[i], s.buf[j]) })
	s.flushed = true

	next := s.next()
	next.Pre(len(s.buf))
	for _, v := range s.buf {
		if next.Cancelled() {
			break
		}
		next.Accept(v)
	}
	next.Post()
	s.buf = nil
}

func (s *sortSink[T]) Cancelled() bool {
	return s.flushed && s.next().Cancelled()
}

func (s *sortSink[T]) kind() string { return "sort" }

type limitSink[T any] struct {
	relay[T]
	max int
	n   int
}

func (s *limitSink[T]) Pre(hint int) {
	if hint > s.max {
		hint = s.max
	}
	s.next().Pre(hint)
}

func (s *limitSink[T]) Accept(v T) {
	if s.n < s.max {
		s.n++
		s.next().Accept(v)
	}
}

func (s *limitSink[T]) Cancelled() bool {
	return s.n >= s.max || s.next().Cancelled()
}

func (s *limitSink[T]) kind() string { return "limit" }

type skipSink[T any] struct {
	relay[T]
	n       int
	skipped int
}

func (s *skipSink[T]) Pre(hint int) {
	s.next().Pre(hint - min(hint, s.n))
}

func (s *skipSink[T]) Accept(v T) {
	if s.skipped < s.n {
		s.skipped++
		return
	}
	s.next().Accept(v)
}

func (s *skipSink[T]) kind() string { return "skip" }

// seenSet remembers values a distinct stage already passed on.
type seenSet[T any] interface {
	// add reports true the first time an equivalent value is added.
	add(v T) bool
}

type keySet[T any, K comparable] struct {
	key  func(T) K
	seen map[K]struct{}
}

func (s *keySet[T, K]) add(v T) bool {
	k := s.key(v)
	if _, ok := s.seen[k]; ok {
		return false
	}
	s.seen[k] = struct{}{}
	return true
}

type hashSet[T any] struct {
	hash    func(T) uint64
	eq      func(a, b T) bool
	buckets map[uint64][]T
}

func (s *hashSet[T]) add(v T) bool {
	h := s.hash(v)
	for _, o := range s.buckets[h] {
		if s.eq(o, v) {
			return false
		}
	}
	s.buckets[h] = append(s.buckets[h], v)
	return true
}

type distinctSink[T any] struct {
	relay[T]
	newSet func() seenSet[T]
	seen   seenSet[T]
}

func (s *distinctSink[T]) Pre(int) {
	s.seen = s.newSet()
	s.next().Pre(0)
}

func (s *distinctSink[T]) Accept(v T) {
	if s.seen.add(v) {
		s.next().Accept(v)
	}
}

func (s *distinctSink[T]) Post() {
	s.seen = nil
	s.next().Post()
}

func (s *distinctSink[T]) kind() string { return "distinct" }
