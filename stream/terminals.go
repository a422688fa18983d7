package stream

type collectSink[T any] struct {
	terminal[T]
	limit  int
	values []T
}

func (s *collectSink[T]) Pre(hint int) {
	s.values = make([]T, 0, reserve(hint, s.limit))
}

func (s *collectSink[T]) Accept(v T)   { s.values = append(s.values, v) }
func (s *collectSink[T]) kind() string { return "collect" }

type forEachSink[T any] struct {
	terminal[T]
	fn func(T)
}

func (s *forEachSink[T]) Accept(v T)   { s.fn(v) }
func (s *forEachSink[T]) kind() string { return "for_each" }

type reduceSink[T any] struct {
	terminal[T]
	fn  func(acc, v T) T
	acc T
	has bool
}

func (s *reduceSink[T]) Accept(v T) {
	if !s.has {
		s.acc, s.has = v, true
		return
	}
	s.acc = s.fn(s.acc, v)
}

func (s *reduceSink[T]) kind() string { return "reduce" }

type foldSink[T, R any] struct {
	terminal[T]
	fn  func(acc R, v T) R
	acc R
}

func (s *foldSink[T, R]) Accept(v T)   { s.acc = s.fn(s.acc, v) }
func (s *foldSink[T, R]) kind() string { return "fold" }

// findSink stops the pipeline at the first value that satisfies pred.
type findSink[T any] struct {
	terminal[T]
	pred  func(T) bool
	name  string
	value T
	found bool
}

func (s *findSink[T]) Accept(v T) {
	if s.found {
		return
	}
	if s.pred(v) {
		s.value, s.found = v, true
	}
}

func (s *findSink[T]) Cancelled() bool { return s.found }
func (s *findSink[T]) kind() string    { return s.name }

// countSink answers from a non-zero size hint without pulling anything.
type countSink[T any] struct {
	terminal[T]
	n     int
	known bool
}

func (s *countSink[T]) Pre(hint int) {
	if hint > 0 {
		s.n, s.known = hint, true
	}
}

func (s *countSink[T]) Accept(T) {
	if !s.known {
		s.n++
	}
}

func (s *countSink[T]) Cancelled() bool { return s.known }
func (s *countSink[T]) kind() string    { return "count" }

// queueSink feeds a pull iterator.
type queueSink[T any] struct {
	terminal[T]
	out *[]T
}

func (s *queueSink[T]) Accept(v T)   { *s.out = append(*s.out, v) }
func (s *queueSink[T]) kind() string { return "iter" }
