package stream

import (
	"context"
	"iter"
)

// Iterator provides pull-based sequential access to a stream's values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close ends the evaluation. Stages still see Post when the iterator
	// is dropped before exhaustion.
	Close() error
}

// Iter consumes s and returns a pull iterator over its values. Nothing is
// pulled from the range until the first Next.
func (s *Stream[T]) Iter() Iterator[T] {
	seg := s.claim("Iter")
	it := &streamIter[T]{st: s.st, seg: seg}
	it.ev = seg.open(&queueSink[T]{out: &it.queue})
	return it
}

// All consumes s and returns a single-use sequence over its values. The
// handle is consumed when All is called, but nothing is pulled and no stage
// sees its begin or end signal until the sequence is ranged. A sequence that
// is never ranged leaves the pipeline unevaluated.
func (s *Stream[T]) All() iter.Seq[T] {
	it := s.Iter()
	ctx := s.st.ctx
	return func(yield func(T) bool) {
		defer it.Close()
		for {
			v, ok, err := it.Next(ctx)
			if err != nil || !ok || !yield(v) {
				return
			}
		}
	}
}

// streamIter evaluates lazily: the range is pulled only when the queue of
// produced values is empty.
type streamIter[T any] struct {
	st      *settings
	seg     *segment[T]
	ev      evaluator
	obs     *observation
	queue   []T
	started bool
	ended   bool
}

func (it *streamIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		if len(it.queue) > 0 {
			v := it.queue[0]
			it.queue[0] = zero
			it.queue = it.queue[1:]
			return v, true, nil
		}
		if it.ended {
			return zero, false, nil
		}
		if err := ctx.Err(); err != nil {
			return zero, false, err
		}
		if !it.started {
			it.begin()
			continue
		}
		if !it.ev.step() {
			it.end()
		}
	}
}

func (it *streamIter[T]) Close() error {
	if !it.ended {
		if !it.started {
			it.begin()
		}
		it.end()
	}
	it.queue = nil
	return nil
}

func (it *streamIter[T]) begin() {
	it.started = true
	it.obs = it.st.observe("Iter")
	it.ev.begin()
}

func (it *streamIter[T]) end() {
	it.ended = true
	it.ev.end()
	it.obs.finish(it.ev, it.seg.stages(), it.seg.depth)
}
