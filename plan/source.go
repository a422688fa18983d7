package plan

import (
	"context"
	"fmt"
	"math"
	"reflect"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/stream"
)

// sourceFunc creates a fresh stream for one run. The stream stops pulling
// once ctx is done.
type sourceFunc func(ctx context.Context, opts ...stream.Option) *stream.Stream[any]

// boxed exposes a typed range as a range of any that ends when ctx is done.
type boxed[T any] struct {
	ctx context.Context
	r   stream.Range[T]
}

func (b boxed[T]) HasNext() bool { return b.ctx.Err() == nil && b.r.HasNext() }
func (b boxed[T]) Next() any     { return b.r.Next() }
func (b boxed[T]) Size() int     { return b.r.Size() }

func buildSource(spec Spec, elem reflect.Type, reg *Registry) (sourceFunc, error) {
	src := spec.Source
	if src.Kind == SourceValues {
		values := make([]any, len(src.Values))
		for i, v := range src.Values {
			c, err := coerce(spec.Type, v)
			if err != nil {
				return nil, errors.InvalidInput(fmt.Sprintf("source.values[%d]", i), err.Error())
			}
			values[i] = c
		}
		return func(ctx context.Context, opts ...stream.Option) *stream.Stream[any] {
			return stream.From[any](boxed[any]{ctx, stream.Slice(values)}, opts...)
		}, nil
	}

	switch spec.Type {
	case TypeInt:
		return stepSource[int](spec, elem, reg)
	case TypeFloat:
		return stepSource[float64](spec, elem, reg)
	default:
		return nil, errors.InvalidInput("source.kind", "step sources need a numeric type")
	}
}

func stepSource[N int | float64](spec Spec, elem reflect.Type, reg *Registry) (sourceFunc, error) {
	src := spec.Source
	start, err := coerceField[N](spec.Type, "source.start", src.Start)
	if err != nil {
		return nil, err
	}
	delta, err := coerceField[N](spec.Type, "source.delta", src.Delta)
	if err != nil {
		return nil, err
	}
	if delta == 0 {
		return nil, errors.InvalidInput("source.delta", "must not be zero")
	}

	if src.Stop != nil {
		stop, err := coerceField[N](spec.Type, "source.stop", src.Stop)
		if err != nil {
			return nil, err
		}
		if err := reachable(start, stop, delta); err != nil {
			return nil, err
		}
		return func(ctx context.Context, opts ...stream.Option) *stream.Stream[any] {
			return stream.From[any](boxed[N]{ctx, stream.Arithmetic(start, stop, delta)}, opts...)
		}, nil
	}

	valid, err := reg.resolve("source.while", src.While, expect{
		in:  []reflect.Type{elem},
		out: []reflect.Type{boolType},
	})
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, opts ...stream.Option) *stream.Stream[any] {
		r := stream.ArithmeticWhile(start, func(v N) bool { return valid.pred(v) }, delta)
		return stream.From[any](boxed[N]{ctx, r}, opts...)
	}, nil
}

// maxFloatSteps bounds the exactness check of float stop values.
const maxFloatSteps = 1 << 24

// reachable rejects a stop value that start+delta+delta... never equals.
// Arithmetic ranges end on equality, so such a range would never end.
func reachable[N int | float64](start, stop, delta N) error {
	if stop == start {
		return nil
	}
	unreachable := errors.InvalidInput("source.stop",
		fmt.Sprintf("%v is never reached from %v in steps of %v", stop, start, delta))
	if (stop > start) != (delta > 0) {
		return unreachable
	}

	switch d := any(delta).(type) {
	case int:
		if (any(stop).(int)-any(start).(int))%d != 0 {
			return unreachable
		}
	case float64:
		from, to := any(start).(float64), any(stop).(float64)
		steps := (to - from) / d
		if math.IsInf(steps, 0) || steps != math.Trunc(steps) {
			return unreachable
		}
		if steps > maxFloatSteps {
			return errors.InvalidInput("source.stop",
				fmt.Sprintf("more than %d float steps to %v; use while instead", maxFloatSteps, stop))
		}
		v := from
		for i := 0; i < int(steps); i++ {
			v += d
		}
		if v != to {
			return unreachable
		}
	}
	return nil
}

func coerceField[N int | float64](typ, field string, v any) (N, error) {
	c, err := coerce(typ, v)
	if err != nil {
		return 0, errors.InvalidInput(field, err.Error())
	}
	return c.(N), nil
}

// coerce converts a decoded YAML or env value to the plan's element type.
func coerce(typ string, v any) (any, error) {
	switch typ {
	case TypeInt:
		switch n := v.(type) {
		case int:
			return n, nil
		case int64:
			return int(n), nil
		case int32:
			return int(n), nil
		case uint64:
			if n > math.MaxInt {
				return nil, fmt.Errorf("%d overflows int", n)
			}
			return int(n), nil
		case float64:
			if n != math.Trunc(n) {
				return nil, fmt.Errorf("%v is not an integer", n)
			}
			return int(n), nil
		}
	case TypeFloat:
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case uint64:
			return float64(n), nil
		}
	case TypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%v (%T) is not a %s", v, v, typ)
}
