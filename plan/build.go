package plan

import (
	"context"
	"fmt"
	"reflect"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/observability"
	"github.com/kbukum/streamkit/stream"
)

var boolType = reflect.TypeFor[bool]()

// stageFunc appends one stage to a stream under construction.
type stageFunc func(*stream.Stream[any]) *stream.Stream[any]

// terminalFunc evaluates a stream into a Result.
type terminalFunc func(*stream.Stream[any]) Result

// Option configures Build.
type Option func(*options)

type options struct {
	log        *logger.Logger
	metrics    *observability.StreamMetrics
	streamOpts []stream.Option
}

// WithLogger sets the logger plans report to. Defaults to the registered
// "plan" component logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics records rejected plans on m.
func WithMetrics(m *observability.StreamMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithStreamOptions passes opts to every stream a plan builds.
func WithStreamOptions(opts ...stream.Option) Option {
	return func(o *options) { o.streamOpts = append(o.streamOpts, opts...) }
}

func (o *options) logger() *logger.Logger {
	if o.log != nil {
		return o.log
	}
	return logger.Get(logger.ComponentPlan)
}

// Build checks spec against the functions in reg and returns a runnable
// plan. Nothing is evaluated; every error is reported before the first run.
func Build(spec Spec, reg *Registry, opts ...Option) (*Plan, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	p, err := build(spec, reg, o)
	if err != nil {
		reject(spec.Name, err, o)
		return nil, err
	}
	return p, nil
}

// BuildAll builds every spec and fails on the first rejected one or on a
// duplicate name.
func BuildAll(specs []Spec, reg *Registry, opts ...Option) ([]*Plan, error) {
	seen := make(map[string]bool, len(specs))
	plans := make([]*Plan, 0, len(specs))
	for _, spec := range specs {
		if seen[spec.Name] {
			return nil, errors.InvalidInput("plans", fmt.Sprintf("duplicate plan name %q", spec.Name))
		}
		seen[spec.Name] = true

		p, err := Build(spec, reg, opts...)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

func reject(name string, err error, o *options) {
	code := string(errors.ErrCodeInternal)
	if appErr, ok := errors.AsAppError(err); ok {
		code = string(appErr.Code)
	}
	o.logger().Warn("plan rejected", logger.Fields(
		logger.FieldPlan, name,
		"code", code,
		logger.FieldError, err.Error(),
	))
	if o.metrics != nil {
		o.metrics.RecordPlanRejected(context.Background(), name, code)
	}
}

func build(spec Spec, reg *Registry, o *options) (*Plan, error) {
	if reg == nil {
		return nil, errors.InvalidInput("registry", "is required")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	cur := elemTypes[spec.Type]
	source, err := buildSource(spec, cur, reg)
	if err != nil {
		return nil, err
	}

	stages := make([]stageFunc, 0, len(spec.Stages))
	for i, st := range spec.Stages {
		name := fmt.Sprintf("stages[%d].%s", i, st.Op)
		apply, next, err := buildStage(name, st, cur, reg)
		if err != nil {
			return nil, err
		}
		stages = append(stages, apply)
		cur = next
	}

	term, err := buildTerminal(spec.Terminal, cur, reg)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Spec:     spec,
		ElemType: cur,
		source:   source,
		stages:   stages,
		terminal: term,
		opts:     o,
	}, nil
}

// buildStage resolves one stage against the current element type and
// returns the element type after it.
func buildStage(name string, st Stage, cur reflect.Type, reg *Registry) (stageFunc, reflect.Type, error) {
	unary := []reflect.Type{cur}
	binary := []reflect.Type{cur, cur}

	switch st.Op {
	case OpMap:
		f, err := reg.resolve(name, st.Func, expect{in: unary, anyOut: true})
		if err != nil {
			return nil, nil, err
		}
		return func(s *stream.Stream[any]) *stream.Stream[any] {
			return s.Map(func(v any) any { return f.call1(v) })
		}, f.sig.Out[0], nil

	case OpFlatMap:
		f, err := reg.resolve(name, st.Func, expect{in: unary, sliceOut: true})
		if err != nil {
			return nil, nil, err
		}
		return func(s *stream.Stream[any]) *stream.Stream[any] {
			return s.FlatMap(func(v any) []any {
				out := f.call(v)[0]
				values := make([]any, out.Len())
				for i := range values {
					values[i] = out.Index(i).Interface()
				}
				return values
			})
		}, f.sig.Out[0].Elem(), nil

	case OpFilter:
		f, err := reg.resolve(name, st.Func, expect{in: unary, out: []reflect.Type{boolType}})
		if err != nil {
			return nil, nil, err
		}
		return func(s *stream.Stream[any]) *stream.Stream[any] {
			return s.Filter(func(v any) bool { return f.pred(v) })
		}, cur, nil

	case OpPeek:
		f, err := reg.resolve(name, st.Func, expect{in: unary, out: []reflect.Type{}})
		if err != nil {
			return nil, nil, err
		}
		return func(s *stream.Stream[any]) *stream.Stream[any] {
			return s.Peek(func(v any) { f.call(v) })
		}, cur, nil

	case OpSort:
		fn := st.Func
		if fn == "" {
			fn = "less"
		}
		f, err := reg.resolve(name, fn, expect{in: binary, out: []reflect.Type{boolType}})
		if err != nil {
			return nil, nil, err
		}
		return func(s *stream.Stream[any]) *stream.Stream[any] {
			return s.Sort(func(a, b any) bool { return f.pred(a, b) })
		}, cur, nil

	case OpLimit:
		n := st.N
		return func(s *stream.Stream[any]) *stream.Stream[any] { return s.Limit(n) }, cur, nil

	case OpSkip:
		n := st.N
		return func(s *stream.Stream[any]) *stream.Stream[any] { return s.Skip(n) }, cur, nil

	case OpDistinct:
		if st.Func == "" {
			if !cur.Comparable() {
				return nil, nil, errors.InvalidSignature(name, "comparable element", cur.String())
			}
			return func(s *stream.Stream[any]) *stream.Stream[any] { return stream.Distinct(s) }, cur, nil
		}
		f, err := reg.resolve(name, st.Func, expect{in: unary, anyOut: true, comparableOut: true})
		if err != nil {
			return nil, nil, err
		}
		return func(s *stream.Stream[any]) *stream.Stream[any] {
			return stream.DistinctBy(s, func(v any) any { return f.call1(v) })
		}, cur, nil
	}
	return nil, nil, errors.InvalidInput(name, "unknown stage operation")
}

func buildTerminal(t Terminal, cur reflect.Type, reg *Registry) (terminalFunc, error) {
	name := "terminal." + t.Op
	unary := []reflect.Type{cur}
	pred := expect{in: unary, out: []reflect.Type{boolType}}

	switch t.Op {
	case OpCollect:
		return func(s *stream.Stream[any]) Result {
			values := s.Collect()
			return Result{Values: values, Count: len(values)}
		}, nil

	case OpCount:
		return func(s *stream.Stream[any]) Result {
			return Result{Count: s.Count()}
		}, nil

	case OpReduce:
		f, err := reg.resolve(name, t.Func, expect{in: []reflect.Type{cur, cur}, out: unary})
		if err != nil {
			return nil, err
		}
		return func(s *stream.Stream[any]) Result {
			v, ok := s.Reduce(func(acc, v any) any { return f.call1(acc, v) })
			return Result{Value: v, Found: ok}
		}, nil

	case OpFindFirst:
		f, err := reg.resolve(name, t.Func, pred)
		if err != nil {
			return nil, err
		}
		return func(s *stream.Stream[any]) Result {
			v, ok := s.FindFirst(func(v any) bool { return f.pred(v) })
			return Result{Value: v, Found: ok}
		}, nil

	case OpForEach:
		f, err := reg.resolve(name, t.Func, expect{in: unary, out: []reflect.Type{}})
		if err != nil {
			return nil, err
		}
		return func(s *stream.Stream[any]) Result {
			n := 0
			s.ForEach(func(v any) {
				f.call(v)
				n++
			})
			return Result{Count: n}
		}, nil

	case OpAnyMatch, OpAllMatch, OpNoneMatch:
		f, err := reg.resolve(name, t.Func, pred)
		if err != nil {
			return nil, err
		}
		match := func(v any) bool { return f.pred(v) }
		return func(s *stream.Stream[any]) Result {
			switch t.Op {
			case OpAnyMatch:
				return Result{Match: s.AnyMatch(match)}
			case OpAllMatch:
				return Result{Match: s.AllMatch(match)}
			default:
				return Result{Match: s.NoneMatch(match)}
			}
		}, nil
	}
	return nil, errors.InvalidInput(name, "unknown terminal operation")
}
