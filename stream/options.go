package stream

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/observability"
)

// DefaultReserveLimit caps how many slots Collect and Sort preallocate from
// a size hint.
const DefaultReserveLimit = 1 << 16

// Option configures how a stream is observed and evaluated.
type Option func(*settings)

type settings struct {
	ctx          context.Context
	name         string
	log          *logger.Logger
	metrics      *observability.StreamMetrics
	trace        bool
	reserveLimit int
}

func newSettings(opts []Option) *settings {
	st := &settings{
		ctx:          context.Background(),
		trace:        true,
		reserveLimit: DefaultReserveLimit,
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// WithName labels the stream in logs, spans and metrics.
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

// WithLogger sets the logger evaluations report to. Defaults to the
// registered "stream" component logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithContext sets the parent context for evaluation spans and log
// correlation. Evaluation itself never blocks on it.
func WithContext(ctx context.Context) Option {
	return func(s *settings) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// WithMetrics records every evaluation on m.
func WithMetrics(m *observability.StreamMetrics) Option {
	return func(s *settings) { s.metrics = m }
}

// WithTracing turns evaluation spans on or off. On by default.
func WithTracing(enabled bool) Option {
	return func(s *settings) { s.trace = enabled }
}

// WithReserveLimit caps preallocation from size hints. Zero or less means
// no cap.
func WithReserveLimit(n int) Option {
	return func(s *settings) { s.reserveLimit = n }
}

func (s *settings) logger() *logger.Logger {
	if s.log != nil {
		return s.log
	}
	return logger.Get(logger.ComponentStream)
}

func (s *settings) displayName() string {
	if s.name == "" {
		return "anonymous"
	}
	return s.name
}

// observation spans one evaluation, from the terminal call to Post.
type observation struct {
	st    *settings
	op    string
	id    string
	ctx   context.Context
	span  trace.Span
	start time.Time
}

func (s *settings) observe(op string) *observation {
	o := &observation{st: s, op: op, id: uuid.NewString(), ctx: s.ctx, start: time.Now()}
	if s.trace {
		o.ctx, o.span = observability.StartSpan(s.ctx, observability.SpanStreamEvaluate,
			trace.WithAttributes(
				attribute.String(observability.AttrStreamID, o.id),
				attribute.String(observability.AttrStreamName, s.displayName()),
				attribute.String(observability.AttrTerminal, op),
			),
		)
	}
	return o
}

func (o *observation) finish(ev evaluator, stages []string, depth int) {
	d := time.Since(o.start)
	pulled, cancelled := ev.pulled(), ev.cancelled()

	if o.span != nil {
		o.span.SetAttributes(
			attribute.StringSlice(observability.AttrStages, stages),
			attribute.Int(observability.AttrDepth, depth),
			attribute.Int(observability.AttrPulled, pulled),
			attribute.Bool(observability.AttrCancelled, cancelled),
		)
		o.span.End()
	}
	if o.st.metrics != nil {
		o.st.metrics.RecordEvaluation(o.ctx, o.st.displayName(), o.op, pulled, cancelled, d)
	}

	log := o.st.logger()
	if !log.DebugEnabled() {
		return
	}
	log.WithContext(o.ctx).Debug("stream evaluated", logger.Fields(
		logger.FieldStreamID, o.id,
		logger.FieldStream, o.st.displayName(),
		logger.FieldTerminal, o.op,
		logger.FieldStages, stages,
		logger.FieldDepth, depth,
		logger.FieldPulled, pulled,
		logger.FieldCancelled, cancelled,
		logger.FieldDuration, d.Milliseconds(),
	))
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
