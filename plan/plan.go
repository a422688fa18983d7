package plan

import (
	"context"
	"reflect"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/observability"
	"github.com/kbukum/streamkit/stream"
)

// Plan is a checked pipeline definition ready to run.
type Plan struct {
	Spec Spec
	// ElemType is the element type reaching the terminal.
	ElemType reflect.Type

	source   sourceFunc
	stages   []stageFunc
	terminal terminalFunc
	opts     *options
}

// Result holds what a terminal produced. Only the fields that apply to
// the terminal are set; Output reports exactly those.
type Result struct {
	Plan     string
	Terminal string
	Values   []any
	Value    any
	Found    bool
	Match    bool
	Count    int
}

// Output returns the result as a map for printing.
func (r Result) Output() map[string]any {
	out := map[string]any{"plan": r.Plan, "terminal": r.Terminal}
	switch r.Terminal {
	case OpCollect:
		out["values"] = r.Values
		out["count"] = r.Count
	case OpCount, OpForEach:
		out["count"] = r.Count
	case OpReduce, OpFindFirst:
		out["found"] = r.Found
		if r.Found {
			out["value"] = r.Value
		}
	case OpAnyMatch, OpAllMatch, OpNoneMatch:
		out["match"] = r.Match
	}
	return out
}

// Name returns the plan's name.
func (p *Plan) Name() string { return p.Spec.Name }

// Stream builds a fresh stream with every stage of the plan applied and no
// terminal. The caller owns it.
func (p *Plan) Stream(ctx context.Context) *stream.Stream[any] {
	opts := append([]stream.Option{
		stream.WithName(p.Spec.Name),
		stream.WithContext(ctx),
	}, p.opts.streamOpts...)

	s := p.source(ctx, opts...)
	for _, apply := range p.stages {
		s = apply(s)
	}
	return s
}

// Run evaluates the plan. A panic raised by a registered function is
// returned as an error. The source stops pulling once ctx is done and Run
// then returns ctx.Err().
func (p *Plan) Run(ctx context.Context) (res Result, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanPlanRun,
		trace.WithAttributes(attribute.String(observability.AttrPlanName, p.Spec.Name)),
	)
	defer span.End()

	log := p.opts.logger().WithContext(ctx).WithFields(logger.Fields(logger.FieldPlan, p.Spec.Name))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			appErr := errors.FromPanic(r).WithDetail("plan", p.Spec.Name)
			observability.SetSpanError(ctx, appErr)
			log.WithError(appErr).Error("plan failed")
			res, err = Result{}, appErr
		}
	}()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res = p.terminal(p.Stream(ctx))
	if err := ctx.Err(); err != nil {
		observability.SetSpanError(ctx, err)
		log.Warn("plan cancelled", logger.DurationFields("run", time.Since(start)))
		return Result{}, err
	}
	res.Plan = p.Spec.Name
	res.Terminal = p.Spec.Terminal.Op

	log.Info("plan completed",
		logger.Fields(logger.FieldTerminal, res.Terminal),
		logger.DurationFields("run", time.Since(start)),
	)
	return res, nil
}
