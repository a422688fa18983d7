package plan

import (
	"fmt"
	"reflect"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/validation"
)

// Element types a plan source can produce.
const (
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeString = "string"
)

// Source kinds.
const (
	SourceValues = "values"
	SourceStep   = "step"
)

// Stage operations.
const (
	OpMap      = "map"
	OpFlatMap  = "flat_map"
	OpFilter   = "filter"
	OpPeek     = "peek"
	OpSort     = "sort"
	OpLimit    = "limit"
	OpSkip     = "skip"
	OpDistinct = "distinct"
)

// Terminal operations.
const (
	OpCollect   = "collect"
	OpCount     = "count"
	OpReduce    = "reduce"
	OpFindFirst = "find_first"
	OpForEach   = "for_each"
	OpAnyMatch  = "any_match"
	OpAllMatch  = "all_match"
	OpNoneMatch = "none_match"
)

var (
	stageOps    = []string{OpMap, OpFlatMap, OpFilter, OpPeek, OpSort, OpLimit, OpSkip, OpDistinct}
	terminalOps = []string{OpCollect, OpCount, OpReduce, OpFindFirst, OpForEach, OpAnyMatch, OpAllMatch, OpNoneMatch}
)

var elemTypes = map[string]reflect.Type{
	TypeInt:    reflect.TypeFor[int](),
	TypeFloat:  reflect.TypeFor[float64](),
	TypeString: reflect.TypeFor[string](),
}

// File is a document holding several plans.
type File struct {
	Plans []Spec `yaml:"plans" mapstructure:"plans" validate:"dive"`
}

// Spec is the declarative definition of one pipeline.
type Spec struct {
	// Name identifies the plan in logs, spans and results.
	Name string `yaml:"name" mapstructure:"name" validate:"required"`
	// Type is the element type of the source: int, float or string.
	Type string `yaml:"type" mapstructure:"type" validate:"required,oneof=int float string"`
	// Source produces the values.
	Source Source `yaml:"source" mapstructure:"source"`
	// Stages are applied in order.
	Stages []Stage `yaml:"stages,omitempty" mapstructure:"stages" validate:"dive"`
	// Terminal evaluates the pipeline.
	Terminal Terminal `yaml:"terminal" mapstructure:"terminal"`
}

// Source describes where values come from.
//
// A values source lists its elements. A step source counts from Start by
// Delta until it reaches Stop exactly, or for as long as the registered
// predicate named by While holds. Build rejects a Stop the steps never
// reach.
type Source struct {
	Kind   string `yaml:"kind" mapstructure:"kind" validate:"required,oneof=values step"`
	Values []any  `yaml:"values,omitempty" mapstructure:"values"`
	Start  any    `yaml:"start,omitempty" mapstructure:"start"`
	Stop   any    `yaml:"stop,omitempty" mapstructure:"stop"`
	While  string `yaml:"while,omitempty" mapstructure:"while" validate:"excluded_with=Stop"`
	Delta  any    `yaml:"delta,omitempty" mapstructure:"delta"`
}

// Stage is one pipeline step. Func names a registered function; N is the
// count for limit and skip.
type Stage struct {
	Op   string `yaml:"op" mapstructure:"op" validate:"required"`
	Func string `yaml:"func,omitempty" mapstructure:"func"`
	N    int    `yaml:"n,omitempty" mapstructure:"n"`
}

// Terminal is the operation that evaluates a plan.
type Terminal struct {
	Op   string `yaml:"op" mapstructure:"op" validate:"required"`
	Func string `yaml:"func,omitempty" mapstructure:"func"`
}

// Validate checks the definition's shape. Function signatures are checked
// by Build.
func (s *Spec) Validate() error {
	if err := validation.Validate(s); err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			return appErr.WithDetail("plan", s.Name)
		}
		return err
	}

	switch s.Source.Kind {
	case SourceValues:
		if s.Source.Start != nil || s.Source.Stop != nil || s.Source.Delta != nil || s.Source.While != "" {
			return errors.InvalidInput("source", "values sources take no start, stop, while or delta")
		}
	case SourceStep:
		if len(s.Source.Values) > 0 {
			return errors.InvalidInput("source.values", "step sources take no values")
		}
		if s.Source.Start == nil {
			return errors.InvalidInput("source.start", "is required for step sources")
		}
		if s.Source.Delta == nil {
			return errors.InvalidInput("source.delta", "is required for step sources")
		}
		if s.Source.Stop == nil && s.Source.While == "" {
			return errors.InvalidInput("source", "step sources need stop or while")
		}
	}

	v := validation.New()
	for i, st := range s.Stages {
		v.OneOf(fmt.Sprintf("stages[%d].op", i), st.Op, stageOps)
		v.Min(fmt.Sprintf("stages[%d].n", i), st.N, 0)
		field := fmt.Sprintf("stages[%d].func", i)
		switch st.Op {
		case OpMap, OpFlatMap, OpFilter, OpPeek:
			v.Required(field, st.Func)
		case OpLimit, OpSkip:
			v.Custom(st.Func == "", field, "is not used by "+st.Op)
		}
	}
	v.OneOf("terminal.op", s.Terminal.Op, terminalOps)
	switch s.Terminal.Op {
	case OpCollect, OpCount:
		v.Custom(s.Terminal.Func == "", "terminal.func", "is not used by "+s.Terminal.Op)
	default:
		v.Required("terminal.func", s.Terminal.Func)
	}
	return v.Err()
}
