// Package validation provides input validation for streamkit configuration
// and declarative plans.
//
// It supports struct tag validation (using the validator library) and
// programmatic validation with error collection for rules that span fields.
//
// # Struct Tag Validation
//
//	type Stage struct {
//	    Op   string `yaml:"op" validate:"required,oneof=map filter sort"`
//	    Func string `yaml:"func"`
//	}
//	err := validation.Validate(stage)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Custom(src.Stop == nil || src.While == "", "source.while", "cannot be combined with stop")
//	err := v.Err()
package validation
