package plan

import (
	"strconv"
	"strings"

	"github.com/kbukum/streamkit/logger"
)

// Builtins returns a registry preloaded with common functions. Numeric
// helpers are registered for int and float64; ordering helpers also for
// string.
func Builtins() *Registry {
	r := NewRegistry()

	r.MustRegister("identity",
		func(v int) int { return v },
		func(v float64) float64 { return v },
		func(v string) string { return v },
	)
	r.MustRegister("square",
		func(v int) int { return v * v },
		func(v float64) float64 { return v * v },
	)
	r.MustRegister("double",
		func(v int) int { return v * 2 },
		func(v float64) float64 { return v * 2 },
		func(v string) string { return v + v },
	)
	r.MustRegister("negate",
		func(v int) int { return -v },
		func(v float64) float64 { return -v },
	)
	r.MustRegister("odd", func(v int) bool { return v%2 != 0 })
	r.MustRegister("even", func(v int) bool { return v%2 == 0 })
	r.MustRegister("gt20",
		func(v int) bool { return v > 20 },
		func(v float64) bool { return v > 20 },
	)
	r.MustRegister("lt17",
		func(v int) bool { return v < 17 },
		func(v float64) bool { return v < 17 },
	)
	r.MustRegister("less",
		func(a, b int) bool { return a < b },
		func(a, b float64) bool { return a < b },
		func(a, b string) bool { return a < b },
	)
	r.MustRegister("greater",
		func(a, b int) bool { return a > b },
		func(a, b float64) bool { return a > b },
		func(a, b string) bool { return a > b },
	)
	r.MustRegister("mod17_less", func(a, b int) bool { return a%17 < b%17 })
	r.MustRegister("max",
		func(a, b int) int { return max(a, b) },
		func(a, b float64) float64 { return max(a, b) },
		func(a, b string) string { return max(a, b) },
	)
	r.MustRegister("min",
		func(a, b int) int { return min(a, b) },
		func(a, b float64) float64 { return min(a, b) },
		func(a, b string) string { return min(a, b) },
	)
	r.MustRegister("sum",
		func(a, b int) int { return a + b },
		func(a, b float64) float64 { return a + b },
		func(a, b string) string { return a + b },
	)
	r.MustRegister("chars", func(s string) []string {
		out := make([]string, 0, len(s))
		for _, c := range s {
			out = append(out, string(c))
		}
		return out
	})
	r.MustRegister("words", strings.Fields)
	r.MustRegister("upper", strings.ToUpper)
	r.MustRegister("lower", strings.ToLower)
	r.MustRegister("len", func(s string) int { return len(s) })
	r.MustRegister("itoa", strconv.Itoa)
	r.MustRegister("float", func(v int) float64 { return float64(v) })
	r.MustRegister("print", func(v any) {
		logger.Get(logger.ComponentPlan).Info("value", logger.Fields("value", v))
	})
	return r
}
