package stream

import (
	"reflect"
	"strings"

	"github.com/kbukum/streamkit/errors"
)

// Signature describes the parameter and result types of a function value.
type Signature struct {
	In       []reflect.Type
	Out      []reflect.Type
	Variadic bool
}

// SignatureOf introspects fn. It fails with INVALID_SIGNATURE if fn is not
// a non-nil function.
func SignatureOf(fn any) (Signature, error) {
	if fn == nil {
		return Signature{}, errors.InvalidSignature("", "func", "nil")
	}
	t := reflect.TypeOf(fn)
	if t.Kind() != reflect.Func {
		return Signature{}, errors.InvalidSignature("", "func", t.String())
	}
	if reflect.ValueOf(fn).IsNil() {
		return Signature{}, errors.InvalidSignature("", t.String(), "nil")
	}

	sig := Signature{
		In:       make([]reflect.Type, t.NumIn()),
		Out:      make([]reflect.Type, t.NumOut()),
		Variadic: t.IsVariadic(),
	}
	for i := range sig.In {
		sig.In[i] = t.In(i)
	}
	for i := range sig.Out {
		sig.Out[i] = t.Out(i)
	}
	return sig, nil
}

// Accepts reports whether values of the given types can be passed as the
// function's arguments, in order.
func (s Signature) Accepts(args ...reflect.Type) bool {
	if s.Variadic || len(args) != len(s.In) {
		return false
	}
	for i, a := range args {
		if a == nil || !a.AssignableTo(s.In[i]) {
			return false
		}
	}
	return true
}

// Returns reports whether the function's results are exactly the given types.
func (s Signature) Returns(results ...reflect.Type) bool {
	if len(results) != len(s.Out) {
		return false
	}
	for i, r := range results {
		if r != s.Out[i] {
			return false
		}
	}
	return true
}

// Matches reports whether the function accepts in and returns out.
func (s Signature) Matches(in, out []reflect.Type) bool {
	return s.Accepts(in...) && s.Returns(out...)
}

// String renders the signature as Go source, e.g. "func(int, int) bool".
func (s Signature) String() string {
	return funcString(s.In, s.Out, s.Variadic)
}

// CheckFunc verifies that fn accepts in and returns out. stage names the
// caller in the error.
func CheckFunc(stage string, fn any, in, out []reflect.Type) (Signature, error) {
	want := funcString(in, out, false)
	sig, err := SignatureOf(fn)
	if err != nil {
		got := "nil"
		if fn != nil {
			got = reflect.TypeOf(fn).String()
		}
		return Signature{}, errors.InvalidSignature(stage, want, got)
	}
	if !sig.Matches(in, out) {
		return sig, errors.InvalidSignature(stage, want, sig.String())
	}
	return sig, nil
}

func funcString(in, out []reflect.Type, variadic bool) string {
	var b strings.Builder
	b.WriteString("func(")
	for i, t := range in {
		if i > 0 {
			b.WriteString(", ")
		}
		if variadic && i == len(in)-1 {
			b.WriteString("...")
			b.WriteString(t.Elem().String())
			continue
		}
		b.WriteString(typeString(t))
	}
	b.WriteString(")")
	switch len(out) {
	case 0:
	case 1:
		b.WriteString(" ")
		b.WriteString(typeString(out[0]))
	default:
		b.WriteString(" (")
		for i, t := range out {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(typeString(t))
		}
		b.WriteString(")")
	}
	return b.String()
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}
