package plan

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/stream"
)

// Registry maps names to stage functions. A name may be registered several
// times with different signatures; lookups pick the first, in registration
// order, that fits.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string][]function
}

type function struct {
	fn  reflect.Value
	sig stream.Signature
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string][]function)}
}

// Register adds fn under name. fn must be a non-variadic function.
func (r *Registry) Register(name string, fn any) error {
	if strings.TrimSpace(name) == "" {
		return errors.InvalidInput("name", "function name is required")
	}
	sig, err := stream.SignatureOf(fn)
	if err != nil {
		return err
	}
	if sig.Variadic {
		return errors.InvalidSignature(name, "non-variadic func", sig.String())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = append(r.funcs[name], function{fn: reflect.ValueOf(fn), sig: sig})
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(name string, fns ...any) *Registry {
	for _, fn := range fns {
		if err := r.Register(name, fn); err != nil {
			panic(err)
		}
	}
	return r
}

// List returns the sorted names of all registered functions.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Signatures returns the signatures registered under name.
func (r *Registry) Signatures(name string) []stream.Signature {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]stream.Signature, len(r.funcs[name]))
	for i, f := range r.funcs[name] {
		out[i] = f.sig
	}
	return out
}

// resolve returns the first function under name that want accepts.
func (r *Registry) resolve(stage, name string, want expect) (function, error) {
	r.mu.RLock()
	candidates := r.funcs[name]
	r.mu.RUnlock()

	if len(candidates) == 0 {
		return function{}, errors.NotFound("function", name).WithDetail("stage", stage)
	}
	got := make([]string, len(candidates))
	for i, c := range candidates {
		if want.fits(c.sig) {
			return c, nil
		}
		got[i] = c.sig.String()
	}
	return function{}, errors.InvalidSignature(stage, want.String(), strings.Join(got, " | ")).
		WithDetail("func", name)
}

// expect is the signature a stage needs from its function.
type expect struct {
	in  []reflect.Type
	out []reflect.Type
	// anyOut accepts exactly one result of any type.
	anyOut bool
	// sliceOut accepts exactly one result of any slice type.
	sliceOut bool
	// comparableOut requires the single result to be comparable.
	comparableOut bool
}

func (e expect) fits(sig stream.Signature) bool {
	if !e.anyOut && !e.sliceOut {
		return sig.Matches(e.in, e.out)
	}
	if !sig.Accepts(e.in...) || len(sig.Out) != 1 {
		return false
	}
	if e.sliceOut && sig.Out[0].Kind() != reflect.Slice {
		return false
	}
	return !e.comparableOut || sig.Out[0].Comparable()
}

func (e expect) String() string {
	var b strings.Builder
	b.WriteString("func(")
	for i, t := range e.in {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
	b.WriteString(")")
	switch {
	case e.sliceOut:
		b.WriteString(" []T")
	case e.comparableOut:
		b.WriteString(" K comparable")
	case e.anyOut:
		b.WriteString(" T")
	case len(e.out) == 1:
		b.WriteString(" " + e.out[0].String())
	}
	return b.String()
}

func (f function) call(args ...any) []reflect.Value {
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		in[i] = reflect.ValueOf(a)
	}
	return f.fn.Call(in)
}

func (f function) call1(args ...any) any { return f.call(args...)[0].Interface() }

func (f function) pred(args ...any) bool { return f.call(args...)[0].Bool() }
