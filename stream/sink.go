package stream

// Sink is one stage of a pipeline. Values are pushed into it by its
// predecessor: Pre once with a size hint (0 = unknown), Accept per value,
// Post once at the end. Cancelled reports whether the stage or anything
// after it wants no more input.
//
// The interface is sealed; stages are created by Stream methods.
type Sink[T any] interface {
	Pre(hint int)
	Accept(v T)
	Post()
	Cancelled() bool

	stage() *link[T]
	kind() string
}

// chain stores the stages of one segment in order. A stage's successor is
// the stage at the next index; nothing holds a pointer to its successor, so
// appending never invalidates earlier stages.
type chain[T any] struct {
	stages []Sink[T]
}

func newChain[T any]() *chain[T] {
	return &chain[T]{stages: []Sink[T]{&headSink[T]{}}}
}

func (c *chain[T]) append(s Sink[T]) {
	c.stages = append(c.stages, s)
}

// link points every stage at this chain and its own index and returns the
// head. It is called once per evaluation, after the terminal is appended.
func (c *chain[T]) link() Sink[T] {
	for i, s := range c.stages {
		l := s.stage()
		l.chain = c
		l.at = i
	}
	return c.stages[0]
}

func (c *chain[T]) kinds() []string {
	out := make([]string, len(c.stages))
	for i, s := range c.stages {
		out[i] = s.kind()
	}
	return out
}

// link is a stage's position in its chain.
type link[T any] struct {
	chain *chain[T]
	at    int
}

func (l *link[T]) stage() *link[T] { return l }

// next returns the successor. Terminal stages never call it.
func (l *link[T]) next() Sink[T] { return l.chain.stages[l.at+1] }

// relay forwards the whole protocol to the successor. Stages embed it and
// override what they change.
type relay[T any] struct {
	link[T]
}

func (r *relay[T]) Pre(hint int)    { r.next().Pre(hint) }
func (r *relay[T]) Accept(v T)      { r.next().Accept(v) }
func (r *relay[T]) Post()           { r.next().Post() }
func (r *relay[T]) Cancelled() bool { return r.next().Cancelled() }

// terminal is the end of a chain: it ignores the protocol calls it does
// not care about and is never cancelled by default.
type terminal[T any] struct {
	link[T]
}

func (t *terminal[T]) Pre(int)         {}
func (t *terminal[T]) Post()           {}
func (t *terminal[T]) Cancelled() bool { return false }

// headSink is the fixed first stage every range pushes into.
type headSink[T any] struct {
	relay[T]
}

func (s *headSink[T]) kind() string { return "head" }

// reserve caps a size hint before it is used as a slice capacity.
func reserve(hint, limit int) int {
	if hint < 0 {
		return 0
	}
	if limit > 0 && hint > limit {
		return limit
	}
	return hint
}
