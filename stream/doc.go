// Package stream provides a lazy, single-threaded pipeline over generic
// sequences.
//
// A pipeline has three parts: a Range that produces values on demand, a
// chain of stages (sinks) that transform, filter or buffer them, and a
// Stream builder that appends stages and triggers evaluation. Building is
// pure configuration; nothing is pulled from the range until a terminal
// operation (Collect, ForEach, Reduce, FindFirst, Count, ...) runs or a pull
// iterator is advanced.
//
// # Evaluation protocol
//
// Every stage sees Pre(hint) exactly once, then zero or more Accept calls,
// then Post exactly once. The driver checks Cancelled on the chain head
// before every pull, so bounded stages (Limit, FindFirst, Count with a
// known size) stop the range early. Post is still delivered after
// cancellation, which lets Sort flush what it buffered.
//
// # Changing the element type
//
// Go methods cannot introduce type parameters, so type-changing operations
// are package functions:
//
//	words := stream.Of("hello", "world")
//	chars := stream.FlatMapTo(words, func(s string) []rune { return []rune(s) })
//	out := chars.Collect()
//
// MapTo and FlatMapTo close the current builder into a cast boundary: the
// upstream pipeline becomes the producer of a new, differently typed one.
// Casts nest to any depth.
//
// # Single use
//
// A *Stream is a linear handle. Every fluent or terminal call consumes it
// and returns the next handle; touching a consumed handle panics with an
// *errors.AppError coded STREAM_CONSUMED.
//
// # Usage
//
//	odd := stream.Arithmetic(0, 10, 1).Stream().
//	    Map(func(v int) int { return v * v }).
//	    Filter(func(v int) bool { return v%2 == 1 }).
//	    Collect() // [1 9 25 49 81]
package stream
