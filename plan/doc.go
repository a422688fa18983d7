// Package plan builds stream pipelines from declarative definitions.
//
// A plan names a source, a list of stages and a terminal operation. Stage
// functions are referenced by name and resolved from a Registry, where one
// name may carry several typed implementations (for example "max" for int,
// float64 and string). Build walks the stages tracking the element type,
// picks the implementation whose signature fits, and rejects the plan before
// anything runs if no implementation does.
//
//	plans:
//	  - name: odd-squares
//	    type: int
//	    source: {kind: step, start: 0, stop: 10, delta: 1}
//	    stages:
//	      - {op: map, func: square}
//	      - {op: filter, func: odd}
//	    terminal: {op: collect}
//
// Plans are reusable: every Run builds a fresh stream from the definition.
package plan
