package rgraph

import (
	"iter"
	"slices"
	"strings"
)

// Shape is the realized form a Graph takes once an engine runs it.
type Shape int

const (
	// ShapeClosed has neither inlet nor outlet: a terminated computation.
	ShapeClosed Shape = iota
	// ShapeProducer has an outlet only.
	ShapeProducer
	// ShapeConsumer has an inlet only.
	ShapeConsumer
	// ShapeTransformer has an inlet and an outlet.
	ShapeTransformer
)

func (s Shape) String() string {
	switch s {
	case ShapeClosed:
		return "Closed"
	case ShapeProducer:
		return "Producer"
	case ShapeConsumer:
		return "Consumer"
	case ShapeTransformer:
		return "Transformer"
	default:
		return "Unknown"
	}
}

// Graph is an ordered, immutable sequence of stages. The zero value is the
// empty graph. Graphs are only extended through Append, Join and Concat, which
// return new values and leave their operands untouched, so a Graph can be run
// any number of times.
type Graph struct {
	stages []Stage
}

// Empty returns the graph without stages.
func Empty() Graph {
	return Graph{}
}

// Len returns the number of stages.
func (g Graph) Len() int {
	return len(g.stages)
}

// IsEmpty reports whether g has no stages.
func (g Graph) IsEmpty() bool {
	return len(g.stages) == 0
}

// Stages returns a copy of the stages in order.
func (g Graph) Stages() []Stage {
	return slices.Clone(g.stages)
}

// All iterates the stages in order without copying them.
func (g Graph) All() iter.Seq2[int, Stage] {
	return func(yield func(int, Stage) bool) {
		for i, s := range g.stages {
			if !yield(i, s) {
				return
			}
		}
	}
}

// HasInlet reports whether the first stage has an inlet.
func (g Graph) HasInlet() bool {
	if len(g.stages) == 0 {
		return false
	}
	return g.stages[0].Kind().HasInlet()
}

// HasOutlet reports whether the last stage has an outlet.
func (g Graph) HasOutlet() bool {
	if len(g.stages) == 0 {
		return false
	}
	return g.stages[len(g.stages)-1].Kind().HasOutlet()
}

// Shape derives the realized form from the inlet and outlet flags.
func (g Graph) Shape() Shape {
	switch in, out := g.HasInlet(), g.HasOutlet(); {
	case in && out:
		return ShapeTransformer
	case out:
		return ShapeProducer
	case in:
		return ShapeConsumer
	default:
		return ShapeClosed
	}
}

func (g Graph) String() string {
	if len(g.stages) == 0 {
		return "[]"
	}
	names := make([]string, len(g.stages))
	for i, s := range g.stages {
		names[i] = s.Kind().String()
	}
	return "[" + strings.Join(names, " -> ") + "]"
}
