package rgraph

import (
	"errors"
	"fmt"
)

// Append returns a new graph with s added after the last stage of g.
//
// A non-empty g must have an outlet and s must have an inlet; any other
// adjacency fails with an error wrapping ErrStructural. The check depends on
// the stage kinds only, never on their parameters.
func Append(g Graph, s Stage) (Graph, error) {
	if s == nil {
		return g, fmt.Errorf("%w: nil stage", ErrNilParameter)
	}
	if len(g.stages) > 0 {
		last := g.stages[len(g.stages)-1]
		if !last.Kind().HasOutlet() {
			return g, fmt.Errorf("cannot append %s after %s: %w", s.Kind(), last.Kind(), ErrNoOutlet)
		}
		if !s.Kind().HasInlet() {
			return g, fmt.Errorf("cannot append %s after %s: %w", s.Kind(), last.Kind(), ErrNoInlet)
		}
	}
	if err := checkStage(s); err != nil {
		return g, err
	}

	stages := make([]Stage, len(g.stages), len(g.stages)+1)
	copy(stages, g.stages)
	return Graph{stages: append(stages, s)}, nil
}

// New builds a graph by appending stages in order.
func New(stages ...Stage) (Graph, error) {
	g := Empty()
	for i, s := range stages {
		var err error
		if g, err = Append(g, s); err != nil {
			return Graph{}, fmt.Errorf("stage %d: %w", i, err)
		}
	}
	return g, nil
}

// Must is like New but panics on error. Intended for graphs built from
// constants, e.g. in tests and package-level variables.
func Must(stages ...Stage) Graph {
	g, err := New(stages...)
	if err != nil {
		panic(err)
	}
	return g
}

// Join returns the graph with every stage of down appended after up.
func Join(up, down Graph) (Graph, error) {
	g := up
	for i, s := range down.stages {
		var err error
		if g, err = Append(g, s); err != nil {
			return up, fmt.Errorf("join stage %d: %w", i, err)
		}
	}
	return g, nil
}

// Concat returns an outlet-only graph emitting all elements of first followed
// by all elements of second. Both operands must have an outlet and no inlet.
func Concat(first, second Graph) (Graph, error) {
	s := ConcatStage{First: first, Second: second}
	if err := checkStage(s); err != nil {
		return Graph{}, err
	}
	return Graph{stages: []Stage{s}}, nil
}

// Validate re-checks the structural invariants of g: adjacency, stage
// parameters and nested graphs. Graphs assembled through this package always
// pass; engines use it on graphs handed to them at run time.
func (g Graph) Validate() error {
	var errs []error
	for i, s := range g.stages {
		if err := checkStage(s); err != nil {
			errs = append(errs, fmt.Errorf("stage %d: %w", i, err))
			continue
		}
		if i == 0 {
			continue
		}
		prev := g.stages[i-1]
		if !prev.Kind().HasOutlet() {
			errs = append(errs, fmt.Errorf("stage %d (%s) follows %s: %w", i, s.Kind(), prev.Kind(), ErrNoOutlet))
		}
		if !s.Kind().HasInlet() {
			errs = append(errs, fmt.Errorf("stage %d (%s) follows %s: %w", i, s.Kind(), prev.Kind(), ErrNoInlet))
		}
	}
	return errors.Join(errs...)
}

// isSource reports whether g is outlet-only, the shape required of Concat
// operands and FlatMap sub-graphs.
func isSource(g Graph) bool {
	return g.HasOutlet() && !g.HasInlet()
}

// ValidateSource checks that g can stand as a nested source graph.
func ValidateSource(g Graph) error {
	if !isSource(g) {
		return fmt.Errorf("%w: got %s shape %s", ErrInvalidSubGraph, g, g.Shape())
	}
	return nil
}

func checkStage(s Stage) error {
	if s == nil {
		return fmt.Errorf("%w: nil stage", ErrNilParameter)
	}
	missing := func(what string) error {
		return fmt.Errorf("%w: %s without %s", ErrNilParameter, s.Kind(), what)
	}

	switch s := s.(type) {
	case MapStage:
		if s.Fn == nil {
			return missing("mapper")
		}
	case FilterStage:
		if s.Predicate == nil {
			return missing("predicate")
		}
	case TakeWhileStage:
		if s.Predicate == nil {
			return missing("predicate")
		}
	case FlatMapStage:
		if s.Fn == nil {
			return missing("mapper")
		}
	case FlatMapAsyncStage:
		if s.Fn == nil {
			return missing("mapper")
		}
	case FlatMapIterableStage:
		if s.Fn == nil {
			return missing("mapper")
		}
	case OfStage:
		if s.Elements == nil {
			return missing("elements")
		}
	case ExternalProducerStage:
		if s.Producer == nil {
			return missing("producer")
		}
	case ExternalTransformerStage:
		if s.Transformer == nil {
			return missing("transformer")
		}
	case FailedStage:
		if s.Err == nil {
			return missing("error")
		}
	case ConcatStage:
		if !isSource(s.First) {
			return fmt.Errorf("%w: first operand %s has shape %s", ErrInvalidConcatOperand, s.First, s.First.Shape())
		}
		if !isSource(s.Second) {
			return fmt.Errorf("%w: second operand %s has shape %s", ErrInvalidConcatOperand, s.Second, s.Second.Shape())
		}
	case ExternalConsumerStage:
		if s.Consumer == nil {
			return missing("consumer")
		}
	case CollectStage:
		a := s.Accumulator
		if a.Supply == nil || a.Accumulate == nil || a.Finish == nil {
			return missing("accumulator")
		}
	case FindFirstStage, CancelStage:
	default:
		return fmt.Errorf("%w: unknown stage %T", ErrStructural, s)
	}
	return nil
}
