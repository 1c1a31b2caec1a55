package rgraph

import (
	"iter"

	"github.com/birdayz/rstreams/rflow"
)

// Kind identifies one operation of the stage catalog. The catalog is closed:
// engines switch exhaustively over it.
type Kind int

const (
	KindMap Kind = iota
	KindFilter
	KindTakeWhile
	KindFlatMap
	KindFlatMapAsync
	KindFlatMapIterable
	KindOf
	KindExternalProducer
	KindExternalTransformer
	KindFailed
	KindConcat
	KindFindFirst
	KindExternalConsumer
	KindCollect
	KindCancel
)

type kindInfo struct {
	name   string
	inlet  bool
	outlet bool
}

var kinds = [...]kindInfo{
	KindMap:                 {"Map", true, true},
	KindFilter:              {"Filter", true, true},
	KindTakeWhile:           {"TakeWhile", true, true},
	KindFlatMap:             {"FlatMap", true, true},
	KindFlatMapAsync:        {"FlatMapAsync", true, true},
	KindFlatMapIterable:     {"FlatMapIterable", true, true},
	KindOf:                  {"Of", false, true},
	KindExternalProducer:    {"ExternalProducer", false, true},
	KindExternalTransformer: {"ExternalTransformer", true, true},
	KindFailed:              {"Failed", false, true},
	KindConcat:              {"Concat", false, true},
	KindFindFirst:           {"FindFirst", true, false},
	KindExternalConsumer:    {"ExternalConsumer", true, false},
	KindCollect:             {"Collect", true, false},
	KindCancel:              {"Cancel", true, false},
}

func (k Kind) valid() bool {
	return k >= 0 && int(k) < len(kinds)
}

func (k Kind) String() string {
	if !k.valid() {
		return "Unknown"
	}
	return kinds[k].name
}

// HasInlet reports whether a stage of this kind consumes elements.
func (k Kind) HasInlet() bool {
	return k.valid() && kinds[k].inlet
}

// HasOutlet reports whether a stage of this kind emits elements.
func (k Kind) HasOutlet() bool {
	return k.valid() && kinds[k].outlet
}

// Stage is one operation of a Graph. The set of implementations is fixed to
// the types in this package.
type Stage interface {
	Kind() Kind
	isStage()
}

// MapStage applies Fn to every element.
type MapStage struct {
	Fn func(any) (any, error)
}

// FilterStage emits the elements the predicate accepts. Predicate is invoked
// once per run to produce the predicate used for that run.
type FilterStage struct {
	Predicate func() func(any) (bool, error)
}

// TakeWhileStage emits elements while the predicate holds, then completes.
// With Inclusive set, the first rejected element is emitted too. With Empty
// set, the stage completes when the run starts and never pulls.
type TakeWhileStage struct {
	Predicate func() func(any) (bool, error)
	Inclusive bool
	Empty     bool
}

// FlatMapStage maps every element to an outlet-only sub-graph and emits the
// sub-graph's elements, one sub-graph at a time.
type FlatMapStage struct {
	Fn func(any) (Graph, error)
}

// FlatMapAsyncStage maps every element to a future and emits its value.
type FlatMapAsyncStage struct {
	Fn func(any) (rflow.Future[any], error)
}

// FlatMapIterableStage maps every element to a finite sequence.
type FlatMapIterableStage struct {
	Fn func(any) (iter.Seq2[any, error], error)
}

// OfStage emits a finite sequence and completes. A non-nil error yielded by
// the sequence fails the stream.
type OfStage struct {
	Elements iter.Seq2[any, error]
}

// ExternalProducerStage emits what an opaque Producer publishes.
type ExternalProducerStage struct {
	Producer rflow.Producer[any]
}

// ExternalTransformerStage splices an opaque Transformer into the graph.
type ExternalTransformerStage struct {
	Transformer rflow.Transformer[any, any]
}

// FailedStage fails the stream with Err as soon as it runs.
type FailedStage struct {
	Err error
}

// ConcatStage emits every element of First, then every element of Second.
type ConcatStage struct {
	First, Second Graph
}

// FindFirstStage resolves the run with the first element, or empty.
type FindFirstStage struct{}

// ExternalConsumerStage hands the stream to an opaque Consumer.
type ExternalConsumerStage struct {
	Consumer rflow.Consumer[any]
}

// CollectStage folds the stream with an Accumulator.
type CollectStage struct {
	Accumulator Accumulator
}

// CancelStage cancels its upstream without requesting anything.
type CancelStage struct{}

// Accumulator is the type-erased form of a Collector.
type Accumulator struct {
	Supply     func() (any, error)
	Accumulate func(acc, elem any) (any, error)
	Finish     func(acc any) (any, error)
	// Discard, optional, releases the container of a run that ends without
	// reaching Finish.
	Discard func(acc any)
}

func (MapStage) Kind() Kind                 { return KindMap }
func (FilterStage) Kind() Kind              { return KindFilter }
func (TakeWhileStage) Kind() Kind           { return KindTakeWhile }
func (FlatMapStage) Kind() Kind             { return KindFlatMap }
func (FlatMapAsyncStage) Kind() Kind        { return KindFlatMapAsync }
func (FlatMapIterableStage) Kind() Kind     { return KindFlatMapIterable }
func (OfStage) Kind() Kind                  { return KindOf }
func (ExternalProducerStage) Kind() Kind    { return KindExternalProducer }
func (ExternalTransformerStage) Kind() Kind { return KindExternalTransformer }
func (FailedStage) Kind() Kind              { return KindFailed }
func (ConcatStage) Kind() Kind              { return KindConcat }
func (FindFirstStage) Kind() Kind           { return KindFindFirst }
func (ExternalConsumerStage) Kind() Kind    { return KindExternalConsumer }
func (CollectStage) Kind() Kind             { return KindCollect }
func (CancelStage) Kind() Kind              { return KindCancel }

func (MapStage) isStage()                 {}
func (FilterStage) isStage()              {}
func (TakeWhileStage) isStage()           {}
func (FlatMapStage) isStage()             {}
func (FlatMapAsyncStage) isStage()        {}
func (FlatMapIterableStage) isStage()     {}
func (OfStage) isStage()                  {}
func (ExternalProducerStage) isStage()    {}
func (ExternalTransformerStage) isStage() {}
func (FailedStage) isStage()              {}
func (ConcatStage) isStage()              {}
func (FindFirstStage) isStage()           {}
func (ExternalConsumerStage) isStage()    {}
func (CollectStage) isStage()             {}
func (CancelStage) isStage()              {}
