// Package rflow defines the roles a realized stream presents to the outside
// world: Producer, Consumer, Subscription and Transformer, plus the one-shot
// Future that carries the result of a terminated computation.
//
// The contract is cooperative backpressure. A Consumer receives exactly one
// Subscription through OnSubscribe and uses it to signal demand; a Producer
// never delivers more elements than the cumulative demand it received, and
// delivers at most one terminal signal (OnError or OnComplete). No signal
// follows a terminal signal, and signals for one subscription never overlap.
package rflow

// Subscription links one Producer to one Consumer.
// Request and Cancel are safe to call from any goroutine, including from
// within the Consumer's own signal methods.
type Subscription interface {
	// Request adds n to the outstanding demand. n must be positive; a
	// non-positive request terminates the stream with ErrNonPositiveRequest.
	Request(n int64)

	// Cancel asks the Producer to stop. Elements already in flight may be
	// dropped and no terminal signal is required to follow.
	Cancel()
}

// Consumer receives the signals of a single subscription.
type Consumer[T any] interface {
	OnSubscribe(Subscription)
	OnNext(T)
	OnError(error)
	OnComplete()
}

// Producer accepts a single Consumer subscription.
type Producer[T any] interface {
	Subscribe(Consumer[T])
}

// Transformer is a Consumer on its inlet side and a Producer on its outlet
// side. Cancellation from the downstream Consumer travels upstream, completion
// and errors travel downstream.
type Transformer[In, Out any] interface {
	Consumer[In]
	Producer[Out]
}

// Inert is a Subscription that ignores every call. It is handed to consumers
// that are rejected before they could take part in a stream.
var Inert Subscription = inert{}

type inert struct{}

func (inert) Request(int64) {}
func (inert) Cancel()       {}
