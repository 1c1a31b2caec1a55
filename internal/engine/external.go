package engine

import "github.com/birdayz/rstreams/rflow"

// wireTransformer splices an outside Transformer between in and out: the
// inlet is published to the transformer, and the transformer's output feeds
// the outlet.
func (r *run) wireTransformer(t rflow.Transformer[any, any], in, out *port) func() {
	pub := newPublisherAdapter(r, in)
	in.in = pub
	sub := newSubscriberAdapter(r, out)
	out.out = sub

	return func() {
		sub.subscribeTo(t)
		pub.Subscribe(t)
	}
}

// wireConsumer hands the inlet to an outside Consumer and resolves the run
// result when the subscription ends.
func (r *run) wireConsumer(c rflow.Consumer[any], in *port) func() {
	pub := newPublisherAdapter(r, in)
	in.in = pub
	pub.terminated = r.settle

	return func() {
		pub.Subscribe(c)
	}
}
