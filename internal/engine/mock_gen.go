package engine

import "github.com/birdayz/rstreams/rflow"

//go:generate mockgen -destination=mock_engine_test.go -package=engine . Subscription,AnyConsumer

// Type aliases for mock generation - mockgen requires concrete types, not generics

// Subscription is the subscription an external producer hands to the engine
type Subscription = rflow.Subscription

// AnyConsumer is the consumer an external consumer stage drives
type AnyConsumer = rflow.Consumer[any]
