package sipper

import "context"

// Source is the acquisition side of the ECU link. The engine only ever
// talks to this interface; the physical transport lives behind it. Query
// must honor ctx cancellation. A nil error with an empty value means the
// ECU answered but had no reading for the parameter.
type Source interface {
	Query(ctx context.Context, name string) (string, error)
	Connected() bool
	Close() error
}

// Forwarder receives the completed snapshot of every cycle. Implementations
// must not block; drop data rather than stall the engine.
type Forwarder interface {
	Forward(snap Snapshot) error
}

// Sink persists one row per cycle.
type Sink interface {
	Append(snap Snapshot) error
	Close() error
}
