package distributed

import "context"

// Envelope is one received message: the rank it came from, its tag, and
// its payload.
type Envelope struct {
	From    string
	Tag     Tag
	Payload []byte
}

// Channel is the injectable point-to-point tagged-message transport the
// master and worker ranks communicate over (SPEC_FULL.md §9,
// "message-channel abstraction"). Implementations: MemChannel for unit
// tests driving master/worker interaction without an external runtime,
// RedisChannel for a real distributed transport.
type Channel interface {
	// Send delivers payload to rank `to` tagged with tag.
	Send(ctx context.Context, to string, tag Tag, payload []byte) error
	// Recv blocks until a message addressed to this rank arrives.
	Recv(ctx context.Context) (Envelope, error)
	Close() error
}
