package distributed

import (
	"context"
	"fmt"
	"sync"
)

// MemChannel is an in-process Channel implementation: a shared mailbox
// keyed by rank, so tests can drive master/worker interaction without an
// external transport.
type MemChannel struct {
	rank    string
	mailbox map[string]chan Envelope
	once    *sync.Once
	closed  chan struct{}
}

// NewMemChannelSet builds one MemChannel per named rank, all wired to the
// same in-memory mailbox set.
func NewMemChannelSet(ranks ...string) map[string]*MemChannel {
	mailbox := make(map[string]chan Envelope, len(ranks))
	for _, r := range ranks {
		mailbox[r] = make(chan Envelope, 64)
	}
	closed := make(chan struct{})
	out := make(map[string]*MemChannel, len(ranks))
	for _, r := range ranks {
		out[r] = &MemChannel{rank: r, mailbox: mailbox, once: &sync.Once{}, closed: closed}
	}
	return out
}

func (m *MemChannel) Send(ctx context.Context, to string, tag Tag, payload []byte) error {
	ch, ok := m.mailbox[to]
	if !ok {
		return fmt.Errorf("distributed: unknown rank %q", to)
	}
	select {
	case ch <- Envelope{From: m.rank, Tag: tag, Payload: payload}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-m.closed:
		return fmt.Errorf("distributed: channel closed")
	}
}

func (m *MemChannel) Recv(ctx context.Context) (Envelope, error) {
	own := m.mailbox[m.rank]
	select {
	case env := <-own:
		return env, nil
	case <-ctx.Done():
		return Envelope{}, ctx.Err()
	case <-m.closed:
		return Envelope{}, fmt.Errorf("distributed: channel closed")
	}
}

func (m *MemChannel) Close() error {
	m.once.Do(func() { close(m.closed) })
	return nil
}
