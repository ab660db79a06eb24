package telemetry

import (
	"context"
	"fmt"
)

// Mailbox is a single-slot handoff for one snapshot stream.
type Mailbox struct {
	free  chan *Mesh
	ready chan *Mesh
}

// NewMailbox returns a mailbox whose mesh can hold up to capacity points.
func NewMailbox(capacity int) *Mailbox {
	b := &Mailbox{
		free:  make(chan *Mesh, 1),
		ready: make(chan *Mesh, 1),
	}
	b.free <- NewMesh(capacity)
	return b
}

// Acquire returns the mesh for filling when the consumer has released the
// previous snapshot. It never blocks.
func (b *Mailbox) Acquire() (*Mesh, bool) {
	select {
	case m := <-b.free:
		return m, true
	default:
		return nil, false
	}
}

// Publish delivers a mesh obtained from Acquire to the consumer.
func (b *Mailbox) Publish(m *Mesh) {
	b.ready <- m
}

// Pending reports whether a published snapshot awaits the consumer.
func (b *Mailbox) Pending() bool {
	return len(b.ready) > 0
}

// TryReceive returns the published snapshot, if any, without blocking. The
// caller must Release it when done.
func (b *Mailbox) TryReceive() (*Mesh, bool) {
	select {
	case m := <-b.ready:
		return m, true
	default:
		return nil, false
	}
}

// Receive waits for a published snapshot or for ctx to end. The caller must
// Release the mesh when done.
func (b *Mailbox) Receive(ctx context.Context) (*Mesh, error) {
	select {
	case m := <-b.ready:
		return m, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("telemetry receive: %w", ctx.Err())
	}
}

// Release acknowledges a received snapshot and lets the producer refill it.
func (b *Mailbox) Release(m *Mesh) {
	b.free <- m
}

// Drain calls fn for every snapshot published to b until ctx ends. Each mesh
// is released after fn returns, so fn must not retain it.
func Drain(ctx context.Context, b *Mailbox, fn func(*Mesh)) error {
	for {
		m, err := b.Receive(ctx)
		if err != nil {
			return err
		}
		fn(m)
		b.Release(m)
	}
}
