package rtos

import (
	"context"
	"sync/atomic"
)

// Mailbox is a single-slot queue filled from interrupt context and drained
// by one task. It is safe for concurrent use.
type Mailbox[T any] struct {
	slot    chan T
	waiters atomic.Int32
	sent    atomic.Uint64
	dropped atomic.Uint64
}

// NewMailbox returns an empty mailbox.
func NewMailbox[T any]() *Mailbox[T] {
	return &Mailbox[T]{slot: make(chan T, 1)}
}

// SendFromISR deposits v without blocking. If the slot is occupied v is
// discarded, the drop is counted and sent is false. woken reports whether a
// task was blocked in Receive when v was deposited.
func (m *Mailbox[T]) SendFromISR(v T) (sent, woken bool) {
	select {
	case m.slot <- v:
		m.sent.Add(1)
		return true, m.waiters.Load() > 0
	default:
		m.dropped.Add(1)
		return false, false
	}
}

// Receive blocks until a value is available and removes it.
func (m *Mailbox[T]) Receive(ctx context.Context) (T, error) {
	select {
	case v := <-m.slot:
		return v, nil
	default:
	}

	m.waiters.Add(1)
	defer m.waiters.Add(-1)

	select {
	case v := <-m.slot:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// TryReceive removes and returns the value if one is present.
func (m *Mailbox[T]) TryReceive() (T, bool) {
	select {
	case v := <-m.slot:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Pending reports whether a value is waiting to be received.
func (m *Mailbox[T]) Pending() bool {
	return len(m.slot) == 1
}

// Waiting reports whether a task is blocked in Receive.
func (m *Mailbox[T]) Waiting() bool {
	return m.waiters.Load() > 0
}

// Len returns 1 if a value is waiting, 0 otherwise.
func (m *Mailbox[T]) Len() int {
	return len(m.slot)
}

// Sent returns how many values were accepted.
func (m *Mailbox[T]) Sent() uint64 {
	return m.sent.Load()
}

// Dropped returns how many values were discarded on a full slot.
func (m *Mailbox[T]) Dropped() uint64 {
	return m.dropped.Load()
}
