package rtos

import (
	"context"
	"sync/atomic"
)

// EventCell is a binary signal: raised or not. Raising an already raised
// cell has no further effect, so bursts of raises before the waiter runs
// collapse into one wake-up.
type EventCell struct {
	name      string
	flag      chan struct{}
	waiters   atomic.Int32
	raised    atomic.Uint64
	collapsed atomic.Uint64
}

// NewEventCell returns a lowered cell.
func NewEventCell(name string) *EventCell {
	return &EventCell{name: name, flag: make(chan struct{}, 1)}
}

// Name returns the name given at construction.
func (e *EventCell) Name() string {
	return e.name
}

// Raise sets the flag from task context. It reports whether the flag was
// lowered before the call.
func (e *EventCell) Raise() bool {
	select {
	case e.flag <- struct{}{}:
		e.raised.Add(1)
		return true
	default:
		e.collapsed.Add(1)
		return false
	}
}

// RaiseFromISR sets the flag from interrupt context. woken reports whether a
// task was blocked in Wait.
func (e *EventCell) RaiseFromISR() (woken bool) {
	if !e.Raise() {
		return false
	}
	return e.waiters.Load() > 0
}

// Wait blocks until the flag is raised, then lowers it.
func (e *EventCell) Wait(ctx context.Context) error {
	select {
	case <-e.flag:
		return nil
	default:
	}

	e.waiters.Add(1)
	defer e.waiters.Add(-1)

	select {
	case <-e.flag:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryTake lowers the flag if it is raised and reports whether it was.
func (e *EventCell) TryTake() bool {
	select {
	case <-e.flag:
		return true
	default:
		return false
	}
}

// Signaled reports whether the flag is currently raised without lowering it.
func (e *EventCell) Signaled() bool {
	return len(e.flag) == 1
}

// Waiting reports whether a task is blocked in Wait.
func (e *EventCell) Waiting() bool {
	return e.waiters.Load() > 0
}

// Raised returns how many raises set the flag.
func (e *EventCell) Raised() uint64 {
	return e.raised.Load()
}

// Collapsed returns how many raises found the flag already set.
func (e *EventCell) Collapsed() uint64 {
	return e.collapsed.Load()
}
