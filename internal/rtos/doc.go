// Package rtos provides the coordination primitives the panel's tasks are
// built from: a tick clock, a single-slot mailbox, binary event cells and a
// priority-ordered scheduler.
//
// The primitives distinguish task context from interrupt context. Calls
// suffixed FromISR never block and report whether a blocked task was
// released, the way an interrupt handler on a microcontroller asks for a
// context switch on exit. On a host those handlers run on a callback
// goroutine (a timer, a GPIO edge watcher) and the flag is informational.
//
// # Mailbox
//
// [Mailbox] holds at most one value. A send into a full mailbox from an
// interrupt drops the new value and counts the drop; the receiver always
// sees the oldest undelivered value.
//
// # Event cells
//
// [EventCell] is a binary flag. Raising it twice before anyone waits is the
// same as raising it once. [EventCell.Wait] consumes the flag.
//
// # Scheduler
//
// [Scheduler] starts every [Task] on its own goroutine, highest priority
// first, and stops them all when the context is cancelled or when any task
// fails or panics. Priorities order start-up and appear in logs; the Go
// runtime does not preempt by priority.
package rtos
