package sim

import (
	"sync"
	"time"

	"github.com/Iron-Ham/potpanel/internal/errors"
	"github.com/Iron-Ham/potpanel/internal/hal"
)

// Buttons simulates two pull-up button lines with falling-edge interrupts.
type Buttons struct {
	mu      sync.Mutex
	levels  [2]hal.Level
	pending hal.LineMask
	onEdge  func()
	edges   uint64
}

// NewButtons returns two released lines.
func NewButtons() *Buttons {
	return &Buttons{levels: [2]hal.Level{hal.High, hal.High}}
}

func checkLine(l hal.Line, op string) error {
	if l > hal.LineToggle {
		return errors.NewDeviceError("buttons", op, errors.ErrUnknownLine).WithValue(l)
	}
	return nil
}

// Press pulls line l low. A released line produces a falling edge and the
// edge handler runs before Press returns.
func (b *Buttons) Press(l hal.Line) error {
	if err := checkLine(l, "press"); err != nil {
		return err
	}
	b.mu.Lock()
	if b.levels[l] == hal.Low {
		b.mu.Unlock()
		return nil
	}
	b.levels[l] = hal.Low
	fn := b.latch(l)
	b.mu.Unlock()

	if fn != nil {
		fn()
	}
	return nil
}

// Release lets line l return high. Rising edges do not interrupt.
func (b *Buttons) Release(l hal.Line) error {
	if err := checkLine(l, "release"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.levels[l] = hal.High
	return nil
}

// PressFor presses line l and releases it after hold.
func (b *Buttons) PressFor(l hal.Line, hold time.Duration) error {
	if err := b.Press(l); err != nil {
		return err
	}
	time.AfterFunc(hold, func() { _ = b.Release(l) })
	return nil
}

// Glitch latches a falling edge on line l without the line staying low,
// like contact bounce that settles released.
func (b *Buttons) Glitch(l hal.Line) error {
	if err := checkLine(l, "glitch"); err != nil {
		return err
	}
	b.mu.Lock()
	fn := b.latch(l)
	b.mu.Unlock()

	if fn != nil {
		fn()
	}
	return nil
}

// latch must be called with mu held.
func (b *Buttons) latch(l hal.Line) func() {
	b.pending |= l.Mask()
	b.edges++
	return b.onEdge
}

// Level samples line l. Unknown lines read high.
func (b *Buttons) Level(l hal.Line) hal.Level {
	if l > hal.LineToggle {
		return hal.High
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.levels[l]
}

// Pending returns the lines with an uncleared falling edge.
func (b *Buttons) Pending() hal.LineMask {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending
}

// ClearPending clears the pending flags in mask.
func (b *Buttons) ClearPending(mask hal.LineMask) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending &^= mask
}

// OnEdge registers the edge handler.
func (b *Buttons) OnEdge(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onEdge = fn
}

// Edges returns how many falling edges have been latched.
func (b *Buttons) Edges() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.edges
}
