package sim

import (
	"sync"

	"github.com/Iron-Ham/potpanel/internal/errors"
	"github.com/Iron-Ham/potpanel/internal/hal"
)

// historySize bounds the number of writes Display remembers.
const historySize = 64

// DigitWrite is one digit shown on one position.
type DigitWrite struct {
	Position hal.Position
	Digit    uint8
}

// Display records a two-position seven-segment display.
type Display struct {
	mu       sync.Mutex
	selected hal.Position
	segments [2]hal.Segments
	history  []DigitWrite
	writes   uint64
}

// NewDisplay returns a blank display with position A selected.
func NewDisplay() *Display {
	return &Display{history: make([]DigitWrite, 0, historySize)}
}

// SelectDigit lights position p and blanks the other.
func (d *Display) SelectDigit(p hal.Position) error {
	if p > hal.PositionB {
		return errors.NewDeviceError("display", "select digit", errors.ErrInvalidInput).WithValue(p)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selected = p
	return nil
}

// WriteDigit shows digit on the selected position.
func (d *Display) WriteDigit(digit uint8) error {
	seg, err := hal.EncodeDigit(digit)
	if err != nil {
		return errors.NewDeviceError("display", "write digit", errors.ErrInvalidDigit).WithValue(digit)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.segments[d.selected] = seg
	d.writes++
	if len(d.history) == historySize {
		copy(d.history, d.history[1:])
		d.history = d.history[:historySize-1]
	}
	d.history = append(d.history, DigitWrite{Position: d.selected, Digit: digit})
	return nil
}

// Shown returns the digit last written to position p.
func (d *Display) Shown(p hal.Position) (uint8, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return hal.DecodeSegments(d.segments[p&1])
}

// Segments returns the pattern last written to position p.
func (d *Display) Segments(p hal.Position) hal.Segments {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.segments[p&1]
}

// Selected returns the lit position.
func (d *Display) Selected() hal.Position {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selected
}

// History returns the most recent writes, oldest first.
func (d *Display) History() []DigitWrite {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]DigitWrite(nil), d.history...)
}

// Writes returns the total number of digit writes.
func (d *Display) Writes() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes
}
