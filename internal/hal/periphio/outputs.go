package periphio

import (
	"periph.io/x/conn/v3/gpio"

	"github.com/Iron-Ham/potpanel/internal/errors"
	"github.com/Iron-Ham/potpanel/internal/hal"
)

// Indicators drives two active-high output pins.
type Indicators struct {
	pins [2]gpio.PinIO
}

// NewIndicators configures both pins as outputs, initially off.
func NewIndicators(pins [2]gpio.PinIO) (*Indicators, error) {
	for i, p := range pins {
		if p == nil {
			return nil, errors.NewDeviceError("indicators", "configure", errors.ErrDeviceUnavailable).WithValue(i)
		}
		if err := p.Out(gpio.Low); err != nil {
			return nil, errors.NewDeviceError("indicators", "configure", err).WithValue(p.Name())
		}
	}
	return &Indicators{pins: pins}, nil
}

func (ind *Indicators) set(id hal.Indicator, l gpio.Level, op string) error {
	if id > hal.Indicator1 {
		return errors.NewDeviceError("indicators", op, errors.ErrInvalidInput).WithValue(id)
	}
	if err := ind.pins[id].Out(l); err != nil {
		return errors.NewDeviceError("indicators", op, err).WithValue(ind.pins[id].Name())
	}
	return nil
}

// Activate drives output id high.
func (ind *Indicators) Activate(id hal.Indicator) error {
	return ind.set(id, gpio.High, "activate")
}

// Deactivate drives output id low.
func (ind *Indicators) Deactivate(id hal.Indicator) error {
	return ind.set(id, gpio.Low, "deactivate")
}

// Display drives a two-digit multiplexed seven-segment display: seven
// shared segment pins (a..g) and one enable pin per digit. Segments and
// enables are active high.
type Display struct {
	segments [7]gpio.PinIO
	enables  [2]gpio.PinIO
}

// NewDisplay configures every pin as an output with the display blank.
func NewDisplay(segments [7]gpio.PinIO, enables [2]gpio.PinIO) (*Display, error) {
	for i, p := range segments {
		if p == nil {
			return nil, errors.NewDeviceError("display", "configure segment", errors.ErrDeviceUnavailable).WithValue(i)
		}
		if err := p.Out(gpio.Low); err != nil {
			return nil, errors.NewDeviceError("display", "configure segment", err).WithValue(p.Name())
		}
	}
	for i, p := range enables {
		if p == nil {
			return nil, errors.NewDeviceError("display", "configure enable", errors.ErrDeviceUnavailable).WithValue(i)
		}
		if err := p.Out(gpio.Low); err != nil {
			return nil, errors.NewDeviceError("display", "configure enable", err).WithValue(p.Name())
		}
	}
	return &Display{segments: segments, enables: enables}, nil
}

// SelectDigit disables the other position, then enables p.
func (d *Display) SelectDigit(p hal.Position) error {
	if p > hal.PositionB {
		return errors.NewDeviceError("display", "select digit", errors.ErrInvalidInput).WithValue(p)
	}
	other := d.enables[1-p]
	if err := other.Out(gpio.Low); err != nil {
		return errors.NewDeviceError("display", "select digit", err).WithValue(other.Name())
	}
	if err := d.enables[p].Out(gpio.High); err != nil {
		return errors.NewDeviceError("display", "select digit", err).WithValue(d.enables[p].Name())
	}
	return nil
}

// WriteDigit drives the segment pins for digit.
func (d *Display) WriteDigit(digit uint8) error {
	pattern, err := hal.EncodeDigit(digit)
	if err != nil {
		return errors.NewDeviceError("display", "write digit", errors.ErrInvalidDigit).WithValue(digit)
	}
	for i, p := range d.segments {
		level := gpio.Level(pattern.Lit(hal.Segments(1) << i))
		if err := p.Out(level); err != nil {
			return errors.NewDeviceError("display", "write digit", err).WithValue(p.Name())
		}
	}
	return nil
}

// Halt releases every display pin.
func (d *Display) Halt() error {
	var errs []error
	for _, p := range append(d.segments[:], d.enables[:]...) {
		if err := p.Halt(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
