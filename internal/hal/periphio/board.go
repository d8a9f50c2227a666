package periphio

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/Iron-Ham/potpanel/internal/config"
	"github.com/Iron-Ham/potpanel/internal/errors"
	"github.com/Iron-Ham/potpanel/internal/logging"
)

// Board is the set of GPIO devices opened from configuration.
type Board struct {
	Buttons    *Buttons
	Indicators *Indicators
	Display    *Display
}

// PinResolver finds a pin by name.
type PinResolver func(name string) gpio.PinIO

// Open initializes the host drivers and opens every configured pin.
func Open(cfg config.GPIOConfig, logger *logging.Logger) (*Board, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.NewDeviceError("gpio", "host init", err).WithRetryable(false)
	}
	return OpenWith(cfg, gpioreg.ByName, logger)
}

// OpenWith opens the configured pins through resolve.
func OpenWith(cfg config.GPIOConfig, resolve PinResolver, logger *logging.Logger) (*Board, error) {
	lookup := func(name string) (gpio.PinIO, error) {
		p := resolve(name)
		if p == nil {
			return nil, errors.NewDeviceError("gpio", "open pin", errors.ErrDeviceUnavailable).
				WithValue(name).
				WithRetryable(false)
		}
		return p, nil
	}
	lookupAll := func(names []string, want int, what string) ([]gpio.PinIO, error) {
		if len(names) != want {
			return nil, errors.NewValidationError(fmt.Sprintf("need %d %s pins", want, what)).
				WithField("gpio." + what + "_pins").
				WithValue(names)
		}
		pins := make([]gpio.PinIO, 0, want)
		for _, n := range names {
			p, err := lookup(n)
			if err != nil {
				return nil, err
			}
			pins = append(pins, p)
		}
		return pins, nil
	}

	echo, err := lookup(cfg.EchoPin)
	if err != nil {
		return nil, err
	}
	toggle, err := lookup(cfg.TogglePin)
	if err != nil {
		return nil, err
	}
	leds, err := lookupAll(cfg.IndicatorPins, 2, "indicator")
	if err != nil {
		return nil, err
	}
	segs, err := lookupAll(cfg.SegmentPins, 7, "segment")
	if err != nil {
		return nil, err
	}
	digits, err := lookupAll(cfg.DigitPins, 2, "digit")
	if err != nil {
		return nil, err
	}

	indicators, err := NewIndicators([2]gpio.PinIO(leds))
	if err != nil {
		return nil, err
	}
	display, err := NewDisplay([7]gpio.PinIO(segs), [2]gpio.PinIO(digits))
	if err != nil {
		return nil, err
	}
	buttons, err := NewButtons(echo, toggle, logger)
	if err != nil {
		return nil, err
	}
	return &Board{Buttons: buttons, Indicators: indicators, Display: display}, nil
}

// Close stops the button watchers and releases the display pins.
func (b *Board) Close() error {
	return errors.Join(b.Buttons.Close(), b.Display.Halt())
}
