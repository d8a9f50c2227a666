package cmd

import (
	"fmt"
	"io"

	"github.com/Iron-Ham/potpanel/internal/config"
	"github.com/Iron-Ham/potpanel/internal/errors"
	"github.com/Iron-Ham/potpanel/internal/hal/periphio"
	"github.com/Iron-Ham/potpanel/internal/hal/serialport"
	"github.com/Iron-Ham/potpanel/internal/hal/sim"
	"github.com/Iron-Ham/potpanel/internal/logging"
	"github.com/Iron-Ham/potpanel/internal/panel"
)

// hardware is the set of devices a run drives, plus whatever must be
// closed when it ends.
type hardware struct {
	devices panel.Devices
	// board is the simulated board. The converter always comes from it;
	// the other devices do when their backend is "sim".
	board *sim.Board
	// serialName is the device or pty path bytes are echoed to, if any.
	serialName string
	closers    []io.Closer
}

// openHardware opens the serial and GPIO backends named in cfg.
func openHardware(cfg *config.Config, logger *logging.Logger) (*hardware, error) {
	board := sim.NewBoard(sim.Options{
		ResolutionBits: cfg.ADC.ResolutionBits,
		ConversionTime: cfg.Sim.ConversionTime,
		Pots:           [2]uint16{cfg.Sim.Channel0Raw, cfg.Sim.Channel1Raw},
	})
	hw := &hardware{
		board: board,
		devices: panel.Devices{
			ADC:        board.ADC,
			Lines:      board.Buttons,
			Display:    board.Display,
			Indicators: board.Indicators,
			Serial:     board.Serial,
		},
	}

	switch cfg.Serial.Backend {
	case "sim":
	case "uart":
		port, err := serialport.OpenUART(cfg.Serial.Device, cfg.Serial.Baud)
		if err != nil {
			return nil, errors.Wrapf(err, "serial backend %q", cfg.Serial.Backend)
		}
		hw.devices.Serial = port
		hw.serialName = port.Name()
		hw.closers = append(hw.closers, port)
	case "pty":
		port, err := serialport.OpenPTY()
		if err != nil {
			return nil, errors.Wrapf(err, "serial backend %q", cfg.Serial.Backend)
		}
		hw.devices.Serial = port
		hw.serialName = port.Name()
		hw.closers = append(hw.closers, port)
	default:
		return nil, errors.NewValidationError("unknown backend").WithField("serial.backend").WithValue(cfg.Serial.Backend)
	}

	switch cfg.GPIO.Backend {
	case "sim":
	case "periph":
		gpio, err := periphio.Open(cfg.GPIO, logger.WithDevice("gpio"))
		if err != nil {
			_ = hw.Close()
			return nil, errors.Wrapf(err, "gpio backend %q", cfg.GPIO.Backend)
		}
		hw.devices.Lines = gpio.Buttons
		hw.devices.Display = gpio.Display
		hw.devices.Indicators = gpio.Indicators
		hw.closers = append(hw.closers, gpio)
	default:
		_ = hw.Close()
		return nil, errors.NewValidationError("unknown backend").WithField("gpio.backend").WithValue(cfg.GPIO.Backend)
	}

	return hw, nil
}

// Close releases every opened device, newest first.
func (hw *hardware) Close() error {
	var errs []error
	for i := len(hw.closers) - 1; i >= 0; i-- {
		if err := hw.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	hw.closers = nil
	return errors.Join(errs...)
}

// describe summarizes the backends for the start-up banner.
func (hw *hardware) describe(cfg *config.Config) string {
	s := fmt.Sprintf("gpio=%s serial=%s", cfg.GPIO.Backend, cfg.Serial.Backend)
	if hw.serialName != "" {
		s += " (" + hw.serialName + ")"
	}
	return s
}
