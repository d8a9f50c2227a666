package sim

import (
	"time"

	"github.com/Iron-Ham/potpanel/internal/hal"
)

// Options configures a Board.
type Options struct {
	ResolutionBits uint
	ConversionTime time.Duration
	Pots           [2]uint16
}

// Board bundles one of each simulated device.
type Board struct {
	ADC        *ADC
	Buttons    *Buttons
	Display    *Display
	Indicators *Indicators
	Serial     *Serial
}

// NewBoard returns a board with the potentiometers preset.
func NewBoard(opts Options) *Board {
	adc := NewADC(opts.ResolutionBits, opts.ConversionTime)
	_ = adc.SetPot(hal.Channel0, opts.Pots[0])
	_ = adc.SetPot(hal.Channel1, opts.Pots[1])

	return &Board{
		ADC:        adc,
		Buttons:    NewButtons(),
		Display:    NewDisplay(),
		Indicators: NewIndicators(),
		Serial:     NewSerial(),
	}
}
