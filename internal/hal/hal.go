// Package hal defines the devices the panel drives: an analog converter with
// two inputs, two active-low button lines, a two-position seven-segment
// display, two indicator outputs and a serial transmitter.
//
// Backends live in subpackages: sim for an in-memory board, periphio for
// GPIO through periph.io, serialport for UART and pseudo-terminal output.
package hal

import (
	"fmt"
	"io"
)

// Channel selects one of the two analog inputs.
type Channel uint8

const (
	Channel0 Channel = 0
	Channel1 Channel = 1
)

// Valid reports whether c names an existing input.
func (c Channel) Valid() bool {
	return c <= Channel1
}

// Other returns the other input.
func (c Channel) Other() Channel {
	return 1 - c
}

// Line identifies a monitored button line.
type Line uint8

const (
	// LineEcho echoes the current sample over serial when pressed.
	LineEcho Line = 0
	// LineToggle flips the selected analog channel when pressed.
	LineToggle Line = 1
)

// Lines lists the monitored lines in service priority order.
var Lines = [...]Line{LineEcho, LineToggle}

func (l Line) String() string {
	switch l {
	case LineEcho:
		return "echo"
	case LineToggle:
		return "toggle"
	default:
		return fmt.Sprintf("line%d", uint8(l))
	}
}

// Mask returns the pending-flag bit for l.
func (l Line) Mask() LineMask {
	return LineMask(1) << l
}

// LineMask is a set of lines, one bit per line.
type LineMask uint8

// AllLines has the bit of every monitored line set.
const AllLines = LineMask(1<<LineEcho | 1<<LineToggle)

// Has reports whether l is in the mask.
func (m LineMask) Has(l Line) bool {
	return m&l.Mask() != 0
}

// Level is the electrical state of an input line.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// Pressed reports whether a line at this level is pressed. Buttons pull
// their line low.
func (l Level) Pressed() bool {
	return l == Low
}

func (l Level) String() string {
	if l == High {
		return "high"
	}
	return "low"
}

// Position is one of the two multiplexed display digits.
type Position uint8

const (
	// PositionA shows the low digit.
	PositionA Position = 0
	// PositionB shows the high digit.
	PositionB Position = 1
)

func (p Position) String() string {
	if p == PositionA {
		return "A"
	}
	return "B"
}

// Indicator identifies one of the two indicator outputs.
type Indicator uint8

const (
	Indicator0 Indicator = 0
	Indicator1 Indicator = 1
)

// Other returns the other indicator.
func (i Indicator) Other() Indicator {
	return 1 - i
}

// ADC is the analog converter. The completion handler is called from
// interrupt context after every conversion started by StartConversion.
type ADC interface {
	// StartConversion begins one conversion on the selected input.
	StartConversion() error
	// SelectChannel chooses the input for the next conversion.
	SelectChannel(ch Channel) error
	// Result returns the raw value of the latest completed conversion.
	Result() uint16
	// OnConversionComplete registers the completion handler.
	OnConversionComplete(fn func())
}

// InputLines are the two active-low button lines. Each line latches a
// pending flag on a falling edge; the flags are cleared independently.
type InputLines interface {
	// Level samples the line now.
	Level(l Line) Level
	// Pending returns the lines whose falling edge has not been cleared.
	Pending() LineMask
	// ClearPending clears the pending flag of every line in mask.
	ClearPending(mask LineMask)
	// OnEdge registers the handler called from interrupt context after a
	// falling edge latches a pending flag.
	OnEdge(fn func())
}

// Display drives two seven-segment digits that share segment lines. Only
// the selected position is lit.
type Display interface {
	SelectDigit(p Position) error
	// WriteDigit shows d (0-9) on the selected position.
	WriteDigit(d uint8) error
}

// Indicators switches the two indicator outputs.
type Indicators interface {
	Activate(id Indicator) error
	Deactivate(id Indicator) error
}

// Serial transmits single bytes. WriteByte blocks until the transmitter
// accepts the byte.
type Serial = io.ByteWriter
