package sim

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Iron-Ham/potpanel/internal/errors"
	"github.com/Iron-Ham/potpanel/internal/hal"
)

// ManualConversion makes StartConversion hold the sampled value until
// CompleteConversion is called.
const ManualConversion time.Duration = -1

// ADC is a simulated two-input converter.
type ADC struct {
	mu             sync.Mutex
	pots           [2]uint16
	max            uint16
	selected       hal.Channel
	result         uint16
	conversionTime time.Duration
	onComplete     func()
	held           []conversion

	started   atomic.Uint64
	completed atomic.Uint64
}

type conversion struct {
	channel hal.Channel
	raw     uint16
}

// NewADC returns a converter with the given resolution. Conversions
// complete conversionTime after they start; pass ManualConversion to
// complete them explicitly.
func NewADC(resolutionBits uint, conversionTime time.Duration) *ADC {
	if resolutionBits == 0 || resolutionBits > 16 {
		resolutionBits = 12
	}
	return &ADC{
		max:            uint16(1<<resolutionBits - 1),
		conversionTime: conversionTime,
	}
}

// SetPot sets the raw reading of input ch, clamped to the resolution.
func (a *ADC) SetPot(ch hal.Channel, raw uint16) error {
	if !ch.Valid() {
		return errors.NewDeviceError("adc", "set pot", errors.ErrInvalidChannel).WithValue(ch)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pots[ch] = min(raw, a.max)
	return nil
}

// Pot returns the raw reading of input ch.
func (a *ADC) Pot(ch hal.Channel) uint16 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pots[ch&1]
}

// Max returns the largest raw reading.
func (a *ADC) Max() uint16 {
	return a.max
}

// StartConversion samples the selected input. The result is delivered
// through the completion handler.
func (a *ADC) StartConversion() error {
	a.mu.Lock()
	c := conversion{channel: a.selected, raw: a.pots[a.selected]}
	manual := a.conversionTime < 0
	if manual {
		a.held = append(a.held, c)
	}
	a.mu.Unlock()

	a.started.Add(1)
	if !manual {
		time.AfterFunc(a.conversionTime, func() { a.complete(c) })
	}
	return nil
}

// CompleteConversion finishes the oldest held conversion on the caller's
// goroutine. It returns false if none is held.
func (a *ADC) CompleteConversion() bool {
	a.mu.Lock()
	if len(a.held) == 0 {
		a.mu.Unlock()
		return false
	}
	c := a.held[0]
	a.held = a.held[1:]
	a.mu.Unlock()

	a.complete(c)
	return true
}

// HeldConversions returns how many manual conversions await completion.
func (a *ADC) HeldConversions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.held)
}

func (a *ADC) complete(c conversion) {
	a.mu.Lock()
	a.result = c.raw
	fn := a.onComplete
	a.mu.Unlock()

	a.completed.Add(1)
	if fn != nil {
		fn()
	}
}

// SelectChannel chooses the input for the next conversion.
func (a *ADC) SelectChannel(ch hal.Channel) error {
	if !ch.Valid() {
		return errors.NewDeviceError("adc", "select channel", errors.ErrInvalidChannel).WithValue(ch)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selected = ch
	return nil
}

// Selected returns the input the next conversion will sample.
func (a *ADC) Selected() hal.Channel {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selected
}

// Result returns the raw value of the latest completed conversion.
func (a *ADC) Result() uint16 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result
}

// OnConversionComplete registers the completion handler.
func (a *ADC) OnConversionComplete(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onComplete = fn
}

// Started returns how many conversions have been started.
func (a *ADC) Started() uint64 {
	return a.started.Load()
}

// Completed returns how many conversions have completed.
func (a *ADC) Completed() uint64 {
	return a.completed.Load()
}
