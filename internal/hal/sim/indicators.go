package sim

import (
	"sync"

	"github.com/Iron-Ham/potpanel/internal/errors"
	"github.com/Iron-Ham/potpanel/internal/hal"
)

// Indicators records two on/off outputs.
type Indicators struct {
	mu      sync.Mutex
	on      [2]bool
	changes uint64
}

// NewIndicators returns two dark outputs.
func NewIndicators() *Indicators {
	return &Indicators{}
}

func (i *Indicators) set(id hal.Indicator, on bool, op string) error {
	if id > hal.Indicator1 {
		return errors.NewDeviceError("indicators", op, errors.ErrInvalidInput).WithValue(id)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.on[id] != on {
		i.on[id] = on
		i.changes++
	}
	return nil
}

// Activate turns output id on.
func (i *Indicators) Activate(id hal.Indicator) error {
	return i.set(id, true, "activate")
}

// Deactivate turns output id off.
func (i *Indicators) Deactivate(id hal.Indicator) error {
	return i.set(id, false, "deactivate")
}

// States returns whether each output is on.
func (i *Indicators) States() [2]bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.on
}

// Active returns the lit output when exactly one is lit.
func (i *Indicators) Active() (hal.Indicator, bool) {
	s := i.States()
	switch {
	case s[0] && !s[1]:
		return hal.Indicator0, true
	case s[1] && !s[0]:
		return hal.Indicator1, true
	default:
		return 0, false
	}
}

// Changes returns how many times an output changed state.
func (i *Indicators) Changes() uint64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.changes
}
