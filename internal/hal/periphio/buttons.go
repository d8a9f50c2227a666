package periphio

import (
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/Iron-Ham/potpanel/internal/errors"
	"github.com/Iron-Ham/potpanel/internal/hal"
	"github.com/Iron-Ham/potpanel/internal/logging"
)

// edgePoll bounds how long a watcher blocks before checking for Close.
const edgePoll = 100 * time.Millisecond

// Buttons watches two pull-up button pins for falling edges.
type Buttons struct {
	pins [2]gpio.PinIO

	mu      sync.Mutex
	pending hal.LineMask
	onEdge  func()

	logger *logging.Logger
	stop   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewButtons configures echo and toggle as pull-up inputs with falling-edge
// detection and starts watching them.
func NewButtons(echo, toggle gpio.PinIO, logger *logging.Logger) (*Buttons, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	b := &Buttons{
		pins:   [2]gpio.PinIO{echo, toggle},
		logger: logger.WithDevice("buttons"),
		stop:   make(chan struct{}),
	}
	for _, l := range hal.Lines {
		p := b.pins[l]
		if p == nil {
			return nil, errors.NewDeviceError("buttons", "configure "+l.String(), errors.ErrDeviceUnavailable)
		}
		if err := p.In(gpio.PullUp, gpio.FallingEdge); err != nil {
			return nil, errors.NewDeviceError("buttons", "configure "+l.String(), err).WithValue(p.Name())
		}
	}
	for _, l := range hal.Lines {
		b.wg.Add(1)
		go b.watch(l)
	}
	return b, nil
}

func (b *Buttons) watch(l hal.Line) {
	defer b.wg.Done()
	p := b.pins[l]
	for {
		select {
		case <-b.stop:
			return
		default:
		}
		if !p.WaitForEdge(edgePoll) {
			continue
		}
		if p.Read() != gpio.Low {
			continue
		}

		b.mu.Lock()
		b.pending |= l.Mask()
		fn := b.onEdge
		b.mu.Unlock()

		b.logger.Debug("falling edge", "line", l.String(), "pin", p.Name())
		if fn != nil {
			fn()
		}
	}
}

// Level reads line l.
func (b *Buttons) Level(l hal.Line) hal.Level {
	if l > hal.LineToggle {
		return hal.High
	}
	return hal.Level(b.pins[l].Read() == gpio.High)
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

// Close stops the watchers and releases the pins.
func (b *Buttons) Close() error {
	var errs []error
	b.once.Do(func() {
		close(b.stop)
		b.wg.Wait()
		for _, p := range b.pins {
			if err := p.Halt(); err != nil {
				errs = append(errs, errors.NewDeviceError("buttons", "halt", err).WithValue(p.Name()))
			}
		}
	})
	return errors.Join(errs...)
}
