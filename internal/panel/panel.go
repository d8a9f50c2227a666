package panel

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Iron-Ham/potpanel/internal/config"
	"github.com/Iron-Ham/potpanel/internal/errors"
	"github.com/Iron-Ham/potpanel/internal/event"
	"github.com/Iron-Ham/potpanel/internal/hal"
	"github.com/Iron-Ham/potpanel/internal/logging"
	"github.com/Iron-Ham/potpanel/internal/rtos"
)

// Task names as they appear in logs and events.
const (
	TaskTrigger   = "trigger"
	TaskSampling  = "sampling"
	TaskButton    = "button"
	TaskOutput    = "output"
	TaskIndicator = "indicator"
)

// Task priorities. Higher runs first at start-up.
const (
	PriorityTrigger   = 4
	PriorityButton    = 4
	PrioritySampling  = 3
	PriorityIndicator = 2
	PriorityOutput    = 1
)

// Devices are the peripherals the panel drives.
type Devices struct {
	ADC        hal.ADC
	Lines      hal.InputLines
	Display    hal.Display
	Indicators hal.Indicators
	Serial     hal.Serial
}

func (d Devices) validate() error {
	missing := func(name string) error {
		return errors.NewValidationError("device is required").WithField(name)
	}
	switch {
	case d.ADC == nil:
		return missing("adc")
	case d.Lines == nil:
		return missing("lines")
	case d.Display == nil:
		return missing("display")
	case d.Indicators == nil:
		return missing("indicators")
	case d.Serial == nil:
		return missing("serial")
	}
	return nil
}

// Options are the panel's timing and start-up state.
type Options struct {
	Tick             time.Duration
	TriggerPeriod    rtos.Ticks
	DigitHold        rtos.Ticks
	Debounce         rtos.Ticks
	ScaleShift       uint
	InitialChannel   hal.Channel
	InitialIndicator hal.Indicator
}

// DefaultOptions returns the reference board's timing.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

// OptionsFromConfig extracts panel options from a loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Tick:             cfg.Scheduler.Tick,
		TriggerPeriod:    rtos.Ticks(cfg.ADC.TriggerPeriodTicks),
		DigitHold:        rtos.Ticks(cfg.Display.DigitHoldTicks),
		Debounce:         rtos.Ticks(cfg.Buttons.DebounceTicks),
		ScaleShift:       cfg.ADC.ScaleShift,
		InitialChannel:   hal.Channel(cfg.ADC.InitialChannel),
		InitialIndicator: hal.Indicator(cfg.Indicators.InitialActive),
	}
}

func (o Options) validate() error {
	switch {
	case o.TriggerPeriod == 0:
		return errors.NewValidationError("must be at least 1 tick").WithField("trigger_period").WithValue(o.TriggerPeriod)
	case o.DigitHold == 0:
		return errors.NewValidationError("must be at least 1 tick").WithField("digit_hold").WithValue(o.DigitHold)
	case !o.InitialChannel.Valid():
		return errors.NewValidationError("must be 0 or 1").WithField("initial_channel").WithValue(o.InitialChannel).
			WithCause(errors.ErrInvalidChannel)
	case o.InitialIndicator > hal.Indicator1:
		return errors.NewValidationError("must be 0 or 1").WithField("initial_indicator").WithValue(o.InitialIndicator)
	}
	return nil
}

// Option configures a Panel.
type Option func(*Panel)

// WithLogger sets the panel's logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Panel) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithBus publishes panel events on bus instead of a private one.
func WithBus(bus *event.Bus) Option {
	return func(p *Panel) {
		if bus != nil {
			p.bus = bus
		}
	}
}

// WithRunID overrides the generated run ID.
func WithRunID(id string) Option {
	return func(p *Panel) {
		if id != "" {
			p.runID = id
		}
	}
}

// WithYield replaces the call interrupt handlers make after waking a
// task. The default is runtime.Gosched.
func WithYield(fn func()) Option {
	return func(p *Panel) {
		if fn != nil {
			p.yield = fn
		}
	}
}

// Panel owns the coordination primitives and runs the tasks.
type Panel struct {
	dev  Devices
	opts Options

	store       *Store
	samples     *rtos.Mailbox[Sample]
	buttonEvent *rtos.EventCell
	modeChange  *rtos.EventCell
	clock       *rtos.Clock
	scheduler   *rtos.Scheduler

	bus    *event.Bus
	logger *logging.Logger
	runID  string
	yield  func()

	started         atomic.Bool
	activeIndicator atomic.Uint32
	conversions     atomic.Uint64
	echoed          atomic.Uint64
	toggles         atomic.Uint64
	spurious        atomic.Uint64
	deviceErrors    atomic.Uint64
	yields          atomic.Uint64
}

// New creates every primitive the tasks share. Nothing runs until Run.
func New(dev Devices, opts Options, options ...Option) (*Panel, error) {
	if err := dev.validate(); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	p := &Panel{
		dev:         dev,
		opts:        opts,
		store:       NewStore(opts.InitialChannel),
		samples:     rtos.NewMailbox[Sample](),
		buttonEvent: rtos.NewEventCell("button"),
		modeChange:  rtos.NewEventCell("mode-change"),
		clock:       rtos.NewClock(opts.Tick),
		runID:       uuid.NewString(),
		logger:      logging.NopLogger(),
		yield:       runtime.Gosched,
	}
	for _, o := range options {
		o(p)
	}
	if p.bus == nil {
		p.bus = event.NewBus(event.WithLogger(p.logger))
	}
	p.logger = p.logger.WithRun(p.runID)
	p.activeIndicator.Store(uint32(opts.InitialIndicator))

	p.scheduler = rtos.NewScheduler(p.logger,
		rtos.Task{Name: TaskTrigger, Priority: PriorityTrigger, Run: p.runTrigger},
		rtos.Task{Name: TaskButton, Priority: PriorityButton, Run: p.runButton},
		rtos.Task{Name: TaskSampling, Priority: PrioritySampling, Run: p.runSampling},
		rtos.Task{Name: TaskIndicator, Priority: PriorityIndicator, Run: p.runIndicator},
		rtos.Task{Name: TaskOutput, Priority: PriorityOutput, Run: p.runOutput},
	)
	p.scheduler.SetHooks(rtos.Hooks{
		OnStart: func(t rtos.Task) {
			p.bus.Publish(event.NewTaskStartedEvent(t.Name, t.Priority))
		},
		OnStop: func(t rtos.Task, err error) {
			p.bus.Publish(event.NewTaskStoppedEvent(t.Name, err))
		},
	})
	return p, nil
}

// Run brings the devices to their start-up state, attaches the interrupt
// handlers and runs the tasks until ctx is cancelled. A panel runs once.
func (p *Panel) Run(ctx context.Context) error {
	if !p.started.CompareAndSwap(false, true) {
		return errors.New("panel already started")
	}

	p.bringUp()

	p.dev.ADC.OnConversionComplete(p.conversionComplete)
	p.dev.Lines.OnEdge(p.pinChange)
	defer func() {
		p.dev.ADC.OnConversionComplete(nil)
		p.dev.Lines.OnEdge(nil)
	}()

	p.logger.Info("panel started",
		"tick", p.opts.Tick.String(),
		"trigger_period", uint32(p.opts.TriggerPeriod),
		"channel", uint8(p.opts.InitialChannel),
		"subscribers", p.bus.SubscriptionCount())

	err := p.scheduler.Run(ctx)
	if err != nil {
		p.logger.Error("panel stopped", "error", err)
		return err
	}
	p.logger.Info("panel stopped")
	return nil
}

// bringUp puts the converter and indicators in their initial state: the
// initial input selected, the initial indicator lit and the other dark.
func (p *Panel) bringUp() {
	p.deviceFault(TaskIndicator, p.dev.ADC.SelectChannel(p.opts.InitialChannel))
	on := p.opts.InitialIndicator
	p.deviceFault(TaskIndicator, p.dev.Indicators.Activate(on))
	p.deviceFault(TaskIndicator, p.dev.Indicators.Deactivate(on.Other()))
}

// deviceFault logs a device error at its severity and counts it. It
// reports whether err was non-nil.
func (p *Panel) deviceFault(task string, err error) bool {
	if err == nil {
		return false
	}
	p.deviceErrors.Add(1)

	sev := errors.GetSeverity(err)
	log := p.logger.WithTask(task).Warn
	switch sev {
	case errors.SeverityDebug:
		log = p.logger.WithTask(task).Debug
	case errors.SeverityError, errors.SeverityCritical:
		log = p.logger.WithTask(task).Error
	}
	log("device error",
		"error", err,
		"severity", sev.String(),
		"retryable", errors.IsRetryable(err))
	return true
}

// Bus returns the bus panel events are published on.
func (p *Panel) Bus() *event.Bus {
	return p.bus
}

// RunID returns the identifier attached to this panel's log entries.
func (p *Panel) RunID() string {
	return p.runID
}

// Options returns the options the panel was created with.
func (p *Panel) Options() Options {
	return p.opts
}

// Tasks returns the scheduled tasks in start order.
func (p *Panel) Tasks() []rtos.Task {
	return p.scheduler.Tasks()
}
