package panel

import (
	"context"

	"github.com/Iron-Ham/potpanel/internal/event"
	"github.com/Iron-Ham/potpanel/internal/hal"
)

// runTrigger starts a conversion once per trigger period. It reports
// conversions dropped on a full mailbox since the previous period.
func (p *Panel) runTrigger(ctx context.Context) error {
	var reported uint64
	for {
		p.deviceFault(TaskTrigger, p.dev.ADC.StartConversion())

		if total := p.samples.Dropped(); total > reported {
			p.logger.WithTask(TaskTrigger).Warn("samples dropped",
				"dropped", total-reported, "total", total)
			p.bus.Publish(event.NewSampleDroppedEvent(total-reported, total))
			reported = total
		}

		if err := p.clock.Delay(ctx, p.opts.TriggerPeriod); err != nil {
			return err
		}
	}
}

// runSampling stores each received sample. The sample is attributed to the
// input selected when the iteration began; the input for the following
// conversion is the one selected after the sample was stored.
func (p *Panel) runSampling(ctx context.Context) error {
	log := p.logger.WithTask(TaskSampling)
	for {
		ch := p.store.Channel()

		v, err := p.samples.Receive(ctx)
		if err != nil {
			return err
		}
		p.store.SetSample(v)
		log.Debug("sample stored", "sample", uint8(v), "channel", uint8(ch))
		p.bus.Publish(event.NewSampleStoredEvent(uint8(v), int(ch)))

		p.deviceFault(TaskSampling, p.dev.ADC.SelectChannel(p.store.Channel()))
	}
}

// runButton waits for a button event, lets the lines settle, then services
// at most one line: echo before toggle.
func (p *Panel) runButton(ctx context.Context) error {
	log := p.logger.WithTask(TaskButton)
	for {
		if err := p.buttonEvent.Wait(ctx); err != nil {
			return err
		}
		if err := p.clock.Delay(ctx, p.opts.Debounce); err != nil {
			return err
		}

		switch {
		case p.dev.Lines.Level(hal.LineEcho).Pressed():
			p.echo()

		case p.dev.Lines.Level(hal.LineToggle).Pressed():
			prev, next := p.store.ToggleChannel()
			p.modeChange.Raise()
			p.toggles.Add(1)
			log.Info("channel selected", "previous", uint8(prev), "current", uint8(next))
			p.bus.Publish(event.NewChannelSelectedEvent(int(prev), int(next)))

		default:
			p.spurious.Add(1)
			log.Debug("spurious button event")
			p.bus.Publish(event.NewButtonSpuriousEvent())
		}
	}
}

// echo transmits the cached sample while holding the sample guard.
func (p *Panel) echo() {
	var sent Sample
	err := p.store.WithSample(func(v Sample) error {
		sent = v
		return p.dev.Serial.WriteByte(byte(v))
	})
	if !p.deviceFault(TaskButton, err) {
		p.echoed.Add(1)
		p.logger.WithTask(TaskButton).Info("sample echoed", "sample", uint8(sent))
	}
	p.bus.Publish(event.NewSerialEchoedEvent(uint8(sent), err))
}

// runOutput multiplexes the current sample: low digit on position A, then
// high digit on position B, each held for DigitHold ticks.
func (p *Panel) runOutput(ctx context.Context) error {
	failing := false
	show := func(pos hal.Position, digit uint8) {
		err := p.dev.Display.SelectDigit(pos)
		if err == nil {
			err = p.dev.Display.WriteDigit(digit)
		}
		// Log transitions only; this loop runs every few ticks.
		switch {
		case err != nil && !failing:
			failing = true
			p.deviceFault(TaskOutput, err)
		case err == nil && failing:
			failing = false
			p.logger.WithTask(TaskOutput).Info("display recovered")
		}
	}

	for {
		high, low := SplitDigits(p.store.Sample())

		show(hal.PositionA, low)
		if err := p.clock.Delay(ctx, p.opts.DigitHold); err != nil {
			return err
		}
		show(hal.PositionB, high)
		if err := p.clock.Delay(ctx, p.opts.DigitHold); err != nil {
			return err
		}
	}
}

// runIndicator swaps the lit indicator after every mode change.
func (p *Panel) runIndicator(ctx context.Context) error {
	active := hal.Indicator(p.activeIndicator.Load())
	for {
		if err := p.modeChange.Wait(ctx); err != nil {
			return err
		}
		next := active.Other()
		p.deviceFault(TaskIndicator, p.dev.Indicators.Deactivate(active))
		p.deviceFault(TaskIndicator, p.dev.Indicators.Activate(next))
		active = next
		p.activeIndicator.Store(uint32(active))

		p.logger.WithTask(TaskIndicator).Debug("indicator changed", "active", uint8(active))
		p.bus.Publish(event.NewIndicatorChangedEvent(int(active)))
	}
}
