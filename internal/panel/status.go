package panel

import "github.com/Iron-Ham/potpanel/internal/hal"

// Status is a point-in-time view of the panel. Fields are read
// independently and may be out of step with each other by one update.
type Status struct {
	RunID           string
	Sample          Sample
	High, Low       uint8
	Channel         hal.Channel
	ActiveIndicator hal.Indicator
	Conversions     uint64
	Dropped         uint64
	Echoed          uint64
	Toggles         uint64
	Spurious        uint64
	ButtonEvents    uint64
	DeviceErrors    uint64
	Yields          uint64
	EventsPublished uint64
	TasksRunning    int
}

// Status returns the current status.
func (p *Panel) Status() Status {
	sample := p.store.Sample()
	high, low := SplitDigits(sample)
	return Status{
		RunID:           p.runID,
		Sample:          sample,
		High:            high,
		Low:             low,
		Channel:         p.store.Channel(),
		ActiveIndicator: hal.Indicator(p.activeIndicator.Load()),
		Conversions:     p.conversions.Load(),
		Dropped:         p.samples.Dropped(),
		Echoed:          p.echoed.Load(),
		Toggles:         p.toggles.Load(),
		Spurious:        p.spurious.Load(),
		ButtonEvents:    p.buttonEvent.Raised(),
		DeviceErrors:    p.deviceErrors.Load(),
		Yields:          p.yields.Load(),
		EventsPublished: p.bus.Published(),
		TasksRunning:    p.scheduler.Running(),
	}
}
