package panel

import "github.com/Iron-Ham/potpanel/internal/hal"

// conversionComplete runs in interrupt context when a conversion finishes.
// It never blocks: a sample that finds the mailbox full is dropped.
func (p *Panel) conversionComplete() {
	p.conversions.Add(1)
	v := Scale(p.dev.ADC.Result(), p.opts.ScaleShift)
	_, woken := p.samples.SendFromISR(v)
	p.yieldFromISR(woken)
}

// pinChange runs in interrupt context after a falling edge. Each monitored
// line is checked on its own, and only the flags that fired are cleared.
func (p *Panel) pinChange() {
	fired := p.dev.Lines.Pending() & hal.AllLines
	woken := false
	if fired.Has(hal.LineEcho) || fired.Has(hal.LineToggle) {
		woken = p.buttonEvent.RaiseFromISR()
	}
	p.dev.Lines.ClearPending(fired)
	p.yieldFromISR(woken)
}

// yieldFromISR hands the processor to the task a handler just readied.
func (p *Panel) yieldFromISR(woken bool) {
	if !woken {
		return
	}
	p.yields.Add(1)
	p.yield()
}
