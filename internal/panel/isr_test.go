package panel

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/Iron-Ham/potpanel/internal/hal"
	"github.com/Iron-Ham/potpanel/internal/hal/sim"
)

func TestConversionComplete_DepositsScaledSample(t *testing.T) {
	b := newTestBoard(sim.ManualConversion)
	p := newTestPanel(t, b, testOptions())
	b.ADC.OnConversionComplete(p.conversionComplete)

	_ = b.ADC.StartConversion()
	b.ADC.CompleteConversion()

	v, ok := p.samples.TryReceive()
	if !ok {
		t.Fatal("conversion did not deposit a sample")
	}
	if v != 45 {
		t.Errorf("sample = %d, want 45", v)
	}
	if got := p.Status().Conversions; got != 1 {
		t.Errorf("Conversions = %d, want 1", got)
	}
}

func TestConversionComplete_FullMailboxDropsNewest(t *testing.T) {
	b := newTestBoard(sim.ManualConversion)
	p := newTestPanel(t, b, testOptions())
	b.ADC.OnConversionComplete(p.conversionComplete)

	_ = b.ADC.StartConversion()
	b.ADC.CompleteConversion()
	_ = b.ADC.SelectChannel(hal.Channel1)
	_ = b.ADC.StartConversion()
	b.ADC.CompleteConversion()

	v, _ := p.samples.TryReceive()
	if v != 45 {
		t.Errorf("kept sample = %d, want the first value 45", v)
	}
	if got := p.Status().Dropped; got != 1 {
		t.Errorf("Dropped = %d, want 1", got)
	}
}

func TestPinChange(t *testing.T) {
	tests := []struct {
		name        string
		pending     hal.LineMask
		wantRaised  bool
		wantCleared hal.LineMask
		wantLeft    hal.LineMask
	}{
		{"echo only", hal.LineEcho.Mask(), true, hal.LineEcho.Mask(), 0},
		{"toggle only", hal.LineToggle.Mask(), true, hal.LineToggle.Mask(), 0},
		{"both lines", hal.AllLines, true, hal.AllLines, 0},
		{"unmonitored line left alone", 1 << 5, false, 0, 1 << 5},
		{"monitored and unmonitored", hal.LineToggle.Mask() | 1<<5, true, hal.LineToggle.Mask(), 1 << 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := &fakeLines{pending: tt.pending}
			b := newTestBoard(sim.ManualConversion)
			dev := boardDevices(b)
			dev.Lines = lines
			p, err := New(dev, testOptions())
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			p.pinChange()

			if got := p.buttonEvent.Signaled(); got != tt.wantRaised {
				t.Errorf("button event raised = %v, want %v", got, tt.wantRaised)
			}
			if len(lines.cleared) != 1 || lines.cleared[0] != tt.wantCleared {
				t.Errorf("cleared = %v, want [%v]", lines.cleared, tt.wantCleared)
			}
			if lines.pending != tt.wantLeft {
				t.Errorf("pending after ISR = %b, want %b", lines.pending, tt.wantLeft)
			}
		})
	}
}

func TestPinChange_BurstCollapses(t *testing.T) {
	b := newTestBoard(sim.ManualConversion)
	p := newTestPanel(t, b, testOptions())
	b.Buttons.OnEdge(p.pinChange)

	_ = b.Buttons.Glitch(hal.LineEcho)
	_ = b.Buttons.Glitch(hal.LineToggle)
	_ = b.Buttons.Glitch(hal.LineEcho)

	if !p.buttonEvent.TryTake() {
		t.Fatal("button event should be raised")
	}
	if p.buttonEvent.TryTake() {
		t.Error("three edges before the task ran should collapse into one event")
	}
	if b.Buttons.Pending() != 0 {
		t.Errorf("Pending() = %b, want all flags cleared", b.Buttons.Pending())
	}
}

func TestISR_YieldsOnlyWhenATaskWasWoken(t *testing.T) {
	tests := []struct {
		name      string
		blockOn   func(ctx context.Context, p *Panel) error
		isWaiting func(p *Panel) bool
		fire      func(b *sim.Board)
	}{
		{
			name: "conversion wakes sampling",
			blockOn: func(ctx context.Context, p *Panel) error {
				_, err := p.samples.Receive(ctx)
				return err
			},
			isWaiting: func(p *Panel) bool { return p.samples.Waiting() },
			fire: func(b *sim.Board) {
				_ = b.ADC.StartConversion()
				b.ADC.CompleteConversion()
			},
		},
		{
			name: "edge wakes button task",
			blockOn: func(ctx context.Context, p *Panel) error {
				return p.buttonEvent.Wait(ctx)
			},
			isWaiting: func(p *Panel) bool { return p.buttonEvent.Waiting() },
			fire: func(b *sim.Board) {
				_ = b.Buttons.Glitch(hal.LineEcho)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/no waiter", func(t *testing.T) {
			b := newTestBoard(sim.ManualConversion)
			var yields atomic.Int32
			p, err := New(boardDevices(b), testOptions(), WithYield(func() { yields.Add(1) }))
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			b.ADC.OnConversionComplete(p.conversionComplete)
			b.Buttons.OnEdge(p.pinChange)

			tt.fire(b)

			if got := yields.Load(); got != 0 {
				t.Errorf("yields = %d, want 0 with no task blocked", got)
			}
			if got := p.Status().Yields; got != 0 {
				t.Errorf("Status().Yields = %d, want 0", got)
			}
		})

		t.Run(tt.name+"/blocked waiter", func(t *testing.T) {
			b := newTestBoard(sim.ManualConversion)
			var yields atomic.Int32
			p, err := New(boardDevices(b), testOptions(), WithYield(func() { yields.Add(1) }))
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			b.ADC.OnConversionComplete(p.conversionComplete)
			b.Buttons.OnEdge(p.pinChange)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			done := make(chan error, 1)
			go func() { done <- tt.blockOn(ctx, p) }()
			eventually(t, "task to block", func() bool { return tt.isWaiting(p) })

			tt.fire(b)

			if err := <-done; err != nil {
				t.Fatalf("blocked task returned %v, want a wake-up", err)
			}
			if got := yields.Load(); got != 1 {
				t.Errorf("yields = %d, want 1", got)
			}
			if got := p.Status().Yields; got != 1 {
				t.Errorf("Status().Yields = %d, want 1", got)
			}
		})
	}
}
