package sim

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	perrors "github.com/Iron-Ham/potpanel/internal/errors"
	"github.com/Iron-Ham/potpanel/internal/hal"
)

func TestADC_ConversionSamplesSelectedPot(t *testing.T) {
	adc := NewADC(12, ManualConversion)
	_ = adc.SetPot(hal.Channel0, 2880)
	_ = adc.SetPot(hal.Channel1, 1000)

	var completions atomic.Int32
	adc.OnConversionComplete(func() { completions.Add(1) })

	if err := adc.StartConversion(); err != nil {
		t.Fatalf("StartConversion() error = %v", err)
	}
	// Changing the input after the conversion started does not change it.
	_ = adc.SelectChannel(hal.Channel1)

	if !adc.CompleteConversion() {
		t.Fatal("CompleteConversion() should find the held conversion")
	}
	if adc.Result() != 2880 {
		t.Errorf("Result() = %d, want 2880", adc.Result())
	}
	if completions.Load() != 1 {
		t.Errorf("completion handler called %d times, want 1", completions.Load())
	}

	_ = adc.StartConversion()
	adc.CompleteConversion()
	if adc.Result() != 1000 {
		t.Errorf("Result() after switching = %d, want 1000", adc.Result())
	}
	if adc.CompleteConversion() {
		t.Error("CompleteConversion() with nothing held should return false")
	}
	if adc.Started() != 2 || adc.Completed() != 2 {
		t.Errorf("Started()=%d Completed()=%d, want 2/2", adc.Started(), adc.Completed())
	}
}

func TestADC_TimedConversion(t *testing.T) {
	adc := NewADC(12, time.Millisecond)
	_ = adc.SetPot(hal.Channel0, 123)

	done := make(chan struct{})
	adc.OnConversionComplete(func() { close(done) })
	_ = adc.StartConversion()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed conversion never completed")
	}
	if adc.Result() != 123 {
		t.Errorf("Result() = %d, want 123", adc.Result())
	}
}

func TestADC_SetPotClamps(t *testing.T) {
	adc := NewADC(12, ManualConversion)
	_ = adc.SetPot(hal.Channel0, 9000)
	if adc.Pot(hal.Channel0) != 4095 {
		t.Errorf("Pot() = %d, want clamp to 4095", adc.Pot(hal.Channel0))
	}
	if adc.Max() != 4095 {
		t.Errorf("Max() = %d, want 4095", adc.Max())
	}
}

func TestADC_InvalidChannel(t *testing.T) {
	adc := NewADC(12, ManualConversion)

	err := adc.SelectChannel(2)
	if !perrors.Is(err, perrors.ErrInvalidChannel) {
		t.Errorf("SelectChannel(2) error = %v, want ErrInvalidChannel", err)
	}
	var devErr *perrors.DeviceError
	if !perrors.As(err, &devErr) || devErr.Device != "adc" {
		t.Errorf("SelectChannel(2) error = %v, want adc DeviceError", err)
	}
}

func TestButtons_PressLatchesAndInterrupts(t *testing.T) {
	b := NewButtons()

	var edges int
	b.OnEdge(func() { edges++ })

	if b.Level(hal.LineEcho) != hal.High {
		t.Fatal("lines should start released")
	}
	_ = b.Press(hal.LineEcho)

	if edges != 1 {
		t.Errorf("edge handler called %d times, want 1", edges)
	}
	if !b.Level(hal.LineEcho).Pressed() {
		t.Error("pressed line should read low")
	}
	if !b.Pending().Has(hal.LineEcho) || b.Pending().Has(hal.LineToggle) {
		t.Errorf("Pending() = %02b, want only echo", b.Pending())
	}

	// Holding a pressed line is not another edge.
	_ = b.Press(hal.LineEcho)
	if edges != 1 {
		t.Errorf("second press of a held line interrupted again")
	}

	b.ClearPending(hal.LineEcho.Mask())
	if b.Pending() != 0 {
		t.Errorf("Pending() after clear = %02b, want 0", b.Pending())
	}

	_ = b.Release(hal.LineEcho)
	if b.Level(hal.LineEcho) != hal.High {
		t.Error("released line should read high")
	}
	if edges != 1 {
		t.Error("rising edges should not interrupt")
	}
}

func TestButtons_Glitch(t *testing.T) {
	b := NewButtons()
	var edges int
	b.OnEdge(func() { edges++ })

	_ = b.Glitch(hal.LineToggle)

	if edges != 1 {
		t.Errorf("edge handler called %d times, want 1", edges)
	}
	if b.Level(hal.LineToggle).Pressed() {
		t.Error("a glitch leaves the line released")
	}
	if !b.Pending().Has(hal.LineToggle) {
		t.Error("a glitch latches the pending flag")
	}
}

func TestButtons_PressFor(t *testing.T) {
	b := NewButtons()
	_ = b.PressFor(hal.LineToggle, 5*time.Millisecond)

	if !b.Level(hal.LineToggle).Pressed() {
		t.Fatal("line should be pressed immediately")
	}
	deadline := time.Now().Add(time.Second)
	for b.Level(hal.LineToggle).Pressed() {
		if time.Now().After(deadline) {
			t.Fatal("line was never released")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestButtons_UnknownLine(t *testing.T) {
	b := NewButtons()
	if err := b.Press(7); !errors.Is(err, perrors.ErrUnknownLine) {
		t.Errorf("Press(7) error = %v, want ErrUnknownLine", err)
	}
	if b.Level(7) != hal.High {
		t.Error("unknown lines read high")
	}
}

func TestDisplay_WritesSelectedPosition(t *testing.T) {
	d := NewDisplay()

	_ = d.SelectDigit(hal.PositionA)
	_ = d.WriteDigit(5)
	_ = d.SelectDigit(hal.PositionB)
	_ = d.WriteDigit(4)

	if got, ok := d.Shown(hal.PositionA); !ok || got != 5 {
		t.Errorf("Shown(A) = %d, %v; want 5", got, ok)
	}
	if got, ok := d.Shown(hal.PositionB); !ok || got != 4 {
		t.Errorf("Shown(B) = %d, %v; want 4", got, ok)
	}
	if d.Selected() != hal.PositionB {
		t.Errorf("Selected() = %v, want B", d.Selected())
	}

	h := d.History()
	want := []DigitWrite{{hal.PositionA, 5}, {hal.PositionB, 4}}
	if len(h) != len(want) || h[0] != want[0] || h[1] != want[1] {
		t.Errorf("History() = %v, want %v", h, want)
	}
}

func TestDisplay_HistoryBounded(t *testing.T) {
	d := NewDisplay()
	for i := range historySize + 10 {
		_ = d.WriteDigit(uint8(i % 10))
	}
	h := d.History()
	if len(h) != historySize {
		t.Fatalf("len(History()) = %d, want %d", len(h), historySize)
	}
	if last := h[len(h)-1].Digit; last != uint8((historySize+9)%10) {
		t.Errorf("newest entry = %d, want %d", last, (historySize+9)%10)
	}
	if d.Writes() != historySize+10 {
		t.Errorf("Writes() = %d, want %d", d.Writes(), historySize+10)
	}
}

func TestDisplay_RejectsBadDigit(t *testing.T) {
	d := NewDisplay()
	if err := d.WriteDigit(10); !errors.Is(err, perrors.ErrInvalidDigit) {
		t.Errorf("WriteDigit(10) error = %v, want ErrInvalidDigit", err)
	}
}

func TestIndicators(t *testing.T) {
	ind := NewIndicators()
	if _, ok := ind.Active(); ok {
		t.Error("no indicator should be active initially")
	}

	_ = ind.Activate(hal.Indicator1)
	if id, ok := ind.Active(); !ok || id != hal.Indicator1 {
		t.Errorf("Active() = %d, %v; want 1", id, ok)
	}

	_ = ind.Activate(hal.Indicator0)
	if _, ok := ind.Active(); ok {
		t.Error("two lit outputs should not report a single active one")
	}
	_ = ind.Deactivate(hal.Indicator1)
	if id, ok := ind.Active(); !ok || id != hal.Indicator0 {
		t.Errorf("Active() = %d, %v; want 0", id, ok)
	}
	if ind.Changes() != 3 {
		t.Errorf("Changes() = %d, want 3", ind.Changes())
	}
}

func TestSerial(t *testing.T) {
	s := NewSerial()

	if err := s.WriteByte(45); err != nil {
		t.Fatalf("WriteByte() error = %v", err)
	}
	select {
	case b := <-s.Bytes():
		if b != 45 {
			t.Errorf("Bytes() delivered %d, want 45", b)
		}
	default:
		t.Error("Bytes() should deliver the written byte")
	}

	busy := errors.New("tx busy")
	s.Fail(busy)
	if err := s.WriteByte(1); !errors.Is(err, busy) {
		t.Errorf("WriteByte() error = %v, want %v", err, busy)
	}
	s.Fail(nil)
	_ = s.WriteByte(2)

	if got := s.Sent(); len(got) != 2 || got[0] != 45 || got[1] != 2 {
		t.Errorf("Sent() = %v, want [45 2]", got)
	}
}

func TestNewBoard(t *testing.T) {
	b := NewBoard(Options{ResolutionBits: 12, ConversionTime: ManualConversion, Pots: [2]uint16{2880, 1984}})
	if b.ADC.Pot(hal.Channel0) != 2880 || b.ADC.Pot(hal.Channel1) != 1984 {
		t.Errorf("pots = %d/%d, want 2880/1984", b.ADC.Pot(hal.Channel0), b.ADC.Pot(hal.Channel1))
	}
	if b.Buttons == nil || b.Display == nil || b.Indicators == nil || b.Serial == nil {
		t.Error("every device should be created")
	}
}
