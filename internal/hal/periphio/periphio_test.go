package periphio

import (
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/Iron-Ham/potpanel/internal/config"
	"github.com/Iron-Ham/potpanel/internal/errors"
	"github.com/Iron-Ham/potpanel/internal/hal"
)

func newButtonPin(name string) *gpiotest.Pin {
	return &gpiotest.Pin{N: name, EdgesChan: make(chan gpio.Level, 1)}
}

func TestButtons_FallingEdgeLatchesAndCallsHandler(t *testing.T) {
	echo, toggle := newButtonPin("SW3"), newButtonPin("SW4")

	b, err := NewButtons(echo, toggle, nil)
	if err != nil {
		t.Fatalf("NewButtons() error = %v", err)
	}
	defer func() { _ = b.Close() }()

	if echo.P != gpio.PullUp {
		t.Errorf("echo pull = %v, want PullUp", echo.P)
	}
	if b.Level(hal.LineEcho) != hal.High {
		t.Error("pull-up lines should idle high")
	}

	fired := make(chan struct{}, 1)
	b.OnEdge(func() { fired <- struct{}{} })

	toggle.EdgesChan <- gpio.Low

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("edge handler not called")
	}
	if !b.Pending().Has(hal.LineToggle) || b.Pending().Has(hal.LineEcho) {
		t.Errorf("Pending() = %02b, want only toggle", b.Pending())
	}
	if !b.Level(hal.LineToggle).Pressed() {
		t.Error("toggle should read pressed")
	}

	b.ClearPending(hal.LineToggle.Mask())
	if b.Pending() != 0 {
		t.Errorf("Pending() after clear = %02b", b.Pending())
	}
}

func TestButtons_RisingEdgeIgnored(t *testing.T) {
	echo, toggle := newButtonPin("SW3"), newButtonPin("SW4")
	b, err := NewButtons(echo, toggle, nil)
	if err != nil {
		t.Fatalf("NewButtons() error = %v", err)
	}
	defer func() { _ = b.Close() }()

	called := make(chan struct{}, 1)
	b.OnEdge(func() { called <- struct{}{} })

	echo.EdgesChan <- gpio.High

	select {
	case <-called:
		t.Error("a line that reads high after the edge should not interrupt")
	case <-time.After(50 * time.Millisecond):
	}
	if b.Pending() != 0 {
		t.Errorf("Pending() = %02b, want 0", b.Pending())
	}
}

func TestNewButtons_NoEdgeSupport(t *testing.T) {
	_, err := NewButtons(&gpiotest.Pin{N: "plain"}, newButtonPin("SW4"), nil)
	var devErr *errors.DeviceError
	if !errors.As(err, &devErr) {
		t.Fatalf("NewButtons() error = %v, want DeviceError", err)
	}
}

func TestIndicators(t *testing.T) {
	led3, led4 := &gpiotest.Pin{N: "LED3", L: gpio.High}, &gpiotest.Pin{N: "LED4", L: gpio.High}

	ind, err := NewIndicators([2]gpio.PinIO{led3, led4})
	if err != nil {
		t.Fatalf("NewIndicators() error = %v", err)
	}
	if led3.L != gpio.Low || led4.L != gpio.Low {
		t.Error("indicators should start off")
	}

	_ = ind.Activate(hal.Indicator1)
	if led4.L != gpio.High || led3.L != gpio.Low {
		t.Errorf("after Activate(1): led3=%v led4=%v", led3.L, led4.L)
	}
	_ = ind.Deactivate(hal.Indicator1)
	_ = ind.Activate(hal.Indicator0)
	if led3.L != gpio.High || led4.L != gpio.Low {
		t.Errorf("after swap: led3=%v led4=%v", led3.L, led4.L)
	}
	if err := ind.Activate(5); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("Activate(5) error = %v, want ErrInvalidInput", err)
	}
}

func newDisplay(t *testing.T) (*Display, [7]*gpiotest.Pin, [2]*gpiotest.Pin) {
	t.Helper()
	var segs [7]*gpiotest.Pin
	var segIO [7]gpio.PinIO
	for i := range segs {
		segs[i] = &gpiotest.Pin{N: string(rune('a' + i))}
		segIO[i] = segs[i]
	}
	enables := [2]*gpiotest.Pin{{N: "DIG_A"}, {N: "DIG_B"}}

	d, err := NewDisplay(segIO, [2]gpio.PinIO{enables[0], enables[1]})
	if err != nil {
		t.Fatalf("NewDisplay() error = %v", err)
	}
	return d, segs, enables
}

func TestDisplay_WriteDigitDrivesSegments(t *testing.T) {
	d, segs, enables := newDisplay(t)

	if err := d.SelectDigit(hal.PositionA); err != nil {
		t.Fatalf("SelectDigit() error = %v", err)
	}
	if enables[0].L != gpio.High || enables[1].L != gpio.Low {
		t.Errorf("enables = %v/%v, want A on", enables[0].L, enables[1].L)
	}

	if err := d.WriteDigit(4); err != nil {
		t.Fatalf("WriteDigit() error = %v", err)
	}
	// 4 lights b, c, f, g.
	want := [7]gpio.Level{gpio.Low, gpio.High, gpio.High, gpio.Low, gpio.Low, gpio.High, gpio.High}
	for i, p := range segs {
		if p.L != want[i] {
			t.Errorf("segment %s = %v, want %v", p.N, p.L, want[i])
		}
	}

	_ = d.SelectDigit(hal.PositionB)
	if enables[0].L != gpio.Low || enables[1].L != gpio.High {
		t.Errorf("enables = %v/%v, want B on", enables[0].L, enables[1].L)
	}
}

func TestDisplay_RejectsBadDigit(t *testing.T) {
	d, _, _ := newDisplay(t)
	if err := d.WriteDigit(12); !errors.Is(err, errors.ErrInvalidDigit) {
		t.Errorf("WriteDigit(12) error = %v, want ErrInvalidDigit", err)
	}
}

func TestOpenWith(t *testing.T) {
	pins := map[string]gpio.PinIO{}
	cfg := config.Default().GPIO
	for _, n := range append(append(append([]string{}, cfg.IndicatorPins...), cfg.SegmentPins...), cfg.DigitPins...) {
		pins[n] = &gpiotest.Pin{N: n}
	}
	pins[cfg.EchoPin] = newButtonPin(cfg.EchoPin)
	pins[cfg.TogglePin] = newButtonPin(cfg.TogglePin)

	resolve := func(name string) gpio.PinIO { return pins[name] }

	board, err := OpenWith(cfg, resolve, nil)
	if err != nil {
		t.Fatalf("OpenWith() error = %v", err)
	}
	if err := board.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	delete(pins, cfg.DigitPins[1])
	_, err = OpenWith(cfg, resolve, nil)
	if !errors.Is(err, errors.ErrDeviceUnavailable) {
		t.Errorf("OpenWith() with a missing pin error = %v, want ErrDeviceUnavailable", err)
	}

	cfg.SegmentPins = cfg.SegmentPins[:3]
	_, err = OpenWith(cfg, resolve, nil)
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("OpenWith() with 3 segments error = %v, want ErrInvalidInput", err)
	}
}
