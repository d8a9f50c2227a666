package panel

import (
	"testing"
	"time"

	"github.com/Iron-Ham/potpanel/internal/event"
	"github.com/Iron-Ham/potpanel/internal/hal"
	"github.com/Iron-Ham/potpanel/internal/hal/sim"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Tick = 200 * time.Microsecond
	opts.TriggerPeriod = 50
	opts.DigitHold = 5
	opts.Debounce = 2
	return opts
}

func newTestBoard(conversion time.Duration) *sim.Board {
	return sim.NewBoard(sim.Options{
		ResolutionBits: 12,
		ConversionTime: conversion,
		Pots:           [2]uint16{45 << 6, 31 << 6},
	})
}

func boardDevices(b *sim.Board) Devices {
	return Devices{
		ADC:        b.ADC,
		Lines:      b.Buttons,
		Display:    b.Display,
		Indicators: b.Indicators,
		Serial:     b.Serial,
	}
}

func newTestPanel(t *testing.T, b *sim.Board, opts Options) *Panel {
	t.Helper()
	p, err := New(boardDevices(b), opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

// collect subscribes to eventType and returns a channel of received events.
func collect(t *testing.T, bus *event.Bus, eventType string) <-chan event.Event {
	t.Helper()
	ch := make(chan event.Event, 64)
	id := bus.Subscribe(eventType, func(e event.Event) {
		select {
		case ch <- e:
		default:
		}
	})
	t.Cleanup(func() { bus.Unsubscribe(id) })
	return ch
}

func receive(t *testing.T, ch <-chan event.Event, what string) event.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		return nil
	}
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(200 * time.Microsecond)
	}
}

// fakeLines is an InputLines whose pending flags are set directly.
type fakeLines struct {
	levels  [2]hal.Level
	pending hal.LineMask
	cleared []hal.LineMask
}

func (f *fakeLines) Level(l hal.Line) hal.Level { return f.levels[l] }
func (f *fakeLines) Pending() hal.LineMask      { return f.pending }
func (f *fakeLines) OnEdge(func())              {}

func (f *fakeLines) ClearPending(mask hal.LineMask) {
	f.cleared = append(f.cleared, mask)
	f.pending &^= mask
}
