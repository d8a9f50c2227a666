package panel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Iron-Ham/potpanel/internal/hal"
)

func TestStore_Defaults(t *testing.T) {
	s := NewStore(hal.Channel1)
	if s.Sample() != 0 {
		t.Errorf("Sample() = %d, want 0", s.Sample())
	}
	if s.Channel() != hal.Channel1 {
		t.Errorf("Channel() = %d, want 1", s.Channel())
	}
}

func TestStore_ToggleChannel(t *testing.T) {
	s := NewStore(hal.Channel0)

	tests := []struct {
		wantPrev, wantNext hal.Channel
	}{
		{hal.Channel0, hal.Channel1},
		{hal.Channel1, hal.Channel0},
		{hal.Channel0, hal.Channel1},
	}
	for i, tt := range tests {
		prev, next := s.ToggleChannel()
		if prev != tt.wantPrev || next != tt.wantNext {
			t.Errorf("toggle %d = (%d, %d), want (%d, %d)", i, prev, next, tt.wantPrev, tt.wantNext)
		}
	}
	if s.Channel() != hal.Channel1 {
		t.Errorf("Channel() = %d after three toggles, want 1", s.Channel())
	}
}

func TestStore_ConcurrentTogglesAreNotLost(t *testing.T) {
	s := NewStore(hal.Channel0)

	var wg sync.WaitGroup
	for range 100 {
		wg.Go(func() { s.ToggleChannel() })
	}
	wg.Wait()

	// An even number of toggles returns to the starting input.
	if s.Channel() != hal.Channel0 {
		t.Errorf("Channel() = %d after 100 toggles, want 0", s.Channel())
	}
}

func TestStore_WithSampleHoldsGuard(t *testing.T) {
	s := NewStore(hal.Channel0)
	s.SetSample(45)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A writer hammers the sample while the echo runs.
	var writes atomic.Uint64
	done := make(chan struct{})
	go func() {
		defer close(done)
		for v := Sample(0); ctx.Err() == nil; v++ {
			s.SetSample(v)
			writes.Add(1)
		}
	}()

	for range 50 {
		err := s.WithSample(func(v Sample) error {
			before := writes.Load()
			time.Sleep(100 * time.Microsecond)
			if got := s.sample; got != v {
				t.Errorf("sample changed from %d to %d while guarded", v, got)
			}
			if writes.Load() > before+1 {
				t.Errorf("writer completed %d writes while guarded", writes.Load()-before)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("WithSample() error = %v", err)
		}
	}
	cancel()
	<-done
}

func TestStore_WithSampleReturnsError(t *testing.T) {
	s := NewStore(hal.Channel0)
	boom := errors.New("boom")
	if err := s.WithSample(func(Sample) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("WithSample() error = %v, want %v", err, boom)
	}
	// The guard is released after an error.
	s.SetSample(7)
	if s.Sample() != 7 {
		t.Errorf("Sample() = %d, want 7", s.Sample())
	}
}

func TestStore_GuardsAreIndependent(t *testing.T) {
	s := NewStore(hal.Channel0)

	released := make(chan struct{})
	held := make(chan struct{})
	go func() {
		_ = s.WithSample(func(Sample) error {
			close(held)
			<-released
			return nil
		})
	}()
	<-held

	toggled := make(chan struct{})
	go func() {
		s.ToggleChannel()
		close(toggled)
	}()

	select {
	case <-toggled:
	case <-time.After(time.Second):
		t.Fatal("toggling the channel blocked on the sample guard")
	}
	close(released)
}

func TestStore_ReadersSeeOnlyWrittenSamples(t *testing.T) {
	s := NewStore(hal.Channel0)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Go(func() {
		// Only even values below 100 are ever stored.
		for v := Sample(0); ctx.Err() == nil; v = (v + 2) % 100 {
			s.SetSample(v)
		}
	})

	for range 100000 {
		if v := s.Sample(); v%2 != 0 || v >= 100 {
			cancel()
			wg.Wait()
			t.Fatalf("Sample() = %d, a value never written", v)
		}
	}
	cancel()
	wg.Wait()
}
