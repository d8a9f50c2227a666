package panel

import (
	"sync"

	"github.com/Iron-Ham/potpanel/internal/hal"
)

// Sample is a scaled conversion result.
type Sample uint8

// Store holds the values shared between tasks. Each value has its own
// guard and no method takes both.
type Store struct {
	sampleMu sync.Mutex
	sample   Sample

	channelMu sync.Mutex
	channel   hal.Channel
}

// NewStore returns a store with a zero sample and the given input selected.
func NewStore(initial hal.Channel) *Store {
	return &Store{channel: initial}
}

// SetSample replaces the current sample.
func (s *Store) SetSample(v Sample) {
	s.sampleMu.Lock()
	s.sample = v
	s.sampleMu.Unlock()
}

// Sample returns the current sample.
func (s *Store) Sample() Sample {
	s.sampleMu.Lock()
	defer s.sampleMu.Unlock()
	return s.sample
}

// WithSample calls fn with the current sample while holding the sample
// guard, so the sample cannot change until fn returns. The serial echo uses
// this to transmit the exact cached byte.
func (s *Store) WithSample(fn func(Sample) error) error {
	s.sampleMu.Lock()
	defer s.sampleMu.Unlock()
	return fn(s.sample)
}

// SetChannel selects an analog input.
func (s *Store) SetChannel(c hal.Channel) {
	s.channelMu.Lock()
	s.channel = c
	s.channelMu.Unlock()
}

// Channel returns the selected analog input.
func (s *Store) Channel() hal.Channel {
	s.channelMu.Lock()
	defer s.channelMu.Unlock()
	return s.channel
}

// ToggleChannel flips the selected input under one guard acquisition and
// returns the selection before and after.
func (s *Store) ToggleChannel() (prev, next hal.Channel) {
	s.channelMu.Lock()
	defer s.channelMu.Unlock()
	prev = s.channel
	s.channel = prev.Other()
	return prev, s.channel
}
