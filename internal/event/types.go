package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "sample.stored", "channel.selected")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeTaskStarted      = "task.started"
	TypeTaskStopped      = "task.stopped"
	TypeSampleStored     = "sample.stored"
	TypeSampleDropped    = "sample.dropped"
	TypeChannelSelected  = "channel.selected"
	TypeSerialEchoed     = "serial.echoed"
	TypeButtonSpurious   = "button.spurious"
	TypeIndicatorChanged = "indicator.changed"
)

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Task Lifecycle Events
// -----------------------------------------------------------------------------

// TaskStartedEvent is emitted when the scheduler starts a task.
type TaskStartedEvent struct {
	baseEvent
	Task     string
	Priority int
}

// NewTaskStartedEvent creates a TaskStartedEvent.
func NewTaskStartedEvent(task string, priority int) TaskStartedEvent {
	return TaskStartedEvent{
		baseEvent: newBaseEvent(TypeTaskStarted),
		Task:      task,
		Priority:  priority,
	}
}

// TaskStoppedEvent is emitted when a task returns. Err is nil when the task
// stopped because the panel was shut down.
type TaskStoppedEvent struct {
	baseEvent
	Task string
	Err  error
}

// NewTaskStoppedEvent creates a TaskStoppedEvent.
func NewTaskStoppedEvent(task string, err error) TaskStoppedEvent {
	return TaskStoppedEvent{
		baseEvent: newBaseEvent(TypeTaskStopped),
		Task:      task,
		Err:       err,
	}
}

// -----------------------------------------------------------------------------
// Sampling Events
// -----------------------------------------------------------------------------

// SampleStoredEvent is emitted after the sampling task stores a new sample.
// Channel is the channel that was selected when the sample was stored.
type SampleStoredEvent struct {
	baseEvent
	Sample  uint8
	Channel int
}

// NewSampleStoredEvent creates a SampleStoredEvent.
func NewSampleStoredEvent(sample uint8, channel int) SampleStoredEvent {
	return SampleStoredEvent{
		baseEvent: newBaseEvent(TypeSampleStored),
		Sample:    sample,
		Channel:   channel,
	}
}

// SampleDroppedEvent is emitted by the trigger task when it notices that
// conversion results were discarded because the mailbox was full.
type SampleDroppedEvent struct {
	baseEvent
	Dropped uint64 // newly dropped since the previous event
	Total   uint64
}

// NewSampleDroppedEvent creates a SampleDroppedEvent.
func NewSampleDroppedEvent(dropped, total uint64) SampleDroppedEvent {
	return SampleDroppedEvent{
		baseEvent: newBaseEvent(TypeSampleDropped),
		Dropped:   dropped,
		Total:     total,
	}
}

// -----------------------------------------------------------------------------
// Button Events
// -----------------------------------------------------------------------------

// ChannelSelectedEvent is emitted when the toggle button flips the channel.
// The ADC follows on the next sampling iteration.
type ChannelSelectedEvent struct {
	baseEvent
	Previous int
	Current  int
}

// NewChannelSelectedEvent creates a ChannelSelectedEvent.
func NewChannelSelectedEvent(previous, current int) ChannelSelectedEvent {
	return ChannelSelectedEvent{
		baseEvent: newBaseEvent(TypeChannelSelected),
		Previous:  previous,
		Current:   current,
	}
}

// SerialEchoedEvent is emitted when the echo button sends the sample over
// serial. Err is set if the transmit failed.
type SerialEchoedEvent struct {
	baseEvent
	Value uint8
	Err   error
}

// NewSerialEchoedEvent creates a SerialEchoedEvent.
func NewSerialEchoedEvent(value uint8, err error) SerialEchoedEvent {
	return SerialEchoedEvent{
		baseEvent: newBaseEvent(TypeSerialEchoed),
		Value:     value,
		Err:       err,
	}
}

// ButtonSpuriousEvent is emitted when a button event is raised but neither
// line is still low after the debounce delay.
type ButtonSpuriousEvent struct {
	baseEvent
}

// NewButtonSpuriousEvent creates a ButtonSpuriousEvent.
func NewButtonSpuriousEvent() ButtonSpuriousEvent {
	return ButtonSpuriousEvent{baseEvent: newBaseEvent(TypeButtonSpurious)}
}

// -----------------------------------------------------------------------------
// Indicator Events
// -----------------------------------------------------------------------------

// IndicatorChangedEvent is emitted after the indicator task swaps outputs.
type IndicatorChangedEvent struct {
	baseEvent
	Active int
}

// NewIndicatorChangedEvent creates an IndicatorChangedEvent.
func NewIndicatorChangedEvent(active int) IndicatorChangedEvent {
	return IndicatorChangedEvent{
		baseEvent: newBaseEvent(TypeIndicatorChanged),
		Active:    active,
	}
}
