// Package event provides a pub-sub event bus for observing the panel.
//
// The panel's tasks coordinate through the store, mailbox and event cells of
// package rtos. They do not use this bus for coordination. The bus carries
// telemetry: a task publishes what it just did, and the CLI, the TUI, the
// log and the tests subscribe without the tasks depending on them.
//
// # Main Types
//
//   - [Event]: Interface that all events implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub dispatcher, safe for concurrent use
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// Task lifecycle:
//   - [TaskStartedEvent], [TaskStoppedEvent]
//
// Sampling:
//   - [SampleStoredEvent]: a new scaled sample was stored
//   - [SampleDroppedEvent]: conversions were discarded on a full mailbox
//
// Buttons:
//   - [ChannelSelectedEvent]: the toggle button flipped the channel
//   - [SerialEchoedEvent]: the echo button sent the sample
//   - [ButtonSpuriousEvent]: a press did not survive debouncing
//
// Indicators:
//   - [IndicatorChangedEvent]: the indicator outputs were swapped
//
// # Basic Usage
//
//	bus := event.NewBus()
//	bus.Subscribe(event.TypeSampleStored, func(e event.Event) {
//	    s := e.(event.SampleStoredEvent)
//	    fmt.Println(s.Sample, s.Channel)
//	})
//	bus.Publish(event.NewSampleStoredEvent(45, 0))
package event
