// Package sim implements the hal devices in memory.
//
// The simulated converter samples a potentiometer value when a conversion
// starts and calls the completion handler from its own goroutine after the
// configured conversion time, the way the peripheral raises its interrupt.
// Button presses latch pending flags and call the edge handler from the
// caller's goroutine. Display, indicators and serial record what the panel
// drove so tests and the TUI can inspect it.
package sim
