// Package panel is the coordination core of the potentiometer panel.
//
// Five tasks share two values and three signals:
//
//	trigger    starts a conversion every TriggerPeriod ticks
//	sampling   receives each converted sample, stores it and reselects the
//	           analog input
//	button     debounces a button event, then echoes the sample over
//	           serial or flips the selected input
//	output     multiplexes the sample onto the two display digits
//	indicator  swaps the indicator outputs after each input flip
//
// Two interrupt handlers feed them: the conversion-complete handler scales
// the raw result and posts it to a single-slot mailbox, and the pin-change
// handler raises the button event.
//
// The current sample and the selected input live in a [Store], each behind
// its own guard. No code path holds both guards.
package panel
