// Package periphio drives the panel's buttons, indicators and display
// through periph.io GPIO pins.
//
// periph.io has no interrupt callbacks, so each button pin gets a watcher
// goroutine blocked in WaitForEdge. When an edge arrives and the line reads
// low, the watcher latches the line's pending flag and calls the edge
// handler, the way a port interrupt would.
//
// The analog inputs have no GPIO equivalent; boards driven through this
// package pair it with a simulated converter.
package periphio
