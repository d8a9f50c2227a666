// Package tui is the interactive front panel for the simulated board.
//
// It renders the two display digits as seven-segment glyphs, shows the lit
// indicator and the selected input, and streams panel events. Keys press
// the simulated buttons and turn the simulated potentiometers.
package tui
