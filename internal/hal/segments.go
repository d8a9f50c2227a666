package hal

import (
	"strings"

	"github.com/Iron-Ham/potpanel/internal/errors"
)

// Segments is a seven-segment pattern. Bit 0 is segment a, bit 6 is g.
//
//	 aaa
//	f   b
//	 ggg
//	e   c
//	 ddd
type Segments uint8

const (
	SegA Segments = 1 << iota
	SegB
	SegC
	SegD
	SegE
	SegF
	SegG
)

var digitSegments = [10]Segments{
	SegA | SegB | SegC | SegD | SegE | SegF,        // 0
	SegB | SegC,                                    // 1
	SegA | SegB | SegD | SegE | SegG,               // 2
	SegA | SegB | SegC | SegD | SegG,               // 3
	SegB | SegC | SegF | SegG,                      // 4
	SegA | SegC | SegD | SegF | SegG,               // 5
	SegA | SegC | SegD | SegE | SegF | SegG,        // 6
	SegA | SegB | SegC,                             // 7
	SegA | SegB | SegC | SegD | SegE | SegF | SegG, // 8
	SegA | SegB | SegC | SegD | SegF | SegG,        // 9
}

// EncodeDigit returns the pattern for a decimal digit.
func EncodeDigit(d uint8) (Segments, error) {
	if d > 9 {
		return 0, errors.NewValidationError("digit out of range").
			WithField("digit").
			WithValue(d).
			WithCause(errors.ErrInvalidDigit)
	}
	return digitSegments[d], nil
}

// DecodeSegments returns the digit a pattern shows, if any.
func DecodeSegments(s Segments) (uint8, bool) {
	for d, pattern := range digitSegments {
		if pattern == s {
			return uint8(d), true
		}
	}
	return 0, false
}

// Lit reports whether segment seg is on.
func (s Segments) Lit(seg Segments) bool {
	return s&seg != 0
}

// String renders the pattern as three text rows.
func (s Segments) String() string {
	on := func(seg Segments, r string) string {
		if s.Lit(seg) {
			return r
		}
		return " "
	}
	var sb strings.Builder
	sb.WriteString(" " + on(SegA, "_") + " \n")
	sb.WriteString(on(SegF, "|") + on(SegG, "_") + on(SegB, "|") + "\n")
	sb.WriteString(on(SegE, "|") + on(SegD, "_") + on(SegC, "|"))
	return sb.String()
}
