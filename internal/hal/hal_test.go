package hal

import (
	"testing"

	"github.com/Iron-Ham/potpanel/internal/errors"
)

func TestEncodeDigit_RoundTrip(t *testing.T) {
	seen := make(map[Segments]uint8)
	for d := uint8(0); d <= 9; d++ {
		s, err := EncodeDigit(d)
		if err != nil {
			t.Fatalf("EncodeDigit(%d) error = %v", d, err)
		}
		if prev, dup := seen[s]; dup {
			t.Errorf("digits %d and %d share pattern %07b", prev, d, s)
		}
		seen[s] = d

		got, ok := DecodeSegments(s)
		if !ok || got != d {
			t.Errorf("DecodeSegments(EncodeDigit(%d)) = %d, %v", d, got, ok)
		}
	}
}

func TestEncodeDigit_OutOfRange(t *testing.T) {
	_, err := EncodeDigit(10)
	if !errors.Is(err, errors.ErrInvalidDigit) {
		t.Errorf("EncodeDigit(10) error = %v, want ErrInvalidDigit", err)
	}
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("EncodeDigit(10) error = %v, want ErrInvalidInput", err)
	}
}

func TestDecodeSegments_Blank(t *testing.T) {
	if _, ok := DecodeSegments(0); ok {
		t.Error("blank pattern should not decode to a digit")
	}
}

func TestSegments_String(t *testing.T) {
	s, _ := EncodeDigit(8)
	want := " _ \n|_|\n|_|"
	if s.String() != want {
		t.Errorf("String() = %q, want %q", s.String(), want)
	}

	one, _ := EncodeDigit(1)
	want = "   \n  |\n  |"
	if one.String() != want {
		t.Errorf("String() = %q, want %q", one.String(), want)
	}
}

func TestLineMask(t *testing.T) {
	tests := []struct {
		mask       LineMask
		echo, togg bool
	}{
		{0, false, false},
		{LineEcho.Mask(), true, false},
		{LineToggle.Mask(), false, true},
		{AllLines, true, true},
	}

	for _, tt := range tests {
		if got := tt.mask.Has(LineEcho); got != tt.echo {
			t.Errorf("%02b.Has(echo) = %v, want %v", tt.mask, got, tt.echo)
		}
		if got := tt.mask.Has(LineToggle); got != tt.togg {
			t.Errorf("%02b.Has(toggle) = %v, want %v", tt.mask, got, tt.togg)
		}
	}
}

func TestOther(t *testing.T) {
	if Channel0.Other() != Channel1 || Channel1.Other() != Channel0 {
		t.Error("Channel.Other should flip 0 and 1")
	}
	if Indicator0.Other() != Indicator1 || Indicator1.Other() != Indicator0 {
		t.Error("Indicator.Other should flip 0 and 1")
	}
	if Channel(2).Valid() {
		t.Error("Channel(2) should not be valid")
	}
}

func TestLevel_Pressed(t *testing.T) {
	if !Low.Pressed() {
		t.Error("a low line is pressed")
	}
	if High.Pressed() {
		t.Error("a high line is released")
	}
}
