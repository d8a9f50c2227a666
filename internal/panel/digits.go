package panel

// Scale reduces a raw conversion result to a sample by discarding the low
// shift bits. Bits above the low byte are dropped.
func Scale(raw uint16, shift uint) Sample {
	return Sample(raw >> shift)
}

// SplitDigits returns the tens and units of v. Values of 100 and above keep
// only their last two decimal digits, so 137 splits into 3 and 7.
func SplitDigits(v Sample) (high, low uint8) {
	n := uint8(v) % 100
	high = n / 10
	low = n - high*10
	return high, low
}
