package emath

import "math"

// Some functions that only operate on basic types, that are useful

func Clamp(f, min, max float64) float64 {
	if f < min { return min }
	if f > max { return max }
	return f
}

// Quantize8 maps a unit float onto the 8-bit level it would be
// written out as, i.e. round(f*255) after clipping to [0,1].
func Quantize8(f float64) uint8 {
	return uint8(math.Round(Clamp(f, 0.0, 1.0) * 255.0))
}

// Quantize16 is the same thing, for 16-bit output.
func Quantize16(f float64) uint16 {
	return uint16(math.Round(Clamp(f, 0.0, 1.0) * float64(0xFFFF)))
}

func ClampInt(i, min, max int) int {
	if i < min { return min }
	if i > max { return max }
	return i
}
