package utils

import "golang.org/x/exp/constraints"

// Clamp returns value limited to [min, max].
func Clamp[T constraints.Integer | constraints.Float](min, value, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// FormatASCII returns b as a printable character, or "." when it has
// no printable form.
func FormatASCII(b byte) string {
	if b < 0x20 || b > 0x7E {
		return "."
	}
	return string(rune(b))
}
