// Package conv holds allocation-light number-to-text helpers used by log
// and event formatting on MCU builds, where fmt/strconv are too heavy.
package conv

// Itoa writes the base-10 representation of n into buf and returns the used
// slice. buf should be length >= 20 for int64; negative numbers supported.
func Itoa(buf []byte, n int64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	neg := n < 0
	var u uint64
	if neg {
		u = uint64(-n)
	} else {
		u = uint64(n)
	}
	i := writeDigits(buf, u)
	if neg && i > 0 {
		i--
		buf[i] = '-'
	}
	return buf[i:]
}

// Utoa writes the base-10 representation of n into buf and returns the used
// slice. buf should be length >= 20 for uint64.
func Utoa(buf []byte, n uint64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	return buf[writeDigits(buf, n):]
}

// writeDigits fills buf from the end and returns the first used index.
func writeDigits(buf []byte, u uint64) int {
	i := len(buf)
	if u == 0 {
		i--
		buf[i] = '0'
		return i
	}
	for u > 0 && i > 0 {
		i--
		buf[i] = byte('0' + (u % 10))
		u /= 10
	}
	return i
}
