package model

import (
	"math"
	"strconv"
	"strings"
)

// formatNumber prints v with the fewest digits that round-trip, without an
// exponent: 8 -> "8", 7.25 -> "7.25".
func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// roundHalfUp rounds to the nearest integer, ties toward positive infinity.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// FormatFixed2 formats v with exactly two decimals. Ties in the exact binary
// value round away from zero, so 0.125 prints as "0.13".
func FormatFixed2(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= 1e16 {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	neg := v < 0
	if neg {
		v = -v
	}

	// 30 places is far past the last significant digit of any value in range,
	// so the third decimal decides the rounding direction on its own.
	s := strconv.FormatFloat(v, 'f', 30, 64)
	dot := strings.IndexByte(s, '.')
	cents, err := strconv.ParseInt(s[:dot]+s[dot+1:dot+3], 10, 64)
	if err != nil {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	if s[dot+3] >= '5' {
		cents++
	}

	out := strconv.FormatInt(cents/100, 10) + "." + pad2(cents%100)
	if neg && cents != 0 {
		out = "-" + out
	}
	return out
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
