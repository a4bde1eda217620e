package core

import (
	"math"
	"strconv"
)

// RupeePrefix is used instead of the rupee sign, which the built-in PDF fonts cannot encode.
const RupeePrefix = "Rs. "

// FormatCount renders a count as an integer, truncating any fractional part.
func FormatCount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatInt(int64(v), 10)
}

// FormatAmount renders a monetary value with the shortest exact representation,
// e.g. 12.5 -> "12.5", 285 -> "285".
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatRupees renders a monetary value with the rupee prefix.
//
// Examples:
//
//	FormatRupees(285)  -> "Rs. 285"
//	FormatRupees(12.5) -> "Rs. 12.5"
func FormatRupees(v float64) string {
	return RupeePrefix + FormatAmount(v)
}

// FormatCrores renders an expenditure value with its crores unit suffix.
func FormatCrores(v float64) string {
	return FormatRupees(v) + " Crores"
}
