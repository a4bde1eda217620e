package core

import (
	"strconv"
	"strings"
)

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// MonthNumber resolves a month label to 1..12.
//
// Accepts full English names ("March"), three-letter abbreviations ("Mar"),
// and numeric labels ("03", "3"). Returns 0 when the label is not recognised.
func MonthNumber(label string) int {
	s := strings.ToLower(strings.TrimSpace(label))
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return n
		}
		return 0
	}
	for i, name := range monthNames {
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return i + 1
		}
	}
	return 0
}
