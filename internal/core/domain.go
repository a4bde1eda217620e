// Package core provides the domain types for district employment statistics.
//
// Both entities are populated by an external ingestion process; this package
// only describes their shape and the ordering rules used for trend display.
package core

import (
	"errors"
	"sort"
)

var (
	// ErrDistrictRequired is returned when a lookup is attempted without a district name.
	ErrDistrictRequired = errors.New("district is required")
	// ErrDistrictNotFound is returned when no snapshot row exists for a district.
	ErrDistrictNotFound = errors.New("no data found for this district")
)

// Snapshot is the most recent reporting-period row for a district.
type Snapshot struct {
	District          string
	Month             string
	Year              int
	Persondays        float64
	Expenditure       float64 // crores
	AvgWage           float64
	ProjectsCompleted float64
	ActiveWorkers     float64
	LastUpdated       string
}

// MonthlyRecord is one historical reporting-period row for a district.
type MonthlyRecord struct {
	Month             string
	Year              int
	Persondays        float64
	Expenditure       float64
	ProjectsCompleted float64
	ActiveWorkers     float64
}

// DistrictSummary is the per-district slice of the snapshot used for comparisons.
type DistrictSummary struct {
	District    string
	Persondays  float64
	Expenditure float64
}

// DistrictReport bundles a snapshot with its monthly series.
// The two are maintained independently upstream and may drift.
type DistrictReport struct {
	Snapshot Snapshot
	Monthly  []MonthlyRecord
}

// SortMonthly orders records by year, then calendar month.
// Months that cannot be resolved sort after known months of the same year, by name.
func SortMonthly(records []MonthlyRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		ma, mb := MonthNumber(a.Month), MonthNumber(b.Month)
		switch {
		case ma == 0 && mb == 0:
			return a.Month < b.Month
		case ma == 0:
			return false
		case mb == 0:
			return true
		}
		return ma < mb
	})
}
