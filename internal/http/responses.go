// Package http provides HTTP server and handler implementations.
//
// This file holds the JSON response models. Handlers build one of these
// values and hand it to writeJSON, which is the only serialization step.

package http

import (
	"net/http"

	"github.com/goccy/go-json"

	"mgnrega/internal/core"
)

const (
	msgDistrictParamRequired = "district param required"
	msgDistrictRequired      = "district required"
	msgNoData                = "No data found for this district."
	msgInternal              = "internal server error"
	msgRateLimited           = "rate limit exceeded"
	msgStoreUnavailable      = "store unavailable"
)

// ErrorResponse is the body of every JSON error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MonthlyEntry is one point of a district's trend series.
type MonthlyEntry struct {
	Month             string  `json:"month"`
	Year              int     `json:"year"`
	Persondays        float64 `json:"persondays"`
	Expenditure       float64 `json:"expenditure"`
	ProjectsCompleted float64 `json:"projects_completed"`
	ActiveWorkers     float64 `json:"active_workers"`
}

// DetailResponse is the flat snapshot plus the monthly series.
type DetailResponse struct {
	District          string         `json:"district"`
	Month             string         `json:"month"`
	Year              int            `json:"year"`
	Persondays        float64        `json:"persondays"`
	Expenditure       float64        `json:"expenditure"`
	AvgWage           float64        `json:"avg_wage"`
	ProjectsCompleted float64        `json:"projects_completed"`
	ActiveWorkers     float64        `json:"active_workers"`
	LastUpdated       string         `json:"last_updated"`
	Monthly           []MonthlyEntry `json:"monthly"`
}

// SummaryEntry is one district in the comparison view.
type SummaryEntry struct {
	District    string  `json:"district"`
	Persondays  float64 `json:"persondays"`
	Expenditure float64 `json:"expenditure"`
}

// HealthResponse is returned by the health and readiness endpoints.
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func newDetailResponse(r core.DistrictReport) DetailResponse {
	s := r.Snapshot
	resp := DetailResponse{
		District:          s.District,
		Month:             s.Month,
		Year:              s.Year,
		Persondays:        s.Persondays,
		Expenditure:       s.Expenditure,
		AvgWage:           s.AvgWage,
		ProjectsCompleted: s.ProjectsCompleted,
		ActiveWorkers:     s.ActiveWorkers,
		LastUpdated:       s.LastUpdated,
		Monthly:           make([]MonthlyEntry, 0, len(r.Monthly)),
	}
	for _, m := range r.Monthly {
		resp.Monthly = append(resp.Monthly, MonthlyEntry{
			Month:             m.Month,
			Year:              m.Year,
			Persondays:        m.Persondays,
			Expenditure:       m.Expenditure,
			ProjectsCompleted: m.ProjectsCompleted,
			ActiveWorkers:     m.ActiveWorkers,
		})
	}
	return resp
}

func newSummaryEntries(in []core.DistrictSummary) []SummaryEntry {
	out := make([]SummaryEntry, 0, len(in))
	for _, s := range in {
		out = append(out, SummaryEntry{District: s.District, Persondays: s.Persondays, Expenditure: s.Expenditure})
	}
	return out
}

// writeJSON encodes v before touching the response so an encoding failure
// can still be reported as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"` + msgInternal + `"}`))
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, ErrorResponse{Error: msg})
}
