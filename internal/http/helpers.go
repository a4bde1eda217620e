package http

import (
	"net/http"
	"strings"
)

// districtParam returns the district query parameter verbatim; only an
// absent or empty value counts as missing.
func districtParam(r *http.Request) string {
	return r.URL.Query().Get("district")
}

var knownEndpoints = map[string]bool{
	"/":             true,
	"/api/data":     true,
	"/api/all_data": true,
	"/api/report":   true,
	"/healthz":      true,
	"/readyz":       true,
	"/metrics":      true,
}

// endpointLabel keeps the metrics label set bounded.
func endpointLabel(r *http.Request) string {
	if knownEndpoints[r.URL.Path] {
		return r.URL.Path
	}
	if strings.HasPrefix(r.URL.Path, "/static/") {
		return "/static/"
	}
	return "other"
}
