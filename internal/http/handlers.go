package http

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"time"

	"mgnrega/internal/core"
	applog "mgnrega/internal/log"
	"mgnrega/internal/metrics"
	"mgnrega/internal/report"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	logger := applog.FromContext(r.Context())
	if s.templates == nil {
		logger.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	ctx, cancel := s.queryContext(r.Context())
	defer cancel()

	districts, err := s.reader.ListDistricts(ctx)
	if err != nil {
		s.events.LogError(r.Context(), "District list error", err, applog.ComponentStorage, applog.OpList, nil)
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}

	// Render into a buffer so a template failure never leaves a partial page.
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", struct{ Districts []string }{districts}); err != nil {
		s.events.LogError(r.Context(), "Index template execution failed", err, applog.ComponentTemplate, applog.OpRender,
			applog.NewFields().WithErrorType(applog.ErrorTypeInternal))
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	district := districtParam(r)
	if district == "" {
		writeError(w, http.StatusBadRequest, msgDistrictParamRequired)
		return
	}

	ctx, cancel := s.queryContext(r.Context())
	defer cancel()

	rep, err := s.reader.DistrictReport(ctx, district)
	switch {
	case errors.Is(err, core.ErrDistrictNotFound):
		// Not-found is reported in the body with a 200; the dashboard script checks the error field.
		writeError(w, http.StatusOK, msgNoData)
		return
	case err != nil:
		s.storeError(w, r, "District detail error", district, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, newDetailResponse(rep)); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Detail response write failed", "error", err, applog.FieldDistrict, district)
	}
}

func (s *Server) handleAllData(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryContext(r.Context())
	defer cancel()

	summaries, err := s.reader.AllSummaries(ctx)
	if err != nil {
		s.storeError(w, r, "District summaries error", "", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, newSummaryEntries(summaries)); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Summary response write failed", "error", err)
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	district := districtParam(r)
	if district == "" {
		writeError(w, http.StatusBadRequest, msgDistrictRequired)
		return
	}

	ctx, cancel := s.queryContext(r.Context())
	defer cancel()

	rep, err := s.reader.DistrictReport(ctx, district)
	switch {
	case errors.Is(err, core.ErrDistrictNotFound):
		if s.opts.ReportRequireSnapshot {
			writeError(w, http.StatusNotFound, msgNoData)
			return
		}
		rep = core.DistrictReport{Snapshot: core.Snapshot{District: district}}
	case err != nil:
		s.storeError(w, r, "District report error", district, err)
		return
	}

	start := time.Now()
	var buf bytes.Buffer
	res, err := report.Render(&buf, rep)
	if err != nil {
		s.events.LogError(r.Context(), "Report render failed", err, applog.ComponentReport, applog.OpRender,
			applog.NewFields().WithDistrict(district).WithErrorType(applog.ErrorTypeInternal))
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	metrics.RecordReport(res.Pages, time.Since(start))
	s.events.LogReportRendered(r.Context(), district, res.Lines, res.Pages, buf.Len())

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": report.Filename(district)}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		_ = writeJSON(w, http.StatusOK, HealthResponse{Status: "ready"})
		return
	}

	ctx, cancel := s.queryContext(r.Context())
	defer cancel()

	err := s.health.Ping(ctx)
	if err == nil {
		err = s.health.CheckTables(ctx)
	}
	if err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", "error", err)
		_ = writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Error: msgStoreUnavailable})
		return
	}
	_ = writeJSON(w, http.StatusOK, HealthResponse{Status: "ready"})
}

// storeError logs a failed read and answers with a generic 500.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, msg, district string, err error) {
	fields := applog.NewFields().WithErrorType(applog.ErrorTypeDatabase)
	if errors.Is(err, context.DeadlineExceeded) {
		fields = fields.WithErrorType(applog.ErrorTypeTimeout)
	}
	if district != "" {
		fields = fields.WithDistrict(district)
	}
	s.events.LogError(r.Context(), msg, err, applog.ComponentStorage, applog.OpRead, fields)
	writeError(w, http.StatusInternalServerError, msgInternal)
}
