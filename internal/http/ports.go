package http

import (
	"context"

	"mgnrega/internal/core"
)

// DistrictReader is the read side the handlers depend on.
type DistrictReader interface {
	ListDistricts(ctx context.Context) ([]string, error)
	AllSummaries(ctx context.Context) ([]core.DistrictSummary, error)
	DistrictReport(ctx context.Context, district string) (core.DistrictReport, error)
}

// HealthChecker reports store readiness.
type HealthChecker interface {
	Ping(ctx context.Context) error
	CheckTables(ctx context.Context) error
}
