package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"mgnrega/internal/core"
	"mgnrega/internal/metrics"
)

const (
	tableLatest  = "mgnrega_latest"
	tableMonthly = "mgnrega_monthly"
)

const (
	queryListDistricts = `SELECT district FROM mgnrega_latest ORDER BY district`

	queryLatestSnapshot = `SELECT district, month, year, persondays, expenditure, avg_wage,
       projects_completed, active_workers, last_updated
FROM mgnrega_latest WHERE district = ? LIMIT 1`

	queryMonthlySeries = `SELECT month, year, persondays, expenditure, projects_completed, active_workers
FROM mgnrega_monthly WHERE district = ? ORDER BY year, month`

	queryAllSummaries = `SELECT district, persondays, expenditure FROM mgnrega_latest`
)

// Repository implements the fixed read queries over the two MGNREGA tables.
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// ListDistricts returns every district with a snapshot row, sorted by name.
func (r *Repository) ListDistricts(ctx context.Context) ([]string, error) {
	records, err := r.query(ctx, tableLatest, queryListDistricts)
	if err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}

	districts := make([]string, 0, len(records))
	for _, rec := range records {
		districts = append(districts, rec.String("district"))
	}
	return districts, nil
}

// LatestSnapshot returns the snapshot row for district, or core.ErrDistrictNotFound.
// The name is matched exactly; surrounding whitespace is significant.
func (r *Repository) LatestSnapshot(ctx context.Context, district string) (core.Snapshot, error) {
	if district == "" {
		return core.Snapshot{}, core.ErrDistrictRequired
	}

	start := time.Now()
	rec, err := r.db.QueryOne(ctx, queryLatestSnapshot, district)
	if errors.Is(err, ErrNoRecord) {
		metrics.RecordDBQuery("select", tableLatest, time.Since(start), nil)
		return core.Snapshot{}, core.ErrDistrictNotFound
	}
	metrics.RecordDBQuery("select", tableLatest, time.Since(start), err)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("latest snapshot for %q: %w", district, err)
	}

	return core.Snapshot{
		District:          rec.String("district"),
		Month:             rec.String("month"),
		Year:              rec.Int("year"),
		Persondays:        rec.Float("persondays"),
		Expenditure:       rec.Float("expenditure"),
		AvgWage:           rec.Float("avg_wage"),
		ProjectsCompleted: rec.Float("projects_completed"),
		ActiveWorkers:     rec.Float("active_workers"),
		LastUpdated:       rec.String("last_updated"),
	}, nil
}

// MonthlySeries returns the district's monthly rows in chronological order.
func (r *Repository) MonthlySeries(ctx context.Context, district string) ([]core.MonthlyRecord, error) {
	records, err := r.query(ctx, tableMonthly, queryMonthlySeries, district)
	if err != nil {
		return nil, fmt.Errorf("monthly series for %q: %w", district, err)
	}

	series := make([]core.MonthlyRecord, 0, len(records))
	for _, rec := range records {
		series = append(series, core.MonthlyRecord{
			Month:             rec.String("month"),
			Year:              rec.Int("year"),
			Persondays:        rec.Float("persondays"),
			Expenditure:       rec.Float("expenditure"),
			ProjectsCompleted: rec.Float("projects_completed"),
			ActiveWorkers:     rec.Float("active_workers"),
		})
	}
	// SQL orders month labels as text; fix up to calendar order.
	core.SortMonthly(series)
	return series, nil
}

// AllSummaries returns persondays and expenditure for every district.
func (r *Repository) AllSummaries(ctx context.Context) ([]core.DistrictSummary, error) {
	records, err := r.query(ctx, tableLatest, queryAllSummaries)
	if err != nil {
		return nil, fmt.Errorf("all summaries: %w", err)
	}

	summaries := make([]core.DistrictSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, core.DistrictSummary{
			District:    rec.String("district"),
			Persondays:  rec.Float("persondays"),
			Expenditure: rec.Float("expenditure"),
		})
	}
	return summaries, nil
}

// DistrictReport loads the snapshot and, only when it exists, the monthly series.
func (r *Repository) DistrictReport(ctx context.Context, district string) (core.DistrictReport, error) {
	snapshot, err := r.LatestSnapshot(ctx, district)
	if err != nil {
		return core.DistrictReport{}, err
	}

	monthly, err := r.MonthlySeries(ctx, district)
	if err != nil {
		return core.DistrictReport{}, err
	}

	return core.DistrictReport{Snapshot: snapshot, Monthly: monthly}, nil
}

// Ping verifies the store is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// CheckTables verifies both tables are queryable.
func (r *Repository) CheckTables(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, table := range []string{tableLatest, tableMonthly} {
		g.Go(func() error {
			if _, err := r.db.Query(gctx, "SELECT 1 FROM "+table+" LIMIT 1"); err != nil {
				return fmt.Errorf("table %s: %w", table, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (r *Repository) query(ctx context.Context, table, query string, args ...any) ([]Record, error) {
	start := time.Now()
	records, err := r.db.Query(ctx, query, args...)
	metrics.RecordDBQuery("select", table, time.Since(start), err)
	return records, err
}
