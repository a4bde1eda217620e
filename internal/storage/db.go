package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoRecord is returned by QueryOne when the query yields no rows.
var ErrNoRecord = errors.New("no record")

// Config holds the store location and pool settings.
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	RunMigrations   bool
}

// DB is a pooled, read-only handle on the SQLite store.
//
// Connections are checked out per operation with WithConn and always checked
// back in, so no request holds a connection beyond its own queries.
type DB struct {
	db   *sql.DB
	path string
}

// Open prepares the pool and verifies connectivity. The store is only written
// to when cfg.RunMigrations is set.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	if cfg.Path == "" {
		return nil, errors.New("database path is required")
	}

	if cfg.RunMigrations {
		if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create db directory: %w", err)
			}
		}
		if err := RunMigrations(cfg.Path); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	db, err := sql.Open("sqlite", readOnlyDSN(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{db: db, path: cfg.Path}, nil
}

func readOnlyDSN(path string) string {
	return fileURI(path) + "?_pragma=busy_timeout(5000)&_pragma=query_only(1)"
}

func writableDSN(path string) string {
	return fileURI(path) + "?_pragma=busy_timeout(5000)"
}

// fileURI escapes path so '?', '#' and '%' survive as part of the file name.
func fileURI(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path), OmitHost: true}
	return u.String()
}

// Close releases every pooled connection.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Path returns the store location.
func (d *DB) Path() string {
	return d.path
}

// Ping verifies that a connection can be established.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// WithConn checks a connection out of the pool for the duration of fn.
// The connection is returned to the pool whether or not fn fails.
func (d *DB) WithConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("checkout connection: %w", err)
	}
	defer conn.Close()

	return fn(conn)
}

// Query runs a read query and materializes every row as a Record.
func (d *DB) Query(ctx context.Context, query string, args ...any) ([]Record, error) {
	var records []Record
	err := d.WithConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		records, err = scanRecords(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// QueryOne runs a read query and returns its first row, or ErrNoRecord.
func (d *DB) QueryOne(ctx context.Context, query string, args ...any) (Record, error) {
	records, err := d.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecord
	}
	return records[0], nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	records := make([]Record, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		rec := make(Record, len(columns))
		for i, col := range columns {
			rec[col] = values[i]
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return records, nil
}

// Record is one result row addressable by column name.
type Record map[string]any

// String returns the column as text; missing or NULL columns yield "".
func (r Record) String(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

// Float returns the column as float64; unparsable values yield 0.
func (r Record) Float(col string) float64 {
	switch v := r[col].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	case []byte:
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	default:
		return 0
	}
}

// Int returns the column as int; fractional values are truncated.
func (r Record) Int(col string) int {
	switch v := r[col].(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		f, _ := strconv.ParseFloat(v, 64)
		return int(f)
	case []byte:
		i, _ := strconv.Atoi(string(v))
		return i
	default:
		return 0
	}
}
