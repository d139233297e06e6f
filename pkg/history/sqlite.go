package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cytosight/csvexport/pkg/telemetry/logging"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// SQLite driver names registered by the blank imports above.
const (
	// DriverCGO is github.com/mattn/go-sqlite3.
	DriverCGO = "sqlite3"

	// DriverPureGo is modernc.org/sqlite.
	DriverPureGo = "sqlite"
)

// SQLiteConfig contains configuration for the SQLite store.
type SQLiteConfig struct {
	// Driver is DriverCGO or DriverPureGo.
	// Default: DriverPureGo
	Driver string

	// Path is the database file path. Parent directories are created.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 4
	MaxOpenConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	WALMode bool

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// SQLiteStore implements Store on SQLite through database/sql.
type SQLiteStore struct {
	db     *sql.DB
	config SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens the database, applies connection settings and
// creates the schema.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Driver == "" {
		cfg.Driver = DriverPureGo
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 4
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if cfg.Driver != DriverCGO && cfg.Driver != DriverPureGo {
		return nil, NewStorageError(cfg.Driver, "open", fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver))
	}
	if cfg.Path == "" {
		return nil, NewStorageError(cfg.Driver, "open", errors.New("database path is empty"))
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, NewStorageError(cfg.Driver, "open", err)
		}
	}

	db, err := sql.Open(cfg.Driver, dsn(cfg))
	if err != nil {
		return nil, NewStorageError(cfg.Driver, "open", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)

	s := &SQLiteStore{
		db:     db,
		config: cfg,
		logger: logging.Component(cfg.Logger, "history.sqlite"),
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("history store opened",
		"driver", cfg.Driver,
		"path", cfg.Path,
		"wal_mode", cfg.WALMode,
		"max_open_conns", cfg.MaxOpenConns,
	)

	return s, nil
}

// dsn builds a data source name carrying busy_timeout and journal_mode so
// every pooled connection gets them, not just the first.
func dsn(cfg SQLiteConfig) string {
	ms := cfg.BusyTimeout.Milliseconds()
	var params []string
	switch cfg.Driver {
	case DriverCGO:
		params = append(params, fmt.Sprintf("_busy_timeout=%d", ms))
		if cfg.WALMode {
			params = append(params, "_journal_mode=WAL")
		}
	case DriverPureGo:
		params = append(params, fmt.Sprintf("_pragma=busy_timeout(%d)", ms))
		if cfg.WALMode {
			params = append(params, "_pragma=journal_mode(WAL)")
		}
	}
	return cfg.Path + "?" + strings.Join(params, "&")
}

func (s *SQLiteStore) initialize() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return s.fail("create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return s.fail("insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return s.fail("get_schema_version", err)
	}
	if version != SchemaVersion {
		return s.fail("schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// Record inserts or replaces a run.
func (s *SQLiteStore) Record(ctx context.Context, run *Run) error {
	var degraded any
	if len(run.Degraded) > 0 {
		b, err := json.Marshal(run.Degraded)
		if err != nil {
			return s.fail("record", err)
		}
		degraded = string(b)
	}

	query := `INSERT OR REPLACE INTO runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.Dataset, run.Kind, run.Outcome,
		nullString(run.Path), nullString(run.PropertiesPath), run.SidecarSkipped,
		run.Rows, run.Columns, run.Unassigned, degraded,
		nullString(run.Error),
		run.StartedAt.UnixNano(), run.FinishedAt.UnixNano(),
	)
	if err != nil {
		return s.fail("record", err)
	}
	return nil
}

// Get returns the run with the given ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Run, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	if err != nil {
		return nil, s.fail("get", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, s.fail("get", err)
		}
		return nil, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	run, err := scanRun(rows)
	if err != nil {
		return nil, s.fail("scan", err)
	}
	return run, nil
}

// List returns matching runs, newest first.
func (s *SQLiteStore) List(ctx context.Context, q *Query) ([]*Run, error) {
	where, args := buildWhereClause(q)

	sqlQuery := "SELECT " + runColumns + " FROM runs"
	if where != "" {
		sqlQuery += " WHERE " + where
	}
	sqlQuery += " ORDER BY started_at DESC, id DESC"
	sqlQuery += fmt.Sprintf(" LIMIT %d", q.limit())
	if q != nil && q.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, s.fail("list", err)
	}
	defer rows.Close()

	runs := []*Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, s.fail("scan", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list", err)
	}
	return runs, nil
}

// Count returns the number of matching runs.
func (s *SQLiteStore) Count(ctx context.Context, q *Query) (int64, error) {
	where, args := buildWhereClause(q)

	sqlQuery := "SELECT COUNT(*) FROM runs"
	if where != "" {
		sqlQuery += " WHERE " + where
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, s.fail("count", err)
	}
	return count, nil
}

// DeleteBefore removes runs started before cutoff.
func (s *SQLiteStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE started_at < ?", cutoff.UnixNano())
	if err != nil {
		return 0, s.fail("delete", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, s.fail("delete", err)
	}
	return n, nil
}

// Trim keeps the newest keep runs.
func (s *SQLiteStore) Trim(ctx context.Context, keep int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY started_at DESC, id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, s.fail("trim", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, s.fail("trim", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return s.fail("close", err)
	}
	s.logger.Info("history store closed")
	return nil
}

func (s *SQLiteStore) fail(operation string, err error) error {
	return NewStorageError(s.config.Driver, operation, err)
}

// buildWhereClause returns the WHERE clause without the keyword, and its
// arguments.
func buildWhereClause(q *Query) (string, []any) {
	if q == nil {
		return "", nil
	}

	var conditions []string
	var args []any

	if q.Dataset != "" {
		conditions = append(conditions, "dataset = ?")
		args = append(args, q.Dataset)
	}
	if q.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, q.Kind)
	}
	if q.Outcome != "" {
		conditions = append(conditions, "outcome = ?")
		args = append(args, q.Outcome)
	}
	if q.Since != nil {
		conditions = append(conditions, "started_at >= ?")
		args = append(args, q.Since.UnixNano())
	}
	if q.Until != nil {
		conditions = append(conditions, "started_at <= ?")
		args = append(args, q.Until.UnixNano())
	}

	return strings.Join(conditions, " AND "), args
}

func scanRun(rows *sql.Rows) (*Run, error) {
	var run Run
	var path, propsPath, degraded, errMsg sql.NullString
	var started, finished int64

	err := rows.Scan(
		&run.ID, &run.Dataset, &run.Kind, &run.Outcome,
		&path, &propsPath, &run.SidecarSkipped,
		&run.Rows, &run.Columns, &run.Unassigned, &degraded,
		&errMsg, &started, &finished,
	)
	if err != nil {
		return nil, err
	}

	run.Path = path.String
	run.PropertiesPath = propsPath.String
	run.Error = errMsg.String
	run.StartedAt = time.Unix(0, started)
	run.FinishedAt = time.Unix(0, finished)
	if degraded.Valid && degraded.String != "" {
		if err := json.Unmarshal([]byte(degraded.String), &run.Degraded); err != nil {
			return nil, fmt.Errorf("decode degraded channels: %w", err)
		}
	}
	return &run, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
