package stores

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// SQLite driver
	_ "modernc.org/sqlite"

	"github.com/fixstrap/fixstrap/pkg/engine"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore records installation history using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Config holds SQLite store configuration.
type Config struct {
	Path string
}

// NewSQLiteStore creates a new SQLite store instance.
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	return &SQLiteStore{path: cfg.Path}, nil
}

// Init initializes the database connection and enables WAL mode.
func (s *SQLiteStore) Init(ctx context.Context) error {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", s.path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs database migrations from the embedded source.
func (s *SQLiteStore) Migrate(_ context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// CreateRun records the start of an installation run.
func (s *SQLiteStore) CreateRun(ctx context.Context, run *InstallRun) error {
	query := `
		INSERT INTO install_runs (id, install_path, branch, runtime, status, error, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.InstallPath,
		run.Branch,
		run.Runtime,
		run.Status,
		run.Error,
		run.StartedAt,
		run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*InstallRun, error) {
	query := `
		SELECT id, install_path, branch, runtime, status, error, started_at, completed_at
		FROM install_runs
		WHERE id = ?
	`

	run := &InstallRun{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.InstallPath,
		&run.Branch,
		&run.Runtime,
		&run.Status,
		&run.Error,
		&run.StartedAt,
		&run.CompletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return run, nil
}

// CompleteRun marks a run as finished with the given status.
func (s *SQLiteStore) CompleteRun(ctx context.Context, id string, status engine.RunStatus, errMsg *string) error {
	query := `
		UPDATE install_runs
		SET status = ?, error = ?, completed_at = ?
		WHERE id = ?
	`

	now := time.Now()
	result, err := s.db.ExecContext(ctx, query, status, errMsg, &now, id)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found: %s", id)
	}

	return nil
}

// ListRuns lists runs, most recent first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit, offset int) ([]*InstallRun, error) {
	query := `
		SELECT id, install_path, branch, runtime, status, error, started_at, completed_at
		FROM install_runs
		ORDER BY started_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []*InstallRun{}
	for rows.Next() {
		run := &InstallRun{}
		err := rows.Scan(
			&run.ID,
			&run.InstallPath,
			&run.Branch,
			&run.Runtime,
			&run.Status,
			&run.Error,
			&run.StartedAt,
			&run.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// RecordPackage appends a package install outcome to a run.
func (s *SQLiteStore) RecordPackage(ctx context.Context, pkg *PackageInstall) error {
	query := `
		INSERT INTO package_installs (run_id, package, plugin, target, source, result, installed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		pkg.RunID,
		pkg.Package,
		pkg.Plugin,
		pkg.Target,
		pkg.Source,
		pkg.Result,
		pkg.InstalledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record package install: %w", err)
	}

	return nil
}

// ListPackagesByRun lists the package outcomes of a run in install order.
func (s *SQLiteStore) ListPackagesByRun(ctx context.Context, runID string) ([]*PackageInstall, error) {
	query := `
		SELECT id, run_id, package, plugin, target, source, result, installed_at
		FROM package_installs
		WHERE run_id = ?
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list package installs: %w", err)
	}
	defer rows.Close()

	pkgs := []*PackageInstall{}
	for rows.Next() {
		pkg := &PackageInstall{}
		err := rows.Scan(
			&pkg.ID,
			&pkg.RunID,
			&pkg.Package,
			&pkg.Plugin,
			&pkg.Target,
			&pkg.Source,
			&pkg.Result,
			&pkg.InstalledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan package install: %w", err)
		}
		pkgs = append(pkgs, pkg)
	}

	return pkgs, rows.Err()
}

// HealthCheck verifies the database connection is alive.
func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return s.db.PingContext(ctx)
}
