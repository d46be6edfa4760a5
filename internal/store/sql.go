// ABOUTME: SQL implementation of MazeStore and GrueStore over sqlx
// ABOUTME: Opens Postgres (lib/pq) or SQLite (modernc) pools and creates the schema on startup

package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/2389/maze-gateway/internal/config"
)

// SQLStore implements MazeStore and GrueStore on a relational database
type SQLStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Compile-time interface checks.
var (
	_ MazeStore = (*SQLStore)(nil)
	_ GrueStore = (*SQLStore)(nil)
)

const schema = `
	CREATE TABLE IF NOT EXISTS maze (
		mazename VARCHAR(64) NOT NULL,
		cell     VARCHAR(16) NOT NULL,
		state    VARCHAR(16) NOT NULL DEFAULT '____',
		metadata VARCHAR(16) NOT NULL DEFAULT '',
		PRIMARY KEY (mazename, cell)
	);

	CREATE TABLE IF NOT EXISTS grues (
		uuid     VARCHAR(64)   NOT NULL PRIMARY KEY,
		name     VARCHAR(64)   NOT NULL,
		location VARCHAR(2048) NOT NULL,
		hunger   INTEGER       NOT NULL,
		meals    INTEGER       NOT NULL
	);
`

// NewSQLStore wraps an already-open database. The schema is not created;
// tests use this with sqlmock.
func NewSQLStore(db *sqlx.DB, logger *slog.Logger) *SQLStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLStore{
		db:     db,
		logger: logger.With("component", "store", "driver", db.DriverName()),
	}
}

// Open connects to the configured database, creating it first when
// cfg.CreateDatabase is set, and ensures the schema exists.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*SQLStore, error) {
	if cfg.Driver == config.DriverSQLite {
		return openSQLite(ctx, cfg.Path, logger)
	}

	if cfg.CreateDatabase {
		admin, err := sqlx.ConnectContext(ctx, config.DriverPostgres, cfg.AdminDSN())
		if err != nil {
			return nil, fmt.Errorf("connecting to maintenance database: %w", err)
		}
		err = EnsureDatabase(ctx, admin, cfg.Name)
		admin.Close()
		if err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Open(config.DriverPostgres, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Name, err)
	}

	s := NewSQLStore(db, logger)
	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s.logger.Info("store initialized", "host", cfg.Host, "database", cfg.Name)
	return s, nil
}

// NewSQLiteStore creates a SQLite store at the given path (or ":memory:").
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLStore, error) {
	return openSQLite(context.Background(), path, slog.Default())
}

func openSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sqlx.Open(config.DriverSQLite, config.DatabaseConfig{Driver: config.DriverSQLite, Path: path}.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	s := NewSQLStore(db, logger)
	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s.logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLStore) createSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// EnsureDatabase creates the named Postgres database when pg_database lacks it.
// admin must be connected to another database on the same server.
func EnsureDatabase(ctx context.Context, admin *sqlx.DB, name string) error {
	var exists int
	err := admin.GetContext(ctx, &exists, `SELECT COUNT(*) FROM pg_database WHERE datname = $1`, name)
	if err != nil {
		return fmt.Errorf("checking for database %s: %w", name, err)
	}
	if exists > 0 {
		return nil
	}

	if _, err := admin.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(name)); err != nil {
		return fmt.Errorf("creating database %s: %w", name, err)
	}
	slog.Info("created database", "name", name)
	return nil
}

// DB returns the underlying pool.
func (s *SQLStore) DB() *sqlx.DB {
	return s.db
}

// Ping checks that the database is reachable.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) isPostgres() bool {
	return s.db.DriverName() == config.DriverPostgres
}

// q rebinds a ?-placeholder query for the driver.
func (s *SQLStore) q(query string) string {
	return s.db.Rebind(query)
}
