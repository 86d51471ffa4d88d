package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// pingTimeout bounds the connectivity check on open.
const pingTimeout = 10 * time.Second

// dialect holds the driver name and the statements that differ per database.
type dialect struct {
	driver string
	create string
	get    string
	set    string
}

var (
	sqliteDialect = dialect{
		driver: "sqlite3",
		create: `CREATE TABLE IF NOT EXISTS kv_store (
    slot       TEXT PRIMARY KEY,
    value      BLOB NOT NULL,
    updated_at TIMESTAMP NOT NULL
)`,
		get: `SELECT value FROM kv_store WHERE slot = ?`,
		set: `INSERT INTO kv_store (slot, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(slot) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	}

	postgresDialect = dialect{
		driver: "postgres",
		create: `CREATE TABLE IF NOT EXISTS kv_store (
    slot       TEXT PRIMARY KEY,
    value      BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`,
		get: `SELECT value FROM kv_store WHERE slot = $1`,
		set: `INSERT INTO kv_store (slot, value, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (slot) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
	}

	mysqlDialect = dialect{
		driver: "mysql",
		create: `CREATE TABLE IF NOT EXISTS kv_store (
    slot       VARCHAR(191) PRIMARY KEY,
    value      LONGBLOB NOT NULL,
    updated_at DATETIME(3) NOT NULL
)`,
		get: `SELECT value FROM kv_store WHERE slot = ?`,
		set: `INSERT INTO kv_store (slot, value, updated_at) VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)`,
	}
)

// SQL is a Storage backed by a single kv_store table.
type SQL struct {
	db      *sql.DB
	dialect dialect
}

// OpenSQLite opens (or creates) a sqlite database at path.
func OpenSQLite(ctx context.Context, path string) (*SQL, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite storage requires a database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	return openSQL(ctx, sqliteDialect, path)
}

// OpenPostgres connects to postgres using a lib/pq connection string.
func OpenPostgres(ctx context.Context, dsn string) (*SQL, error) {
	return openSQL(ctx, postgresDialect, dsn)
}

// OpenMySQL connects to mysql using a go-sql-driver DSN.
func OpenMySQL(ctx context.Context, dsn string) (*SQL, error) {
	return openSQL(ctx, mysqlDialect, dsn)
}

func openSQL(ctx context.Context, d dialect, dsn string) (*SQL, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", d.driver, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", d.driver, err)
	}

	s := &SQL{db: db, dialect: d}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQL) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.create); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Get implements Storage.
func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, s.dialect.get, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// Set implements Storage.
func (s *SQL) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.set, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Close implements Storage.
func (s *SQL) Close() error {
	return s.db.Close()
}
