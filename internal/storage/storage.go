// Package storage defines the key-value persistence capability used by the
// task store, along with its backends.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("not found")

// Storage is a named-slot key-value store.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases any underlying resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
)

// Options selects and parameterizes a backend.
type Options struct {
	// Backend is one of the Backend* names. Empty means BackendFile.
	Backend string

	// Dir is the directory used by the file backend.
	Dir string

	// DSN is the data source name for SQL backends.
	// For sqlite it is the database file path.
	DSN string
}

// NormalizeBackend returns the canonical backend name: lower-cased and
// trimmed, with "" meaning BackendFile.
func NormalizeBackend(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return BackendFile
	}
	return name
}

// Open creates the storage backend described by opts.
func Open(ctx context.Context, opts Options) (Storage, error) {
	switch NormalizeBackend(opts.Backend) {
	case BackendFile:
		return NewFile(opts.Dir)
	case BackendMemory:
		return NewMemory(), nil
	case BackendSQLite:
		return OpenSQLite(ctx, opts.DSN)
	case BackendPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres storage requires a DSN")
		}
		return OpenPostgres(ctx, opts.DSN)
	case BackendMySQL:
		if opts.DSN == "" {
			return nil, fmt.Errorf("mysql storage requires a DSN")
		}
		return OpenMySQL(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", opts.Backend)
	}
}
