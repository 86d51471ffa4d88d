// Package config handles the XDG configuration directory, file paths and
// environment settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"todo/internal/storage"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// DatabaseFile is the default sqlite database filename.
	DatabaseFile = "todo.db"
)

// Env holds settings read from the environment.
type Env struct {
	Storage   string        `env:"TODO_STORAGE" env-default:"file" env-description:"storage backend: file, memory, sqlite, postgres, mysql"`
	DSN       string        `env:"TODO_DSN" env-description:"data source name for sql backends"`
	SaveDelay time.Duration `env:"TODO_SAVE_DELAY" env-default:"300ms" env-description:"quiescence window before saving"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Storage is the storage backend name.
	Storage string

	// DSN is the data source name for sql backends.
	DSN string

	// SaveDelay is the quiescence window before a write.
	SaveDelay time.Duration
}

// New creates a new Config with the default or specified config directory,
// filled from the environment.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	var env Env
	if err := cleanenv.ReadEnv(&env); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	if env.SaveDelay < 0 {
		return nil, fmt.Errorf("invalid environment: TODO_SAVE_DELAY must not be negative")
	}

	return &Config{
		Dir:       dir,
		Storage:   env.Storage,
		DSN:       env.DSN,
		SaveDelay: env.SaveDelay,
	}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// StorageOptions returns the options for opening the task storage.
// The sqlite backend defaults to a database file in the config directory.
func (c *Config) StorageOptions() storage.Options {
	backend := storage.NormalizeBackend(c.Storage)
	dsn := c.DSN
	if backend == storage.BackendSQLite && dsn == "" {
		dsn = filepath.Join(c.Dir, DatabaseFile)
	}
	return storage.Options{
		Backend: backend,
		Dir:     c.Dir,
		DSN:     dsn,
	}
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
