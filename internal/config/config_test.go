package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"todo/internal/config"
	"todo/internal/storage"
)

// unsetEnv removes variables for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestNew_Defaults(t *testing.T) {
	unsetEnv(t, "TODO_STORAGE", "TODO_DSN", "TODO_SAVE_DELAY")

	dir := t.TempDir()
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dir != dir {
		t.Errorf("expected dir %q, got %q", dir, cfg.Dir)
	}
	if cfg.Storage != storage.BackendFile {
		t.Errorf("expected file backend, got %q", cfg.Storage)
	}
	if cfg.SaveDelay != 300*time.Millisecond {
		t.Errorf("expected 300ms, got %v", cfg.SaveDelay)
	}
}

func TestNew_FromEnv(t *testing.T) {
	t.Setenv("TODO_STORAGE", "postgres")
	t.Setenv("TODO_DSN", "host=localhost dbname=todo")
	t.Setenv("TODO_SAVE_DELAY", "1s")

	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage != "postgres" || cfg.DSN != "host=localhost dbname=todo" || cfg.SaveDelay != time.Second {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestNew_InvalidDelay(t *testing.T) {
	t.Setenv("TODO_SAVE_DELAY", "soon")
	if _, err := config.New(t.TempDir()); err == nil {
		t.Error("expected error for unparseable delay")
	}

	t.Setenv("TODO_SAVE_DELAY", "-1s")
	if _, err := config.New(t.TempDir()); err == nil {
		t.Error("expected error for negative delay")
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := config.DefaultConfigDir(); got != filepath.Join("/tmp/xdg", "todo") {
		t.Errorf("unexpected dir %q", got)
	}
}

func TestStorageOptions_SQLiteDefaultPath(t *testing.T) {
	cfg := &config.Config{Dir: "/cfg", Storage: storage.BackendSQLite}
	opts := cfg.StorageOptions()
	if opts.DSN != filepath.Join("/cfg", "todo.db") {
		t.Errorf("unexpected DSN %q", opts.DSN)
	}

	cfg.DSN = "/elsewhere.db"
	if got := cfg.StorageOptions().DSN; got != "/elsewhere.db" {
		t.Errorf("explicit DSN should win, got %q", got)
	}
}

func TestStorageOptions_NormalizesBackend(t *testing.T) {
	tests := []struct {
		storage string
		want    string
		wantDSN string
	}{
		{"SQLite", storage.BackendSQLite, filepath.Join("/cfg", "todo.db")},
		{" sqlite ", storage.BackendSQLite, filepath.Join("/cfg", "todo.db")},
		{"", storage.BackendFile, ""},
		{"MEMORY", storage.BackendMemory, ""},
	}

	for _, tt := range tests {
		cfg := &config.Config{Dir: "/cfg", Storage: tt.storage}
		opts := cfg.StorageOptions()
		if opts.Backend != tt.want {
			t.Errorf("%q: expected backend %q, got %q", tt.storage, tt.want, opts.Backend)
		}
		if opts.DSN != tt.wantDSN {
			t.Errorf("%q: expected DSN %q, got %q", tt.storage, tt.wantDSN, opts.DSN)
		}
	}
}

func TestStorageOptions_MixedCaseSQLiteOpens(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir(), Storage: "SQLite"}
	s, err := storage.Open(context.Background(), cfg.StorageOptions())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	s.Close()
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Dir: dir}

	if cfg.HasToken() || cfg.HasOAuthClient() {
		t.Error("fresh dir should have no credentials")
	}
	if cfg.TokenPath() != filepath.Join(dir, "token.json") {
		t.Errorf("unexpected token path %q", cfg.TokenPath())
	}
	if cfg.OAuthClientPath() != filepath.Join(dir, "oauth_client.json") {
		t.Errorf("unexpected client path %q", cfg.OAuthClientPath())
	}
}
