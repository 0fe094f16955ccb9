package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/balkashynov/rtracker/internal/models"
)

const (
	appName = "rtracker"

	EnvFile    = "RTRACKERFILE"     // overrides the storage path
	EnvBackend = "RTRACKER_BACKEND" // selects the storage backend

	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Config is resolved once at startup and handed to the store
type Config struct {
	StoragePath string
	Backend     string
}

// Options holds explicit overrides, typically from command-line flags
type Options struct {
	File    string
	Backend string
}

// Resolve applies the precedence chain: explicit option, then environment,
// then the per-user default under ~/.local/share.
func Resolve(opts Options, getenv func(string) string, home func() (string, error)) (Config, error) {
	var cfg Config

	cfg.Backend = strings.ToLower(strings.TrimSpace(firstNonEmpty(opts.Backend, getenv(EnvBackend), BackendCSV)))
	if cfg.Backend != BackendCSV && cfg.Backend != BackendSQLite {
		return cfg, fmt.Errorf("unknown backend %q (use %s or %s): %w", cfg.Backend, BackendCSV, BackendSQLite, models.ErrInvalidInput)
	}

	cfg.StoragePath = firstNonEmpty(opts.File, getenv(EnvFile))
	if cfg.StoragePath == "" {
		path, err := DefaultPath(cfg.Backend, home)
		if err != nil {
			return cfg, err
		}
		cfg.StoragePath = path
	}
	return cfg, nil
}

// Load resolves the config from the process environment
func Load(opts Options) (Config, error) {
	return Resolve(opts, os.Getenv, os.UserHomeDir)
}

// DefaultPath returns the storage location used when nothing overrides it
func DefaultPath(backend string, home func() (string, error)) (string, error) {
	homeDir, err := home()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	name := appName
	if backend == BackendSQLite {
		name += ".db"
	}
	return filepath.Join(homeDir, ".local", "share", name), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
