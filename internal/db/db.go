package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/rtracker/internal/models"
	"github.com/balkashynov/rtracker/internal/store"
)

// Store is an entry log kept in a SQLite database
type Store struct {
	db   *gorm.DB
	path string
}

// Open sets up the database connection at path and runs migrations
func Open(path string) (*Store, error) {
	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %v: %w", err, errIO)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Quiet by default
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v: %w", err, classify(err))
	}

	s := &Store{db: db, path: path}
	if err := s.runMigrations(); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to run migrations: %v: %w", err, classify(err))
	}
	return s, nil
}

// Lock takes the same advisory ".lock" file lock as the CSV store, so
// separate invocations serialize their read-modify-write cycles
func (s *Store) Lock() (func() error, error) {
	unlock, err := store.LockFile(s.path + ".lock")
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, errIO)
	}
	return unlock, nil
}

// classify maps driver errors to error kinds. A file that exists but is not
// a SQLite database is corrupt, everything else is an I/O failure.
func classify(err error) error {
	if strings.Contains(err.Error(), "file is not a database") {
		return models.ErrCorruptStore
	}
	return errIO
}

// runMigrations creates/updates the database schema
func (s *Store) runMigrations() error {
	return s.db.AutoMigrate(&entryRow{})
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
