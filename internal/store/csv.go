package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/balkashynov/rtracker/internal/models"
)

// CSVStore keeps the log in a flat file: a header row followed by one row
// per entry
type CSVStore struct {
	path string
}

// NewCSVStore returns a store backed by the file at path
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the backing file path
func (s *CSVStore) Path() string {
	return s.path
}

// LoadAll reads the whole file
func (s *CSVStore) LoadAll() ([]models.Entry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.Entry{}, nil
		}
		return nil, fmt.Errorf("failed to open %s: %v: %w", s.path, err, models.ErrIO)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]models.Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(models.RecordHeader)

	header, err := reader.Read()
	if err == io.EOF {
		return []models.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %v: %w", err, models.ErrCorruptStore)
	}
	if !slices.Equal(header, models.RecordHeader) {
		return nil, fmt.Errorf("unexpected header %v: %w", header, models.ErrCorruptStore)
	}

	entries := []models.Entry{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %v: %w", len(entries)+1, err, models.ErrCorruptStore)
		}

		entry, err := models.ParseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(entries)+1, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// SaveAll replaces the file contents. The rows are written to a temp file in
// the same directory and renamed over the old file, so a crash mid-write
// leaves the previous log intact. A symlinked path is written through to its
// target, and an existing file keeps its permissions.
func (s *CSVStore) SaveAll(entries []models.Entry) error {
	target := s.target()
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %v: %w", dir, err, models.ErrIO)
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %v: %w", err, models.ErrIO)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(mode); err != nil {
		return fmt.Errorf("failed to set mode on %s: %v: %w", tmpPath, err, models.ErrIO)
	}
	if err := writeEntries(tmp, entries); err != nil {
		return fmt.Errorf("failed to write %s: %v: %w", tmpPath, err, models.ErrIO)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %v: %w", tmpPath, err, models.ErrIO)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %v: %w", tmpPath, err, models.ErrIO)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("failed to replace %s: %v: %w", target, err, models.ErrIO)
	}
	committed = true
	return nil
}

// target follows symlinks at the store path, including dangling ones, so
// the rename replaces the real file instead of the link
func (s *CSVStore) target() string {
	if resolved, err := filepath.EvalSymlinks(s.path); err == nil {
		return resolved
	}
	if link, err := os.Readlink(s.path); err == nil {
		if !filepath.IsAbs(link) {
			link = filepath.Join(filepath.Dir(s.path), link)
		}
		return link
	}
	return s.path
}

func writeEntries(w io.Writer, entries []models.Entry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(models.RecordHeader); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := writer.Write(entry.Record()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// Lock takes an exclusive advisory lock on a sibling ".lock" file
func (s *CSVStore) Lock() (func() error, error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %v: %w", dir, err, models.ErrIO)
	}
	unlock, err := LockFile(s.path + ".lock")
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, models.ErrIO)
	}
	return unlock, nil
}
