package store

import (
	"fmt"
	"log/slog"

	"github.com/balkashynov/rtracker/internal/models"
)

// Backend persists the full ordered sequence of entries
type Backend interface {
	// LoadAll returns every entry in insertion order. A store that does not
	// exist yet is an empty log, not an error.
	LoadAll() ([]models.Entry, error)
	// SaveAll replaces the stored sequence with entries, in the given order.
	SaveAll(entries []models.Entry) error
}

// Locker is implemented by backends that can guard a read-modify-write
// cycle against other processes
type Locker interface {
	Lock() (unlock func() error, err error)
}

// Log is the ordered entry log. The current entry is always the last entry
// by insertion order; it is the only one stop/continue/status act on, and
// everything before it is frozen history.
type Log struct {
	backend Backend
	logger  *slog.Logger
}

// NewLog wraps a backend. A nil logger falls back to slog.Default().
func NewLog(backend Backend, logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{backend: backend, logger: logger}
}

// LoadAll returns all entries in insertion order
func (l *Log) LoadAll() ([]models.Entry, error) {
	entries, err := l.backend.LoadAll()
	if err != nil {
		return nil, err
	}
	l.logger.Debug("loaded entries", slog.Int("count", len(entries)))
	return entries, nil
}

// LoadLast returns the current entry, or nil when the log is empty
func (l *Log) LoadLast() (*models.Entry, error) {
	entries, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	last := entries[len(entries)-1]
	return &last, nil
}

// SaveAll overwrites the log with entries
func (l *Log) SaveAll(entries []models.Entry) error {
	unlock, err := l.lock()
	if err != nil {
		return err
	}
	defer l.release(unlock)
	return l.save(entries)
}

// Append adds entry as the new current entry
func (l *Log) Append(entry models.Entry) error {
	unlock, err := l.lock()
	if err != nil {
		return err
	}
	defer l.release(unlock)

	entries, err := l.LoadAll()
	if err != nil {
		return err
	}
	return l.save(append(entries, entry))
}

// Start appends entry as the new current entry. A previous entry that is
// still running is stopped at entry.Start first and returned.
func (l *Log) Start(entry models.Entry) (*models.Entry, error) {
	unlock, err := l.lock()
	if err != nil {
		return nil, err
	}
	defer l.release(unlock)

	entries, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	var stopped *models.Entry
	if n := len(entries); n > 0 && entries[n-1].InProgress() {
		end := entry.Start
		if end.Before(entries[n-1].Start) {
			end = entries[n-1].Start
		}
		if err := entries[n-1].Stop(end); err != nil {
			return nil, err
		}
		prev := entries[n-1]
		stopped = &prev
	}

	if err := l.save(append(entries, entry)); err != nil {
		return nil, err
	}
	return stopped, nil
}

// ReplaceLast swaps the current entry for entry
func (l *Log) ReplaceLast(entry models.Entry) error {
	_, err := l.UpdateLast(func(last *models.Entry) error {
		*last = entry
		return nil
	})
	return err
}

// UpdateLast applies fn to the current entry and saves the log, holding the
// backend lock for the whole cycle. Nothing is written when fn fails.
func (l *Log) UpdateLast(fn func(*models.Entry) error) (models.Entry, error) {
	unlock, err := l.lock()
	if err != nil {
		return models.Entry{}, err
	}
	defer l.release(unlock)

	entries, err := l.LoadAll()
	if err != nil {
		return models.Entry{}, err
	}
	if len(entries) == 0 {
		return models.Entry{}, models.ErrEmptyStore
	}

	last := &entries[len(entries)-1]
	if err := fn(last); err != nil {
		return *last, err
	}
	if err := l.save(entries); err != nil {
		return models.Entry{}, err
	}
	return *last, nil
}

func (l *Log) save(entries []models.Entry) error {
	if err := l.backend.SaveAll(entries); err != nil {
		return err
	}
	l.logger.Debug("saved entries", slog.Int("count", len(entries)))
	return nil
}

func (l *Log) lock() (func() error, error) {
	locker, ok := l.backend.(Locker)
	if !ok {
		return nil, nil
	}
	unlock, err := locker.Lock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock store: %w", err)
	}
	l.logger.Debug("acquired store lock")
	return unlock, nil
}

func (l *Log) release(unlock func() error) {
	if unlock == nil {
		return
	}
	if err := unlock(); err != nil {
		l.logger.Warn("failed to release store lock", slog.String("error", err.Error()))
	}
}
