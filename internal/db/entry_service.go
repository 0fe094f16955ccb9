package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/balkashynov/rtracker/internal/models"
)

var errIO = models.ErrIO

// entryRow is the table layout of one entry. Seq keeps insertion order.
type entryRow struct {
	Seq     int        `gorm:"primaryKey;autoIncrement:false"`
	Task    string     `gorm:"not null"`
	Project string     `gorm:"not null;default:''"`
	Start   time.Time  `gorm:"column:started_at;not null"`
	End     *time.Time `gorm:"column:finished_at"`
}

// TableName pins the table name
func (entryRow) TableName() string {
	return "entries"
}

// LoadAll returns all entries ordered by insertion
func (s *Store) LoadAll() ([]models.Entry, error) {
	var rows []entryRow
	if err := s.db.Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load entries: %v: %w", err, classify(err))
	}

	entries := make([]models.Entry, 0, len(rows))
	for _, row := range rows {
		if row.Task == "" {
			return nil, fmt.Errorf("row %d has an empty task: %w", row.Seq, models.ErrCorruptStore)
		}
		entry := models.Entry{
			Name:    row.Task,
			Project: row.Project,
			Start:   row.Start.UTC(),
		}
		if row.End != nil {
			end := row.End.UTC()
			entry.End = &end
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// SaveAll replaces every row in a single transaction
func (s *Store) SaveAll(entries []models.Entry) error {
	rows := make([]entryRow, len(entries))
	for i, entry := range entries {
		rows[i] = entryRow{
			Seq:     i + 1,
			Task:    entry.Name,
			Project: entry.Project,
			Start:   entry.Start.UTC(),
			End:     entry.End,
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entryRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save entries: %v: %w", err, errIO)
	}
	return nil
}
