package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeFormat is used for both start and end in every persisted form.
const TimeFormat = time.RFC3339Nano

// RecordHeader is the column order of the flat-file record form.
var RecordHeader = []string{"task", "project", "start", "end"}

// Entry represents one tracked work session
type Entry struct {
	Name    string
	Project string     // empty means no project
	Start   time.Time  // UTC, immutable once created
	End     *time.Time // nil while in progress
}

// NewEntry creates an in-progress entry starting at now
func NewEntry(name, project string, now time.Time) (Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, fmt.Errorf("task name is required: %w", ErrInvalidInput)
	}
	return Entry{
		Name:    name,
		Project: strings.TrimSpace(project),
		Start:   now.UTC(),
	}, nil
}

// New creates an in-progress entry starting at the current time
func New(name, project string) (Entry, error) {
	return NewEntry(name, project, time.Now())
}

// InProgress reports whether the entry has not been stopped
func (e Entry) InProgress() bool {
	return e.End == nil
}

// Duration returns the elapsed seconds of the entry. Running entries are
// measured up to now. Negative spans (clock skew, hand-edited files) are 0.
func (e Entry) Duration(now time.Time) int64 {
	end := now
	if e.End != nil {
		end = *e.End
	}
	secs := int64(end.Sub(e.Start) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// DurationString formats Duration(now)
func (e Entry) DurationString(now time.Time) string {
	return FormatDuration(e.Duration(now))
}

// Stop sets the end time. Stopping a stopped entry fails with ErrAlreadyStopped.
func (e *Entry) Stop(now time.Time) error {
	if e.End != nil {
		return ErrAlreadyStopped
	}
	end := now.UTC()
	e.End = &end
	return nil
}

// Resume clears the end time so the entry is in progress again
func (e *Entry) Resume() {
	e.End = nil
}

// FormatDuration renders seconds as "{h}h {m}m {s}s"
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
}

// entryJSON is the wire shape; absent project and end encode as null.
type entryJSON struct {
	Task    string  `json:"task"`
	Project *string `json:"project"`
	Start   string  `json:"start"`
	End     *string `json:"end"`
}

// MarshalJSON implements json.Marshaler
func (e Entry) MarshalJSON() ([]byte, error) {
	out := entryJSON{
		Task:  e.Name,
		Start: e.Start.UTC().Format(TimeFormat),
	}
	if e.Project != "" {
		project := e.Project
		out.Project = &project
	}
	if e.End != nil {
		end := e.End.UTC().Format(TimeFormat)
		out.End = &end
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler
func (e *Entry) UnmarshalJSON(data []byte) error {
	var in entryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	project := ""
	if in.Project != nil {
		project = *in.Project
	}
	end := ""
	if in.End != nil {
		end = *in.End
	}
	parsed, err := ParseRecord([]string{in.Task, project, in.Start, end})
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Record returns the entry as flat-file columns in RecordHeader order
func (e Entry) Record() []string {
	end := ""
	if e.End != nil {
		end = e.End.UTC().Format(TimeFormat)
	}
	return []string{e.Name, e.Project, e.Start.UTC().Format(TimeFormat), end}
}

// ParseRecord builds an entry from flat-file columns. Any malformed column
// yields ErrCorruptStore.
func ParseRecord(record []string) (Entry, error) {
	if len(record) != len(RecordHeader) {
		return Entry{}, fmt.Errorf("expected %d columns, got %d: %w", len(RecordHeader), len(record), ErrCorruptStore)
	}
	if strings.TrimSpace(record[0]) == "" {
		return Entry{}, fmt.Errorf("empty task name: %w", ErrCorruptStore)
	}

	start, err := parseTime(record[2])
	if err != nil {
		return Entry{}, fmt.Errorf("bad start %q: %w", record[2], ErrCorruptStore)
	}

	entry := Entry{Name: record[0], Project: record[1], Start: start}
	if record[3] != "" {
		end, err := parseTime(record[3])
		if err != nil {
			return Entry{}, fmt.Errorf("bad end %q: %w", record[3], ErrCorruptStore)
		}
		entry.End = &end
	}
	return entry, nil
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(TimeFormat, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
