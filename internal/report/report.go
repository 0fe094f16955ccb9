package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/balkashynov/rtracker/internal/models"
	"github.com/balkashynov/rtracker/internal/tui"
)

// Format selects a renderer
type Format int

const (
	FormatPlain Format = iota
	FormatJSON
	FormatCSV
)

// Filter narrows a report. Zero times leave that side unbounded; To is
// exclusive, so an inclusive "--to 2024-01-31" becomes midnight of Feb 1.
type Filter struct {
	From    time.Time
	To      time.Time
	Project string
}

// Match reports whether the entry's start falls inside the filter
func (f Filter) Match(entry models.Entry) bool {
	if !f.From.IsZero() && entry.Start.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !entry.Start.Before(f.To) {
		return false
	}
	if f.Project != "" && entry.Project != f.Project {
		return false
	}
	return true
}

// Apply returns the matching entries, keeping their order
func (f Filter) Apply(entries []models.Entry) []models.Entry {
	matched := []models.Entry{}
	for _, entry := range entries {
		if f.Match(entry) {
			matched = append(matched, entry)
		}
	}
	return matched
}

// Total sums the durations of entries as of now
func Total(entries []models.Entry, now time.Time) int64 {
	var total int64
	for _, entry := range entries {
		total += entry.Duration(now)
	}
	return total
}

// Render writes entries to w in the requested format
func Render(w io.Writer, format Format, entries []models.Entry, now time.Time) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, entries, now)
	case FormatCSV:
		return renderCSV(w, entries, now)
	default:
		return renderPlain(w, entries, now)
	}
}

// jsonEntry adds the computed duration to the entry's own JSON form
type jsonEntry struct {
	models.Entry
	DurationSeconds int64 `json:"duration_seconds"`
}

func (j jsonEntry) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(j.Entry)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	fields["duration_seconds"] = j.DurationSeconds
	return json.Marshal(fields)
}

func renderJSON(w io.Writer, entries []models.Entry, now time.Time) error {
	out := make([]jsonEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, jsonEntry{Entry: entry, DurationSeconds: entry.Duration(now)})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func renderCSV(w io.Writer, entries []models.Entry, now time.Time) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(append(append([]string{}, models.RecordHeader...), "duration")); err != nil {
		return err
	}
	for _, entry := range entries {
		row := append(entry.Record(), strconv.FormatInt(entry.Duration(now), 10))
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	runningStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color(tui.ColorSuccess))
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(tui.ColorBorder))
)

func renderPlain(w io.Writer, entries []models.Entry, now time.Time) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found for the selected range.")
		return err
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		project := entry.Project
		if project == "" {
			project = "-"
		}
		end := "running"
		if entry.End != nil {
			end = entry.End.Local().Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []string{
			entry.Name,
			project,
			entry.Start.Local().Format("2006-01-02 15:04:05"),
			end,
			entry.DurationString(now),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("TASK", "PROJECT", "START", "END", "DURATION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 3 && row >= 0 && row < len(entries) && entries[row].InProgress():
				return runningStyle
			default:
				return cellStyle
			}
		})

	_, err := fmt.Fprintf(w, "%s\nTotal: %s across %d tasks\n", t.String(), models.FormatDuration(Total(entries, now)), len(entries))
	return err
}
