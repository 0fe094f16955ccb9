package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/rtracker/internal/models"
)

var (
	isoDateRegex      = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	slashDateRegex    = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	relativeDateRegex = regexp.MustCompile(`^(\d+)\s+(day|days|week|weeks)\s+ago$`)
)

// ParseDate parses a report bound into midnight of that day in loc.
// Supported formats:
// - yyyy-mm-dd (e.g., "2024-01-31")
// - dd/mm/yyyy (e.g., "31/01/2024")
// - today, yesterday
// - X days ago, X weeks ago
func ParseDate(input string, now time.Time, loc *time.Location) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	today := StartOfDay(now.In(loc))

	switch input {
	case "":
		return time.Time{}, fmt.Errorf("empty date: %w", models.ErrInvalidInput)
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if m := isoDateRegex.FindStringSubmatch(input); m != nil {
		return buildDate(m[1], m[2], m[3], loc)
	}
	if m := slashDateRegex.FindStringSubmatch(input); m != nil {
		return buildDate(m[3], m[2], m[1], loc)
	}
	if m := relativeDateRegex.FindStringSubmatch(input); m != nil {
		amount, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid number %q: %w", m[1], models.ErrInvalidInput)
		}
		if strings.HasPrefix(m[2], "week") {
			amount *= 7
		}
		return today.AddDate(0, 0, -amount), nil
	}

	return time.Time{}, fmt.Errorf("invalid date %q. Use: yyyy-mm-dd, dd/mm/yyyy, today, yesterday, or X days ago: %w", input, models.ErrInvalidInput)
}

// buildDate validates the parts and rejects rollovers like 31/02
func buildDate(yearStr, monthStr, dayStr string, loc *time.Location) (time.Time, error) {
	year, _ := strconv.Atoi(yearStr)
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month must be between 1 and 12: %w", models.ErrInvalidInput)
	}
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("day must be between 1 and 31: %w", models.ErrInvalidInput)
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if date.Day() != day || date.Month() != time.Month(month) || date.Year() != year {
		return time.Time{}, fmt.Errorf("invalid date %s-%s-%s: %w", yearStr, monthStr, dayStr, models.ErrInvalidInput)
	}
	return date, nil
}

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
