package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/balkashynov/rtracker/internal/models"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-1-31", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
		{"29/02/2024", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"today", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{" Yesterday ", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"3 days ago", time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)},
		{"1 week ago", time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := ParseDate(tt.input, now, time.UTC)
		if err != nil {
			t.Errorf("ParseDate(%q) failed: %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseDateUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	got, err := ParseDate("2024-01-01", time.Now(), loc)
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if want := time.Date(2024, 1, 1, 5, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got.UTC())
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, input := range []string{"", "2024-13-01", "2023-02-29", "31/04/2024", "next week", "01-01-2024"} {
		if _, err := ParseDate(input, time.Now(), time.UTC); !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("ParseDate(%q): expected ErrInvalidInput, got %v", input, err)
		}
	}
}

func TestParseTitle(t *testing.T) {
	tests := []struct {
		input       string
		wantTitle   string
		wantProject string
	}{
		{"write spec", "write spec", ""},
		{"write spec @rtracker", "write spec", "rtracker"},
		{"@ops  deploy   api", "deploy api", "ops"},
		{"mail bob@example.com", "mail bob@example.com", ""},
	}
	for _, tt := range tests {
		got := ParseTitle(tt.input)
		if got.Title != tt.wantTitle || got.Project != tt.wantProject {
			t.Errorf("ParseTitle(%q) = %q/%q, want %q/%q", tt.input, got.Title, got.Project, tt.wantTitle, tt.wantProject)
		}
	}
}
