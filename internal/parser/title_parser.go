package parser

import (
	"regexp"
	"strings"
)

var projectRegex = regexp.MustCompile(`(?:^|\s)@([a-zA-Z0-9_.-]+)`)

// ParsedTask is a task name with inline metadata pulled out
type ParsedTask struct {
	Title   string
	Project string
}

// ParseTitle extracts an "@project" marker from free-form task words.
// Syntax: "Fix login bug @backend". Only the first marker is used; all
// markers are removed from the title.
func ParseTitle(input string) ParsedTask {
	result := ParsedTask{Title: input}

	if matches := projectRegex.FindStringSubmatch(input); len(matches) > 1 {
		result.Project = matches[1]
		input = projectRegex.ReplaceAllString(input, " ")
	}

	// Clean up the title (remove extra spaces)
	result.Title = strings.Join(strings.Fields(input), " ")
	return result
}
