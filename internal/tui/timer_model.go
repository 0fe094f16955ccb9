package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/rtracker/internal/models"
)

// TimerModel represents the TUI model for a running entry
type TimerModel struct {
	width  int
	height int
	entry  models.Entry
	now    func() time.Time

	// Timer state
	elapsed int64

	// Animation state
	timerAnimation int

	keys keyMap
	help help.Model

	// UI state
	stopping bool // True when user pressed S and we're stopping
	exiting  bool // True when user pressed ESC/Q and we're leaving the entry running
}

// timerTickMsg is sent every second to update the timer
type timerTickMsg struct{}

// animationTickMsg is sent for faster animations
type animationTickMsg struct{}

// NewTimerModel creates a new timer TUI model. A nil clock uses time.Now.
func NewTimerModel(entry models.Entry, now func() time.Time) TimerModel {
	if now == nil {
		now = time.Now
	}
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText)).Italic(true)

	return TimerModel{
		entry:   entry,
		now:     now,
		elapsed: entry.Duration(now()),
		keys:    defaultKeyMap(),
		help:    h,
	}
}

// Stopping reports whether the user asked to stop and save the entry
func (m TimerModel) Stopping() bool {
	return m.stopping
}

// Exiting reports whether the user left with the entry still running
func (m TimerModel) Exiting() bool {
	return m.exiting
}

// Elapsed returns the last displayed duration in seconds
func (m TimerModel) Elapsed() int64 {
	return m.elapsed
}

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return timerTickMsg{}
	})
}

func animationTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

// Init initializes the timer model
func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(timerTick(), animationTick())
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		m.elapsed = m.entry.Duration(m.now())
		if m.done() {
			return m, nil
		}
		return m, timerTick()

	case animationTickMsg:
		m.timerAnimation = (m.timerAnimation + 1) % 4
		if m.done() {
			return m, nil
		}
		return m, animationTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Stop):
			m.stopping = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Leave), key.Matches(msg, m.keys.Quit):
			m.exiting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m TimerModel) done() bool {
	return m.stopping || m.exiting
}

// View renders the timer TUI
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(m.width).
		Render(m.help.View(m.keys))

	// Available height for content (total minus help bar and gap)
	contentHeight := m.height - 2

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTimerPanel(m.width, contentHeight),
		helpBar,
	)
}

// renderTimerPanel renders the centered timer panel
func (m TimerModel) renderTimerPanel(width, height int) string {
	var components []string

	center := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)

	// Animated header
	animChars := []string{"⏱", "⏲", "⏱", "⏲"}
	animChar := animChars[m.timerAnimation]
	header := center.
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true).
		Render(fmt.Sprintf("%s  TRACKING TIME  %s", animChar, animChar))
	components = append(components, header)

	// Task name
	title := m.entry.Name
	if width > 10 && len(title) > width-4 {
		title = title[:width-7] + "..."
	}
	components = append(components, center.
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Render(title))

	// Project
	project := "no project"
	projectColor := ColorDisabledText
	if m.entry.Project != "" {
		project = "📁 " + m.entry.Project
		projectColor = ColorAccentMain
	}
	components = append(components, center.
		Foreground(lipgloss.Color(projectColor)).
		Render(project))

	// Big clock display
	clockLines := strings.Split(renderBigClock(m.elapsed), "\n")
	for i, line := range clockLines {
		clockLines[i] = center.Render(line)
	}
	components = append(components, strings.Join(clockLines, "\n"))

	// Start time
	components = append(components, center.
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Render(fmt.Sprintf("Started at %s", m.entry.Start.Local().Format("15:04:05"))))

	content := strings.Join(components, "\n\n")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// clockDigits holds 5x5 block glyphs for the big clock
var clockDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// clockText formats seconds as mm:ss, or hh:mm:ss from one hour up
func clockText(seconds int64) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// renderBigClock renders the elapsed time as ASCII art
func renderBigClock(seconds int64) string {
	var lines [5]strings.Builder
	for _, char := range clockText(seconds) {
		glyph, ok := clockDigits[char]
		if !ok {
			continue
		}
		for i := range glyph {
			lines[i].WriteString(glyph[i])
			lines[i].WriteString(" ")
		}
	}

	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)

	rendered := make([]string, len(lines))
	for i := range lines {
		rendered[i] = clockStyle.Render(lines[i].String())
	}
	return strings.Join(rendered, "\n")
}
