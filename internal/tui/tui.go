package tui

import (
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/rtracker/internal/models"
	"github.com/balkashynov/rtracker/internal/store"
)

// RunTimerTUI shows the live timer for the current entry. Pressing s stops
// and saves it through log at now(); leaving keeps it running.
func RunTimerTUI(w io.Writer, log *store.Log, entry models.Entry, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	p := tea.NewProgram(NewTimerModel(entry, now), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	timerModel, ok := finalModel.(TimerModel)
	if !ok {
		return nil
	}
	return finishTimer(w, log, timerModel)
}

// finishTimer applies what the user chose when the timer closed
func finishTimer(w io.Writer, log *store.Log, m TimerModel) error {
	switch {
	case m.Stopping():
		stopped, err := log.UpdateLast(func(e *models.Entry) error {
			return e.Stop(m.now())
		})
		if errors.Is(err, models.ErrAlreadyStopped) || errors.Is(err, models.ErrEmptyStore) {
			fmt.Fprintln(w, "The last task is already stopped")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to stop task: %w", err)
		}
		fmt.Fprintf(w, "⏹️  Stopped task \"%s\"\n", stopped.Name)
		fmt.Fprintf(w, "📊 Duration: %s\n", stopped.DurationString(m.now()))
	case m.Exiting():
		fmt.Fprintf(w, "\n💡 Task \"%s\" is still running.\n", m.entry.Name)
		fmt.Fprintln(w, "   Use 'rtracker status' to check it or 'rtracker stop' to stop it.")
	}
	return nil
}
