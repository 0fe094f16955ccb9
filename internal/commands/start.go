package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/rtracker/internal/models"
	"github.com/balkashynov/rtracker/internal/parser"
	"github.com/balkashynov/rtracker/internal/store"
	"github.com/balkashynov/rtracker/internal/tui"
)

func newStartCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start [task description]",
		Short: "Start a new task",
		Long: `Start a new task. It becomes the current entry.

A task that is still running is stopped at the moment the new one starts.
The name comes from --task or from the positional words, never both.

Examples:
  rtracker start -t "write spec" -p rtracker
  rtracker start write spec @rtracker     # @project inline
  rtracker start review --watch           # open the live timer`,
		Args: cobra.ArbitraryArgs,
		RunE: withLog(opts, runStart),
	}

	cmd.Flags().StringP("task", "t", "", "The name of the task")
	cmd.Flags().StringP("project", "p", "", "The name of the project")
	cmd.Flags().BoolP("watch", "w", false, "Open the live timer after starting")
	return cmd
}

func runStart(cmd *cobra.Command, args []string, log *store.Log) error {
	out := cmd.OutOrStdout()

	name, _ := cmd.Flags().GetString("task")
	project, _ := cmd.Flags().GetString("project")
	if name != "" && len(args) > 0 {
		return fmt.Errorf("use either --task or positional task words, not both: %w", models.ErrInvalidInput)
	}
	if name == "" {
		parsed := parser.ParseTitle(strings.Join(args, " "))
		name = parsed.Title
		if project == "" {
			project = parsed.Project
		}
	}

	entry, err := models.NewEntry(name, project, now())
	if err != nil {
		return err
	}

	stopped, err := log.Start(entry)
	if err != nil {
		return err
	}
	if stopped != nil {
		fmt.Fprintf(out, "⏹️  Stopped task \"%s\" after %s\n", stopped.Name, stopped.DurationString(now()))
	}

	fmt.Fprintf(out, "⏱️  Started task \"%s\"%s\n", entry.Name, projectSuffix(entry))
	fmt.Fprintf(out, "Started at: %s\n", entry.Start.Local().Format("15:04:05"))

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return tui.RunTimerTUI(out, log, entry, now)
	}
	return nil
}

func projectSuffix(entry models.Entry) string {
	if entry.Project == "" {
		return ""
	}
	return fmt.Sprintf(" in project \"%s\"", entry.Project)
}
