package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/rtracker/internal/models"
	"github.com/balkashynov/rtracker/internal/store"
	"github.com/balkashynov/rtracker/internal/tui"
)

func newStopCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the in-progress task",
		Args:  cobra.NoArgs,
		RunE: withLog(opts, func(cmd *cobra.Command, args []string, log *store.Log) error {
			out := cmd.OutOrStdout()

			entry, err := log.UpdateLast(func(e *models.Entry) error {
				return e.Stop(now())
			})
			switch {
			case errors.Is(err, models.ErrEmptyStore):
				fmt.Fprintln(out, "There are no tasks to stop")
				return nil
			case errors.Is(err, models.ErrAlreadyStopped):
				fmt.Fprintln(out, "The last task is already stopped")
				return nil
			case err != nil:
				return err
			}

			fmt.Fprintf(out, "⏹️  Stopped task \"%s\"%s\n", entry.Name, projectSuffix(entry))
			fmt.Fprintf(out, "Duration: %s\n", entry.DurationString(now()))
			return nil
		}),
	}
}

func newContinueCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "continue",
		Aliases: []string{"resume"},
		Short:   "Start the last task again",
		Args:    cobra.NoArgs,
		RunE: withLog(opts, func(cmd *cobra.Command, args []string, log *store.Log) error {
			out := cmd.OutOrStdout()

			entry, err := log.UpdateLast(func(e *models.Entry) error {
				e.Resume()
				return nil
			})
			if errors.Is(err, models.ErrEmptyStore) {
				fmt.Fprintln(out, "There are no tasks to continue")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "▶️  Continuing task \"%s\"%s\n", entry.Name, projectSuffix(entry))
			return nil
		}),
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the in-progress task information",
		Args:  cobra.NoArgs,
		RunE:  withLog(opts, runStatus),
	}

	cmd.Flags().Bool("json", false, "Prints in JSON format")
	cmd.Flags().BoolP("watch", "w", false, "Open the live timer for the in-progress task")
	return cmd
}

func runStatus(cmd *cobra.Command, args []string, log *store.Log) error {
	out := cmd.OutOrStdout()
	jsonOutput, _ := cmd.Flags().GetBool("json")

	entry, err := log.LoadLast()
	if err != nil {
		return err
	}

	if entry == nil || !entry.InProgress() {
		if jsonOutput {
			fmt.Fprintln(out, "null")
		} else {
			fmt.Fprintln(out, "There is no in-progress task")
		}
		return nil
	}

	if jsonOutput {
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return tui.RunTimerTUI(out, log, *entry, now)
	}

	project := entry.Project
	if project == "" {
		project = "none"
	}
	fmt.Fprintf(out, "Task: %s\n", entry.Name)
	fmt.Fprintf(out, "Project: %s\n", project)
	fmt.Fprintf(out, "Started: %s\n", entry.Start.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Duration: %s\n", entry.DurationString(now()))
	return nil
}
