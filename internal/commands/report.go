package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/rtracker/internal/parser"
	"github.com/balkashynov/rtracker/internal/report"
	"github.com/balkashynov/rtracker/internal/store"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the list of all the tasks for the given date range",
		Long: `Print every task whose start falls inside the date range. Both ends are
inclusive and read in local time.

Dates: yyyy-mm-dd, dd/mm/yyyy, today, yesterday, X days ago, X weeks ago

Examples:
  rtracker report --from 2024-01-01 --to 2024-01-31
  rtracker report --from "1 week ago" --json
  rtracker report -p rtracker --csv > rtracker.csv`,
		Args: cobra.NoArgs,
		RunE: withLog(opts, runReport),
	}

	cmd.Flags().Bool("json", false, "Prints in JSON format")
	cmd.Flags().Bool("csv", false, "Prints in CSV format")
	cmd.Flags().String("from", "", "The start date of the report")
	cmd.Flags().String("to", "", "The end date of the report")
	cmd.Flags().StringP("project", "p", "", "Only include this project")
	cmd.MarkFlagsMutuallyExclusive("json", "csv")
	return cmd
}

func runReport(cmd *cobra.Command, args []string, log *store.Log) error {
	current := now()

	filter := report.Filter{}
	filter.Project, _ = cmd.Flags().GetString("project")

	if from, _ := cmd.Flags().GetString("from"); from != "" {
		bound, err := parser.ParseDate(from, current, time.Local)
		if err != nil {
			return err
		}
		filter.From = bound
	}
	if to, _ := cmd.Flags().GetString("to"); to != "" {
		bound, err := parser.ParseDate(to, current, time.Local)
		if err != nil {
			return err
		}
		filter.To = bound.AddDate(0, 0, 1)
	}

	format := report.FormatPlain
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		format = report.FormatJSON
	}
	if csvOutput, _ := cmd.Flags().GetBool("csv"); csvOutput {
		format = report.FormatCSV
	}

	entries, err := log.LoadAll()
	if err != nil {
		return err
	}
	return report.Render(cmd.OutOrStdout(), format, filter.Apply(entries), current)
}
