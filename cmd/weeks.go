package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/clockstorm/internal/installation"
	"github.com/Tiliavir/clockstorm/internal/notifications"
	"github.com/Tiliavir/clockstorm/internal/options"
	"github.com/Tiliavir/clockstorm/internal/timecalc"
	"github.com/Tiliavir/clockstorm/internal/timesheets"
)

var weeksCmd = &cobra.Command{
	Use:   "weeks",
	Short: "List every week since installation, newest first",
	Args:  cobra.NoArgs,
	RunE:  runWeeks,
}

func runWeeks(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	t := now()
	mondays, err := installation.EveryMondaySince(ctx, appStore, timecalc.DateOnlyOf(t))
	if err != nil {
		return dataError(err)
	}
	opts := options.Load(ctx, appStore)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-23s  %-9s  %s", "Week", "Reminders", "Status")))
	for _, monday := range mondays {
		ts := timesheets.Get(ctx, appStore, monday)
		summary := timesheets.Summarize(ts, opts, t)
		active := notifications.ForTimeSheet(ts, summary, opts, t)

		label := fmt.Sprintf("%s - %s", timecalc.DisplayDate(monday), timecalc.DisplayDate(ts.Dates.Sunday))
		count := mutedStyle.Render(fmt.Sprintf("%-9d", 0))
		if len(active) > 0 {
			count = alertStyle.Render(fmt.Sprintf("%-9d", len(active)))
		}
		fmt.Fprintf(out, "%-23s  %s  %s\n", label, count, weekStatusLabel(summary.WeekStatus))
	}
	return nil
}
