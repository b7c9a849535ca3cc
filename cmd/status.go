package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/clockstorm/internal/installation"
	"github.com/Tiliavir/clockstorm/internal/model"
	"github.com/Tiliavir/clockstorm/internal/notifications"
	"github.com/Tiliavir/clockstorm/internal/options"
	"github.com/Tiliavir/clockstorm/internal/timecalc"
	"github.com/Tiliavir/clockstorm/internal/timesheets"
)

var statusWeek string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the summary and active reminders of a week",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusWeek, "week", "", "Any date of the week to show (MM/DD/YYYY); defaults to this week")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	t := now()
	today := timecalc.DateOnlyOf(t)

	monday := timecalc.MondayOf(today)
	if statusWeek != "" {
		d, err := timecalc.ParseDateOnlyKey(statusWeek)
		if err != nil {
			return fmt.Errorf("invalid --week value %q: %w", statusWeek, err)
		}
		monday = timecalc.MondayOf(d)
	}

	mondays, err := installation.EveryMondaySince(ctx, appStore, today)
	if err != nil {
		return dataError(err)
	}

	opts := options.Load(ctx, appStore)
	ts := timesheets.Get(ctx, appStore, monday)
	summary := timesheets.Summarize(ts, opts, t)
	active := notifications.ForTimeSheet(ts, summary, opts, t)

	out := cmd.OutOrStdout()
	printSummary(out, ts, summary)

	fmt.Fprintln(out)
	if len(active) == 0 {
		fmt.Fprintln(out, okStyle.Render("No active reminders."))
	} else {
		fmt.Fprintln(out, headerStyle.Render("Reminders:"))
		for _, n := range active {
			fmt.Fprintf(out, "  • %s\n", notifications.Message(monday, n))
		}
	}

	index := -1
	for i, m := range mondays {
		if m == monday {
			index = i
			break
		}
	}
	if index < 0 {
		return nil
	}
	if notifications.HasActiveInDirection(ctx, appStore, mondays, index, notifications.Previous, opts, t) {
		fmt.Fprintln(out, warningStyle.Render("◀ earlier weeks have reminders"))
	}
	if notifications.HasActiveInDirection(ctx, appStore, mondays, index, notifications.Next, opts, t) {
		fmt.Fprintln(out, warningStyle.Render("later weeks have reminders ▶"))
	}
	return nil
}

func printSummary(out io.Writer, ts model.TimeSheet, summary model.TimeSheetSummary) {
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Week %s - %s",
		timecalc.DisplayDate(ts.Dates.Monday), timecalc.DisplayDate(ts.Dates.Sunday))))
	fmt.Fprintf(out, "  Status:         %s\n", weekStatusLabel(summary.WeekStatus))

	days := make([]string, 0, 7)
	for _, d := range timecalc.DaysOfWeek {
		mark := mutedStyle.Render("·")
		if summary.DaysFilled.Get(d) {
			mark = okStyle.Render("✓")
		}
		days = append(days, d.Display()[:3]+" "+mark)
	}
	fmt.Fprintf(out, "  Days filled:    %s\n", strings.Join(days, "  "))
	fmt.Fprintf(out, "  Days saved:     %d\n", summary.TotalDaysSaved)
	fmt.Fprintf(out, "  Days submitted: %d\n", summary.TotalDaysSubmitted)
	fmt.Fprintf(out, "  Time remaining: %s\n", summary.TimeRemaining)
	if summary.EndOfMonthReminderDate != nil {
		fmt.Fprintf(out, "  Month closes:   %s\n", timecalc.DisplayDate(*summary.EndOfMonthReminderDate))
	}
}
