package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/clockstorm/internal/notifications"
	"github.com/Tiliavir/clockstorm/internal/options"
	"github.com/Tiliavir/clockstorm/internal/timecalc"
)

var notificationsFormat string

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List every active reminder since installation",
	Args:  cobra.NoArgs,
	RunE:  runNotifications,
}

func init() {
	notificationsCmd.Flags().StringVar(&notificationsFormat, "format", "text", "Output format: text, json")
}

func runNotifications(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	opts := options.Load(ctx, appStore)
	all, err := notifications.All(ctx, appStore, opts, now())
	if err != nil {
		return dataError(err)
	}

	out := cmd.OutOrStdout()
	switch notificationsFormat {
	case "json":
		data, err := json.MarshalIndent(all, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "text":
		if !notifications.Any(all) {
			fmt.Fprintln(out, okStyle.Render("No active reminders."))
			return nil
		}
		for _, monday := range all.Mondays() {
			list := all[timecalc.ToDateOnlyKey(monday)]
			if len(list) == 0 {
				continue
			}
			fmt.Fprintln(out, headerStyle.Render("Week of "+timecalc.DisplayDate(monday)))
			for _, n := range list {
				fmt.Fprintf(out, "  • %s %s\n", notifications.Message(monday, n), mutedStyle.Render("["+notifications.ID(monday, n)+"]"))
			}
		}
	default:
		return fmt.Errorf("unknown format %q (use text or json)", notificationsFormat)
	}
	return nil
}
