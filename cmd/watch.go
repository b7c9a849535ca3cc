package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/clockstorm/internal/logger"
	"github.com/Tiliavir/clockstorm/internal/notifier"
	"github.com/Tiliavir/clockstorm/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep evaluating reminders and show them as they become due",
	Long: `Keep evaluating reminders every poll interval and print new ones. Press
Enter to dismiss what is shown; reminders seen before then stay quiet for
five minutes. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	interval, err := appCfg.Watch.PollInterval()
	if err != nil {
		return err
	}

	sinks := notifier.MultiSink{notifier.NewConsoleSink(cmd.OutOrStdout())}
	if appCfg.Webhook.URL != "" {
		sinks = append(sinks, notifier.NewWebhookSink(appCfg.Webhook.URL, appCfg.Webhook.Secret))
	}

	wopts := []watch.Option{watch.WithInterval(interval), watch.WithClock(now)}
	if appCfg.Watch.Sync {
		syncer, err := newAPISyncer(cmd)
		if err != nil {
			return err
		}
		wopts = append(wopts, watch.WithSyncer(syncer))
	}
	w := watch.New(appStore, sinks, wopts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go readDismissals(ctx, cmd, w)

	fmt.Fprintln(cmd.ErrOrStderr(), mutedStyle.Render(fmt.Sprintf("Watching every %s. Enter dismisses, Ctrl+C stops.", interval)))
	return w.Run(ctx)
}

// readDismissals dismisses the shown reminders on every input line.
func readDismissals(ctx context.Context, cmd *cobra.Command, w *watch.Watcher) {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		w.Dismiss()
		logger.Debug("reminders dismissed", "showing", len(w.Showing()))
	}
}
