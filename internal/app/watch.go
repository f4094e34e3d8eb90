package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/delaywatch/internal/config"
	"github.com/blackwell-systems/delaywatch/internal/logging"
	"github.com/blackwell-systems/delaywatch/internal/output"
	"github.com/blackwell-systems/delaywatch/internal/rental"
	"github.com/blackwell-systems/delaywatch/internal/watcher"
)

var (
	watchInterval  time.Duration
	watchThreshold int
	watchScope     string
	watchNotify    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-evaluate the dataset periodically and alert on changes",
	Long: `Reload the dataset at a regular interval and alert when friction gets past
the watched threshold, friction or cancellations rise, or the owner loss at
the threshold exceeds recommend.max_owner_loss. Remote datasets are downloaded
again on every check. Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 15*time.Minute, "Time between checks")
	watchCmd.Flags().IntVar(&watchThreshold, "threshold", 60, "Delay threshold to watch, in minutes")
	watchCmd.Flags().StringVar(&watchScope, "scope", "all", "Check-in scope: all, mobile or connect")
	watchCmd.Flags().BoolVar(&watchNotify, "notify", false, "Send desktop notifications")
	rootCmd.AddCommand(watchCmd)
}

// reloader returns a loader that refreshes remote datasets on every call.
func reloader(cfg *config.Config) watcher.Loader {
	fetcher := rental.NewFetcher(cfg.Dataset.CacheDir, cfg.Dataset.Timeout())
	source := cfg.Dataset.Source()
	return func(ctx context.Context) (*rental.Table, error) {
		path := source
		if rental.IsRemote(source) {
			var err error
			if path, err = fetcher.Fetch(ctx, source, true); err != nil {
				return nil, err
			}
		}
		return rental.LoadFile(path)
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	if err := checkThreshold(watchThreshold); err != nil {
		return err
	}
	if watchInterval <= 0 {
		return fmt.Errorf("--interval must be positive, got %s", watchInterval)
	}
	scope, err := scopeFlag(cmd, watchScope, cfg)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	alertFn := func(a watcher.Alert) {
		style := output.StyleMuted
		switch a.Level {
		case "critical":
			style = output.StyleError
		case "warning":
			style = output.StyleWarning
		}
		fmt.Fprintf(w, " %s %s %s: %s\n",
			output.StyleMuted.Render(a.Time.Format("15:04:05")),
			style.Render(fmt.Sprintf("[%s]", a.Level)), a.Title, a.Message)
		if watchNotify {
			if err := watcher.Notify(a); err != nil {
				logging.Warn().Err(err).Msg("notification failed")
			}
		}
	}

	opts := watcher.Options{
		Interval:     watchInterval,
		Threshold:    watchThreshold,
		Scope:        scope,
		MaxOwnerLoss: cfg.Recommend.MaxOwnerLoss,
	}
	fmt.Fprintf(w, " Watching %s every %s at %d minutes (%s). Press Ctrl-C to stop.\n",
		cfg.Dataset.Source(), watchInterval, watchThreshold, scope)

	err = watcher.New(reloader(cfg), opts, alertFn).Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
