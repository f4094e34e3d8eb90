// Package app contains the Cobra command tree for delaywatch.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
	flagDataset string
)

var rootCmd = &cobra.Command{
	Use:   "delaywatch",
	Short: "Measure the impact of a minimum delay between car rentals",
	Long: `delaywatch analyzes a rental event log to help choose a minimum delay
between two consecutive rentals of the same car. For a threshold in minutes it
reports friction (late checkouts that overrun the next rental), the rentals the
threshold would hide from search, and the share of rentals owners would lose.

Run 'delaywatch' with no arguments to see the punctuality summary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSummary,
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/delaywatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&flagDataset, "dataset", "", "Dataset path or URL (overrides dataset.path)")
}
