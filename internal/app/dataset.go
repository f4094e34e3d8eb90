package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/delaywatch/internal/config"
	"github.com/blackwell-systems/delaywatch/internal/logging"
	"github.com/blackwell-systems/delaywatch/internal/output"
	"github.com/blackwell-systems/delaywatch/internal/rental"
)

// setup loads configuration and applies the persistent flags to it.
func setup() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if flagDataset != "" {
		if rental.IsRemote(flagDataset) {
			cfg.Dataset.URL = flagDataset
			cfg.Dataset.Path = ""
		} else {
			cfg.Dataset.Path = flagDataset
		}
	}

	logCfg := logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stderr}
	if flagVerbose {
		logCfg.Level = "debug"
	}
	logging.Init(logCfg)

	if flagNoColor || !cfg.Output.Color || output.ShouldDisableColor(os.Stdout) {
		output.SetNoColor(true)
	}

	return cfg, nil
}

// loadTable resolves the configured dataset, downloading it if needed,
// and loads it into a table.
func loadTable(ctx context.Context, cfg *config.Config) (*rental.Table, error) {
	fetcher := rental.NewFetcher(cfg.Dataset.CacheDir, cfg.Dataset.Timeout())
	path, err := fetcher.Resolve(ctx, cfg.Dataset.Source())
	if err != nil {
		return nil, fmt.Errorf("resolving dataset: %w", err)
	}

	t, err := rental.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading dataset %s: %w", path, err)
	}
	logging.Info().Str("path", path).Int("rentals", t.Len()).Msg("dataset loaded")
	return t, nil
}

// scopeFlag returns the --scope flag value, falling back to the configured
// default when the flag was not set.
func scopeFlag(cmd *cobra.Command, value string, cfg *config.Config) (rental.Scope, error) {
	if !cmd.Flags().Changed("scope") {
		value = cfg.Analysis.Scope
	}
	if !rental.ValidScope(value) {
		return "", fmt.Errorf("unknown scope %q (want all, mobile or connect)", value)
	}
	return rental.ParseScope(value), nil
}

func checkThreshold(threshold int) error {
	if threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %d", threshold)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
