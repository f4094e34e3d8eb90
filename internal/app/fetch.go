package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/delaywatch/internal/rental"
)

var fetchForce bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the dataset into the local cache",
	Long: `Download the configured dataset URL into the cache directory so later
commands work offline. An existing cached copy is kept unless --force is set.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "Download again even if a cached copy exists")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	source := cfg.Dataset.Source()
	w := cmd.OutOrStdout()
	if !rental.IsRemote(source) {
		fmt.Fprintf(w, " Dataset is a local file: %s\n", source)
		return nil
	}

	fetcher := rental.NewFetcher(cfg.Dataset.CacheDir, cfg.Dataset.Timeout())
	path, err := fetcher.Fetch(cmd.Context(), source, fetchForce)
	if err != nil {
		return err
	}

	if flagJSON {
		return writeJSON(w, map[string]string{"url": source, "path": path})
	}
	fmt.Fprintf(w, " Cached %s\n at %s\n", source, path)
	return nil
}
