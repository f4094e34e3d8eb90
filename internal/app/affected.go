package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/delaywatch/internal/analyzer"
	"github.com/blackwell-systems/delaywatch/internal/output"
	"github.com/blackwell-systems/delaywatch/internal/rental"
)

var (
	affectedThreshold int
	affectedScope     string
	affectedIDs       bool
)

var affectedCmd = &cobra.Command{
	Use:   "affected",
	Short: "Count rentals a delay threshold would hide from search",
	Long: `Count back-to-back rentals whose scheduled gap to the previous rental is
below the threshold. These rentals could not have been booked had the
threshold been enforced.`,
	RunE: runAffected,
}

func init() {
	affectedCmd.Flags().IntVar(&affectedThreshold, "threshold", 0, "Minimum delay between rentals, in minutes")
	affectedCmd.Flags().StringVar(&affectedScope, "scope", "all", "Check-in scope: all, mobile or connect")
	affectedCmd.Flags().BoolVar(&affectedIDs, "ids", false, "List rental ids instead of a count")
	rootCmd.AddCommand(affectedCmd)
}

type affectedResult struct {
	Threshold int          `json:"threshold"`
	Scope     rental.Scope `json:"scope"`
	Affected  int          `json:"affected"`
	RentalIDs []int64      `json:"rental_ids,omitempty"`
}

func runAffected(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	if err := checkThreshold(affectedThreshold); err != nil {
		return err
	}
	scope, err := scopeFlag(cmd, affectedScope, cfg)
	if err != nil {
		return err
	}

	t, err := loadTable(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	res := affectedResult{
		Threshold: affectedThreshold,
		Scope:     scope,
		Affected:  analyzer.AffectedRentals(t, affectedThreshold, scope),
	}
	if affectedIDs {
		res.RentalIDs = analyzer.AffectedIDs(t, affectedThreshold, scope)
	}

	w := cmd.OutOrStdout()
	switch {
	case flagJSON:
		return writeJSON(w, res)
	case affectedIDs:
		printIDs(w, res.RentalIDs)
	default:
		fmt.Fprintln(w, output.Section(fmt.Sprintf("Affected rentals at %d minutes (%s)", res.Threshold, res.Scope)))
		fmt.Fprintln(w, output.Metric("Hidden from search", res.Affected))
	}
	return nil
}
