package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/delaywatch/internal/analyzer"
	"github.com/blackwell-systems/delaywatch/internal/output"
	"github.com/blackwell-systems/delaywatch/internal/rental"
)

var (
	frictionThreshold int
	frictionScope     string
	frictionIDs       bool
)

var frictionCmd = &cobra.Command{
	Use:   "friction",
	Short: "Count late checkouts that overrun the next rental",
	Long: `Count back-to-back rentals whose predecessor checked out later than the
scheduled gap plus the threshold. With --ids, print the rental ids of the
disrupted rentals instead.`,
	RunE: runFriction,
}

func init() {
	frictionCmd.Flags().IntVar(&frictionThreshold, "threshold", 0, "Minimum delay between rentals, in minutes")
	frictionCmd.Flags().StringVar(&frictionScope, "scope", "all", "Check-in scope: all, mobile or connect")
	frictionCmd.Flags().BoolVar(&frictionIDs, "ids", false, "List rental ids instead of counts")
	rootCmd.AddCommand(frictionCmd)
}

type frictionResult struct {
	Threshold int                    `json:"threshold"`
	Scope     rental.Scope           `json:"scope"`
	Friction  analyzer.FrictionCount `json:"friction"`
	RentalIDs []int64                `json:"rental_ids,omitempty"`
}

func runFriction(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	if err := checkThreshold(frictionThreshold); err != nil {
		return err
	}
	scope, err := scopeFlag(cmd, frictionScope, cfg)
	if err != nil {
		return err
	}

	t, err := loadTable(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	res := frictionResult{
		Threshold: frictionThreshold,
		Scope:     scope,
		Friction:  analyzer.Friction(t, frictionThreshold, scope),
	}
	if frictionIDs {
		res.RentalIDs = analyzer.FrictionIDs(t, frictionThreshold, scope)
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, res)
	}
	if frictionIDs {
		printIDs(w, res.RentalIDs)
		return nil
	}
	renderFriction(w, res)
	return nil
}

func renderFriction(w io.Writer, res frictionResult) {
	fmt.Fprintln(w, output.Section(fmt.Sprintf("Friction at %d minutes (%s)", res.Threshold, res.Scope)))
	fmt.Fprintln(w, output.Metric("Friction events", res.Friction.Events))
	fmt.Fprintln(w, output.Metric("Ended", res.Friction.Ended()))
	fmt.Fprintln(w, output.Metric("Canceled", res.Friction.Cancellations))
}

func printIDs(w io.Writer, ids []int64) {
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
}
