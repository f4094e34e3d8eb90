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
	ownersThreshold int
	ownersScope     string
	ownersMetric    string
	ownersBreakdown bool
	ownersLimit     int
)

var ownersCmd = &cobra.Command{
	Use:   "owners",
	Short: "Show the share of rentals owners would lose to a delay threshold",
	Long: `Remove the rentals a threshold would hide and compare each car's rental
count against its count in the full dataset. The per-car loss percentages are
summarized with --metric (mean, median or max). With --breakdown, the cars
losing the largest share are listed.`,
	RunE: runOwners,
}

func init() {
	ownersCmd.Flags().IntVar(&ownersThreshold, "threshold", 0, "Minimum delay between rentals, in minutes")
	ownersCmd.Flags().StringVar(&ownersScope, "scope", "all", "Check-in scope: all, mobile or connect")
	ownersCmd.Flags().StringVar(&ownersMetric, "metric", "mean", "Summary metric: mean, median or max")
	ownersCmd.Flags().BoolVar(&ownersBreakdown, "breakdown", false, "List per-car losses")
	ownersCmd.Flags().IntVar(&ownersLimit, "limit", 20, "Maximum number of cars in the breakdown (0 = all)")
	rootCmd.AddCommand(ownersCmd)
}

type ownersResult struct {
	Threshold int                `json:"threshold"`
	Scope     rental.Scope       `json:"scope"`
	Metric    analyzer.Metric    `json:"metric"`
	Loss      float64            `json:"owner_share_loss"`
	Cars      []analyzer.CarLoss `json:"cars,omitempty"`
}

func runOwners(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	if err := checkThreshold(ownersThreshold); err != nil {
		return err
	}
	scope, err := scopeFlag(cmd, ownersScope, cfg)
	if err != nil {
		return err
	}
	metricName := ownersMetric
	if !cmd.Flags().Changed("metric") {
		metricName = cfg.Analysis.Metric
	}
	metric, err := analyzer.ParseMetric(metricName)
	if err != nil {
		return err
	}

	t, err := loadTable(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	loss, err := analyzer.OwnerShareLoss(t, ownersThreshold, scope, metric)
	if err != nil {
		return err
	}

	res := ownersResult{Threshold: ownersThreshold, Scope: scope, Metric: metric, Loss: loss}
	if ownersBreakdown {
		res.Cars = topLosses(analyzer.OwnerLosses(t, ownersThreshold, scope), ownersLimit)
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, res)
	}
	renderOwners(w, res)
	return nil
}

// topLosses keeps the n cars with the largest loss, dropping cars that lose
// nothing. n <= 0 keeps every car that loses rentals.
func topLosses(losses []analyzer.CarLoss, n int) []analyzer.CarLoss {
	var out []analyzer.CarLoss
	for _, l := range losses {
		if l.Lost == 0 {
			break
		}
		out = append(out, l)
		if n > 0 && len(out) == n {
			break
		}
	}
	return out
}

func renderOwners(w io.Writer, res ownersResult) {
	fmt.Fprintln(w, output.Section(fmt.Sprintf("Owner share loss at %d minutes (%s)", res.Threshold, res.Scope)))
	fmt.Fprintln(w, output.Metric(fmt.Sprintf("%s loss", res.Metric), output.ShareBar(res.Loss, 20)))

	if !ownersBreakdown {
		return
	}
	fmt.Fprintln(w)
	if len(res.Cars) == 0 {
		fmt.Fprintln(w, " No car loses rentals at this threshold.")
		return
	}
	tbl := output.NewTable("Car", "Rentals", "Remaining", "Lost", "Loss").AlignRight(1, 2, 3, 4)
	for _, c := range res.Cars {
		tbl.AddRow(
			fmt.Sprintf("%d", c.CarID),
			fmt.Sprintf("%d", c.Baseline),
			fmt.Sprintf("%d", c.Remaining),
			fmt.Sprintf("%d", c.Lost),
			fmt.Sprintf("%.1f%%", c.LossPercent),
		)
	}
	tbl.Fprint(w)
}
