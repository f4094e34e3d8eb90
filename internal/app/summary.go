package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/delaywatch/internal/analyzer"
	"github.com/blackwell-systems/delaywatch/internal/output"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show checkout punctuality and friction without a delay",
	Long: `Break rentals down by checkout timing and by whether they follow another
rental of the same car, and count the friction events that occur with no
delay threshold at all.`,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	t, err := loadTable(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	summary := analyzer.AnalyzePunctuality(t)

	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), summary)
	}
	renderSummary(cmd.OutOrStdout(), summary)
	return nil
}

func renderSummary(w io.Writer, s analyzer.PunctualitySummary) {
	fmt.Fprintln(w, output.Section("Checkout Punctuality"))
	fmt.Fprintln(w, output.Metric("Rentals", s.TotalRentals))
	fmt.Fprintln(w, output.Metric("Late checkouts", s.Late))
	fmt.Fprintln(w, output.Metric("Early checkouts", s.Early))
	fmt.Fprintln(w, output.Metric("On time", s.OnTime))
	fmt.Fprintln(w, output.Metric("Delay not reported", s.Unknown))
	fmt.Fprintln(w, output.Metric("Late share", output.ShareBar(s.LatePercent, 20)))

	fmt.Fprintln(w, output.Section("Rental Kinds"))
	fmt.Fprintln(w, output.Metric("Single rentals", s.SingleRentals))
	fmt.Fprintln(w, output.Metric("Back-to-back rentals", s.BackToBackRentals))

	fmt.Fprintln(w, output.Section("Friction With No Delay"))
	fmt.Fprintln(w, output.Metric("Friction events", s.Friction.Events))
	fmt.Fprintln(w, output.Metric("Ended", s.Friction.Ended()))
	fmt.Fprintln(w, output.Metric("Canceled", s.Friction.Cancellations))
	fmt.Fprintln(w)
	fmt.Fprintf(w, " Drivers were late %.0f%% of the time, which generated %d problems for the next driver.\n",
		s.LatePercent, s.Friction.Events)
}
