package app

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/delaywatch/internal/analyzer"
	"github.com/blackwell-systems/delaywatch/internal/config"
	"github.com/blackwell-systems/delaywatch/internal/logging"
	"github.com/blackwell-systems/delaywatch/internal/output"
	"github.com/blackwell-systems/delaywatch/internal/rental"
)

var (
	sweepScope string
	sweepStart int
	sweepStop  int
	sweepStep  int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Evaluate a range of delay thresholds",
	Long: `Evaluate friction, affected rentals and mean owner share loss for every
threshold from --start to --stop in steps of --step minutes. Friction bars
stack ended rentals and cancellations.`,
	RunE: runSweep,
}

func init() {
	addSweepFlags(sweepCmd, &sweepScope, &sweepStart, &sweepStop, &sweepStep)
	rootCmd.AddCommand(sweepCmd)
}

// addSweepFlags registers the range flags shared by sweep, recommend and track.
func addSweepFlags(cmd *cobra.Command, scope *string, start, stop, step *int) {
	cmd.Flags().StringVar(scope, "scope", "all", "Check-in scope: all, mobile or connect")
	cmd.Flags().IntVar(start, "start", config.DefaultSweep.Start, "First threshold, in minutes")
	cmd.Flags().IntVar(stop, "stop", config.DefaultSweep.Stop, "Last threshold, in minutes")
	cmd.Flags().IntVar(step, "step", config.DefaultSweep.Step, "Threshold step, in minutes")
}

// sweepOptions merges range flags with the configured defaults. Flags that
// were not set on the command line take the config value.
func sweepOptions(cmd *cobra.Command, cfg *config.Config, scope string, start, stop, step int) (analyzer.SweepOptions, error) {
	sc, err := scopeFlag(cmd, scope, cfg)
	if err != nil {
		return analyzer.SweepOptions{}, err
	}
	opts := analyzer.SweepOptions{
		Start:   cfg.Sweep.Start,
		Stop:    cfg.Sweep.Stop,
		Step:    cfg.Sweep.Step,
		Scope:   sc,
		Workers: cfg.Sweep.Workers,
	}
	if cmd.Flags().Changed("start") {
		opts.Start = start
	}
	if cmd.Flags().Changed("stop") {
		opts.Stop = stop
	}
	if cmd.Flags().Changed("step") {
		opts.Step = step
	}
	if _, err := analyzer.Thresholds(opts); err != nil {
		return analyzer.SweepOptions{}, err
	}
	return opts, nil
}

// runSweepAnalysis loads the dataset and sweeps it.
func runSweepAnalysis(ctx context.Context, cfg *config.Config, opts analyzer.SweepOptions) (*rental.Table, []analyzer.SweepPoint, error) {
	t, err := loadTable(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	points, err := analyzer.Sweep(ctx, t, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("sweeping thresholds: %w", err)
	}
	logging.Debug().
		Str("scope", opts.Scope.String()).
		Int("points", len(points)).
		Msg("sweep complete")
	return t, points, nil
}

type sweepResult struct {
	Scope  rental.Scope          `json:"scope"`
	Points []analyzer.SweepPoint `json:"points"`
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	opts, err := sweepOptions(cmd, cfg, sweepScope, sweepStart, sweepStop, sweepStep)
	if err != nil {
		return err
	}

	_, points, err := runSweepAnalysis(cmd.Context(), cfg, opts)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, sweepResult{Scope: opts.Scope, Points: points})
	}
	renderSweep(w, opts.Scope, points)
	return nil
}

func renderSweep(w io.Writer, scope rental.Scope, points []analyzer.SweepPoint) {
	maxFriction, maxAffected := 0, 0
	for _, p := range points {
		maxFriction = max(maxFriction, p.Friction.Events)
		maxAffected = max(maxAffected, p.Affected)
	}

	fmt.Fprintln(w, output.Section(fmt.Sprintf("Threshold sweep (%s)", scope)))
	fmt.Fprintln(w)
	tbl := output.NewTable("Delay", "Friction", "Affected", "Owner loss").AlignRight(0)
	for _, p := range points {
		tbl.AddRow(
			fmt.Sprintf("%d min", p.Threshold),
			output.FrictionBar(p.Friction.Ended(), p.Friction.Cancellations, maxFriction, 16),
			output.CountBar(p.Affected, maxAffected, 16),
			output.ShareBar(p.OwnerShareLoss, 16),
		)
	}
	tbl.Fprint(w)
}
