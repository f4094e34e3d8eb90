package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/delaywatch/internal/analyzer"
	"github.com/blackwell-systems/delaywatch/internal/config"
	"github.com/blackwell-systems/delaywatch/internal/output"
	"github.com/blackwell-systems/delaywatch/internal/store"
	"github.com/blackwell-systems/delaywatch/internal/suggest"
)

var (
	trackScope   string
	trackStart   int
	trackStop    int
	trackStep    int
	trackCompare int
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Snapshot a sweep and compare it over time",
	Long: `Run a threshold sweep, store it as a new snapshot, and compare it against
a previous snapshot of the same scope to show deltas with trend arrows.
Useful when the dataset is refreshed.`,
	RunE: runTrack,
}

func init() {
	addSweepFlags(trackCmd, &trackScope, &trackStart, &trackStop, &trackStep)
	trackCmd.Flags().IntVar(&trackCompare, "compare", 1, "Compare against Nth previous snapshot (1 = most recent)")
	rootCmd.AddCommand(trackCmd)
}

type trackResult struct {
	Snapshot *store.Snapshot     `json:"snapshot"`
	Diff     *store.SnapshotDiff `json:"diff,omitempty"`
}

func runTrack(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	if trackCompare < 1 {
		return fmt.Errorf("--compare must be at least 1, got %d", trackCompare)
	}
	opts, err := sweepOptions(cmd, cfg, trackScope, trackStart, trackStop, trackStep)
	if err != nil {
		return err
	}

	t, points, err := runSweepAnalysis(cmd.Context(), cfg, opts)
	if err != nil {
		return err
	}
	suggestions := suggest.NewEngine().Run(buildAnalysisContext(cfg, t, opts.Scope, points))

	db, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	snap := &store.Snapshot{
		Scope:   opts.Scope.String(),
		Dataset: cfg.Dataset.Source(),
		Version: appVersion,
		Start:   opts.Start,
		Stop:    opts.Stop,
		Step:    opts.Step,
	}
	if err := db.SaveSweep(snap, pointRows(points), suggestionRows(suggestions)); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	// trackCompare=1 means the snapshot just before the one saved above.
	prev, err := db.GetSnapshotN(snap.Scope, trackCompare+1)
	if err != nil {
		return fmt.Errorf("loading previous snapshot: %w", err)
	}

	res := trackResult{Snapshot: snap}
	if prev != nil {
		res.Diff, err = db.DiffSnapshots(prev, snap)
		if err != nil {
			return fmt.Errorf("comparing snapshots: %w", err)
		}
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, res)
	}
	renderTrack(w, res)
	return nil
}

func pointRows(points []analyzer.SweepPoint) []store.PointRow {
	rows := make([]store.PointRow, len(points))
	for i, p := range points {
		rows[i] = store.PointRow{
			Threshold:             p.Threshold,
			FrictionEvents:        p.Friction.Events,
			FrictionCancellations: p.Friction.Cancellations,
			Affected:              p.Affected,
			OwnerShareLoss:        p.OwnerShareLoss,
		}
	}
	return rows
}

func suggestionRows(suggestions []suggest.Suggestion) []store.Suggestion {
	rows := make([]store.Suggestion, len(suggestions))
	for i, s := range suggestions {
		rows[i] = store.Suggestion{
			Category:    s.Category,
			Priority:    s.Priority,
			Title:       s.Title,
			Description: s.Description,
			ImpactScore: s.ImpactScore,
			Threshold:   s.Threshold,
		}
	}
	return rows
}

func renderTrack(w io.Writer, res trackResult) {
	s := res.Snapshot
	fmt.Fprintln(w, output.Section("Track: Sweep Comparison"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, " Snapshot #%d (%s) taken at %s\n", s.ID, s.Scope, s.TakenAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, " %s\n", output.StyleMuted.Render("run "+s.RunID))

	if res.Diff == nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, " First snapshot recorded for this scope. Run 'delaywatch track' again after the dataset changes to see trends.")
		return
	}

	prev := res.Diff.Previous
	fmt.Fprintf(w, " Compared with #%d taken at %s\n\n", prev.ID, prev.TakenAt.Format("2006-01-02 15:04:05"))

	if len(res.Diff.Deltas) == 0 {
		fmt.Fprintln(w, " The two sweeps share no thresholds.")
		return
	}

	tbl := output.NewTable("Delay", "Friction", "", "Affected", "", "Owner loss", "").AlignRight(0, 1, 3, 5)
	for _, d := range res.Diff.Deltas {
		tbl.AddRow(
			fmt.Sprintf("%d min", d.Threshold),
			fmt.Sprintf("%.0f", d.Friction.Current),
			output.TrendArrow(d.Friction.Delta, false),
			fmt.Sprintf("%.0f", d.Affected.Current),
			output.TrendArrow(d.Affected.Delta, false),
			fmt.Sprintf("%.1f%%", d.OwnerShareLoss.Current),
			output.TrendArrow(d.OwnerShareLoss.Delta, false),
		)
	}
	tbl.Fprint(w)
}
