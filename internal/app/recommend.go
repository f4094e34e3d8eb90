package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/delaywatch/internal/analyzer"
	"github.com/blackwell-systems/delaywatch/internal/config"
	"github.com/blackwell-systems/delaywatch/internal/output"
	"github.com/blackwell-systems/delaywatch/internal/rental"
	"github.com/blackwell-systems/delaywatch/internal/suggest"
)

var (
	recommendScope    string
	recommendStart    int
	recommendStop     int
	recommendStep     int
	recommendLimit    int
	recommendCategory string
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank delay thresholds",
	Long: `Sweep delay thresholds and rank them by how much friction they remove
against how many rentals they hide and how much owners lose. Weights and
limits come from the recommend section of the config file.`,
	RunE: runRecommend,
}

func init() {
	addSweepFlags(recommendCmd, &recommendScope, &recommendStart, &recommendStop, &recommendStep)
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", 0, "Maximum number of suggestions (default from config)")
	recommendCmd.Flags().StringVar(&recommendCategory, "category", "", "Filter by category (threshold, owners, friction)")
	rootCmd.AddCommand(recommendCmd)
}

// buildAnalysisContext assembles the suggest engine input from a sweep.
func buildAnalysisContext(cfg *config.Config, t *rental.Table, scope rental.Scope, points []analyzer.SweepPoint) *suggest.AnalysisContext {
	return &suggest.AnalysisContext{
		Scope:             scope.String(),
		Points:            points,
		BackToBackRentals: t.InScope(scope).Filter(rental.Record.HasPredecessor).Len(),
		Weights: suggest.Weights{
			Friction:  cfg.Recommend.FrictionWeight,
			Affected:  cfg.Recommend.AffectedWeight,
			OwnerLoss: cfg.Recommend.OwnerLossWeight,
		},
		MaxOwnerLoss:    cfg.Recommend.MaxOwnerLoss,
		MinFrictionDrop: cfg.Recommend.MinFrictionDrop,
	}
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	opts, err := sweepOptions(cmd, cfg, recommendScope, recommendStart, recommendStop, recommendStep)
	if err != nil {
		return err
	}

	t, points, err := runSweepAnalysis(cmd.Context(), cfg, opts)
	if err != nil {
		return err
	}

	suggestions := suggest.NewEngine().Run(buildAnalysisContext(cfg, t, opts.Scope, points))
	if recommendCategory != "" {
		suggestions = filterByCategory(suggestions, recommendCategory)
	}
	limit := cfg.Recommend.MaxSuggestions
	if recommendLimit > 0 {
		limit = recommendLimit
	}
	suggestions = suggest.Limit(suggestions, limit)

	w := cmd.OutOrStdout()
	if flagJSON {
		if suggestions == nil {
			suggestions = []suggest.Suggestion{}
		}
		return writeJSON(w, suggestions)
	}
	renderSuggestions(w, suggestions)
	return nil
}

func filterByCategory(suggestions []suggest.Suggestion, category string) []suggest.Suggestion {
	var filtered []suggest.Suggestion
	for _, s := range suggestions {
		if s.Category == category {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func priorityLabel(p int) string {
	switch p {
	case suggest.PriorityCritical:
		return output.StyleError.Render("CRITICAL")
	case suggest.PriorityHigh:
		return output.StyleError.Render("HIGH")
	case suggest.PriorityMedium:
		return output.StyleWarning.Render("MEDIUM")
	default:
		return output.StyleMuted.Render("LOW")
	}
}

func renderSuggestions(w io.Writer, suggestions []suggest.Suggestion) {
	fmt.Fprintln(w, output.Section("Threshold Recommendations"))

	if len(suggestions) == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, " No recommendations for this sweep.")
		return
	}

	for i, s := range suggestions {
		fmt.Fprintln(w)
		fmt.Fprintf(w, " %d. [%s] %s\n", i+1, priorityLabel(s.Priority), output.StyleBold.Render(s.Title))
		fmt.Fprintf(w, "    %s\n", s.Description)
		fmt.Fprintf(w, "    %s\n", output.StyleMuted.Render(fmt.Sprintf("%s · impact %.1f", s.Category, s.ImpactScore)))
	}
}
