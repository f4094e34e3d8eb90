// Package suggest ranks candidate delay thresholds from a threshold sweep.
package suggest

import "github.com/blackwell-systems/delaywatch/internal/analyzer"

// Priority levels for suggestions.
const (
	PriorityCritical = 1
	PriorityHigh     = 2
	PriorityMedium   = 3
	PriorityLow      = 4
)

// Suggestion is a recommendation about which delay threshold to enforce.
type Suggestion struct {
	Category    string  `json:"category"`
	Priority    int     `json:"priority"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImpactScore float64 `json:"impact_score"`

	// Threshold is the threshold the suggestion is about, in minutes.
	// -1 when the suggestion is not tied to one threshold.
	Threshold int `json:"threshold"`
}

// Weights balance the three sweep metrics when scoring a threshold.
type Weights struct {
	Friction  float64 `json:"friction"`
	Affected  float64 `json:"affected"`
	OwnerLoss float64 `json:"owner_loss"`
}

// AnalysisContext provides all data needed by rules. Points must be sorted
// by threshold and should start at threshold 0 so friction reductions can
// be measured against the no-delay baseline.
type AnalysisContext struct {
	// Scope is the check-in scope the sweep was run for.
	Scope string `json:"scope"`

	// Points is the threshold sweep.
	Points []analyzer.SweepPoint `json:"points"`

	// BackToBackRentals is the number of rentals that follow another rental.
	BackToBackRentals int `json:"back_to_back_rentals"`

	Weights Weights `json:"weights"`

	// MaxOwnerLoss is the highest acceptable mean owner loss percent.
	MaxOwnerLoss float64 `json:"max_owner_loss"`

	// MinFrictionDrop is the friction reduction percent considered effective.
	MinFrictionDrop float64 `json:"min_friction_drop"`
}

// Rule is a function that examines the analysis context and produces
// zero or more suggestions.
type Rule func(ctx *AnalysisContext) []Suggestion
