package suggest

import (
	"fmt"

	"github.com/blackwell-systems/delaywatch/internal/analyzer"
)

// baseline returns the zero-threshold point, if the sweep has one.
func baseline(ctx *AnalysisContext) (analyzer.SweepPoint, bool) {
	if len(ctx.Points) == 0 || ctx.Points[0].Threshold != 0 {
		return analyzer.SweepPoint{}, false
	}
	return ctx.Points[0], true
}

// frictionDrop is the percent of baseline friction a point removes.
func frictionDrop(base, p analyzer.SweepPoint) float64 {
	if base.Friction.Events == 0 {
		return 0
	}
	return 100 * float64(base.Friction.Events-p.Friction.Events) / float64(base.Friction.Events)
}

// affectedShare is the percent of back-to-back rentals a point hides.
func affectedShare(ctx *AnalysisContext, p analyzer.SweepPoint) float64 {
	if ctx.BackToBackRentals == 0 {
		return 0
	}
	return 100 * float64(p.Affected) / float64(ctx.BackToBackRentals)
}

func (ctx *AnalysisContext) score(base, p analyzer.SweepPoint) float64 {
	return ComputeImpact(ctx.Weights, frictionDrop(base, p), affectedShare(ctx, p), p.OwnerShareLoss)
}

// NoFriction reports that no threshold is needed when late checkouts never
// overrun the next rental.
func NoFriction(ctx *AnalysisContext) []Suggestion {
	base, ok := baseline(ctx)
	if !ok || base.Friction.Events > 0 {
		return nil
	}
	return []Suggestion{{
		Category: "threshold",
		Priority: PriorityLow,
		Title:    "No delay threshold needed",
		Description: fmt.Sprintf(
			"No back-to-back rental in scope %q was disrupted by a late checkout. "+
				"Enforcing a delay would only hide rentals from search.",
			ctx.Scope,
		),
		ImpactScore: 0,
		Threshold:   0,
	}}
}

// BestBalance suggests the threshold with the highest weighted score.
func BestBalance(ctx *AnalysisContext) []Suggestion {
	base, ok := baseline(ctx)
	if !ok || base.Friction.Events == 0 {
		return nil
	}

	best := -1
	bestScore := 0.0
	for i, p := range ctx.Points[1:] {
		if s := ctx.score(base, p); s > bestScore {
			best, bestScore = i+1, s
		}
	}
	if best < 0 {
		return nil
	}

	p := ctx.Points[best]
	return []Suggestion{{
		Category: "threshold",
		Priority: PriorityHigh,
		Title:    fmt.Sprintf("Enforce a %d minute delay", p.Threshold),
		Description: fmt.Sprintf(
			"A %d minute delay removes %.0f%% of friction (%d of %d events) while hiding "+
				"%d rentals (%.1f%% of back-to-back rentals) and costing owners %.1f%% of "+
				"their rentals on average. This is the best balance across the sweep.",
			p.Threshold, frictionDrop(base, p), base.Friction.Events-p.Friction.Events,
			base.Friction.Events, p.Affected, affectedShare(ctx, p), p.OwnerShareLoss,
		),
		ImpactScore: bestScore,
		Threshold:   p.Threshold,
	}}
}

// EffectiveThreshold suggests the smallest threshold that removes at least
// MinFrictionDrop percent of friction.
func EffectiveThreshold(ctx *AnalysisContext) []Suggestion {
	base, ok := baseline(ctx)
	if !ok || base.Friction.Events == 0 || ctx.MinFrictionDrop <= 0 {
		return nil
	}

	for _, p := range ctx.Points[1:] {
		drop := frictionDrop(base, p)
		if drop < ctx.MinFrictionDrop {
			continue
		}
		return []Suggestion{{
			Category: "threshold",
			Priority: PriorityMedium,
			Title:    fmt.Sprintf("%d minutes is the smallest effective delay", p.Threshold),
			Description: fmt.Sprintf(
				"At %d minutes, friction already drops by %.0f%% (target %.0f%%). "+
					"Shorter delays keep more rentals searchable.",
				p.Threshold, drop, ctx.MinFrictionDrop,
			),
			ImpactScore: ctx.score(base, p),
			Threshold:   p.Threshold,
		}}
	}
	return nil
}

// OwnerLossCeiling warns about thresholds whose mean owner loss exceeds
// MaxOwnerLoss.
func OwnerLossCeiling(ctx *AnalysisContext) []Suggestion {
	if ctx.MaxOwnerLoss <= 0 {
		return nil
	}

	lastOK := -1
	for _, p := range ctx.Points {
		if p.OwnerShareLoss > ctx.MaxOwnerLoss {
			limit := "any threshold in the sweep"
			if lastOK >= 0 {
				limit = fmt.Sprintf("%d minutes", lastOK)
			}
			return []Suggestion{{
				Category: "owners",
				Priority: PriorityHigh,
				Title:    fmt.Sprintf("Stay below %d minutes to protect owners", p.Threshold),
				Description: fmt.Sprintf(
					"From %d minutes on, owners lose %.1f%% of their rentals on average, above "+
						"the %.1f%% ceiling. Keep the delay at or below %s.",
					p.Threshold, p.OwnerShareLoss, ctx.MaxOwnerLoss, limit,
				),
				ImpactScore: p.OwnerShareLoss - ctx.MaxOwnerLoss,
				Threshold:   p.Threshold,
			}}
		}
		lastOK = p.Threshold
	}
	return nil
}

// DiminishingReturns flags the threshold after which each further step
// removes less than half the friction the first step removed.
func DiminishingReturns(ctx *AnalysisContext) []Suggestion {
	base, ok := baseline(ctx)
	if !ok || base.Friction.Events == 0 || len(ctx.Points) < 3 {
		return nil
	}

	firstGain := base.Friction.Events - ctx.Points[1].Friction.Events
	if firstGain <= 0 {
		return nil
	}

	for i := 2; i < len(ctx.Points); i++ {
		gain := ctx.Points[i-1].Friction.Events - ctx.Points[i].Friction.Events
		if 2*gain >= firstGain {
			continue
		}
		p := ctx.Points[i-1]
		return []Suggestion{{
			Category: "threshold",
			Priority: PriorityMedium,
			Title:    fmt.Sprintf("Little is gained beyond %d minutes", p.Threshold),
			Description: fmt.Sprintf(
				"The first step removes %d friction events, but going from %d to %d minutes "+
					"removes only %d more while hiding %d additional rentals.",
				firstGain, p.Threshold, ctx.Points[i].Threshold, gain,
				ctx.Points[i].Affected-p.Affected,
			),
			ImpactScore: ctx.score(base, p) / 2,
			Threshold:   p.Threshold,
		}}
	}
	return nil
}

// CancellationShare highlights how much friction ends in a cancellation.
func CancellationShare(ctx *AnalysisContext) []Suggestion {
	base, ok := baseline(ctx)
	if !ok || base.Friction.Events == 0 || base.Friction.Cancellations == 0 {
		return nil
	}

	share := 100 * float64(base.Friction.Cancellations) / float64(base.Friction.Events)
	priority := PriorityLow
	if share >= 25 {
		priority = PriorityMedium
	}

	return []Suggestion{{
		Category: "friction",
		Priority: priority,
		Title:    "Late checkouts lead to cancellations",
		Description: fmt.Sprintf(
			"%d of %d friction events (%.0f%%) ended in a canceled rental with no delay threshold.",
			base.Friction.Cancellations, base.Friction.Events, share,
		),
		ImpactScore: share / 10,
		Threshold:   -1,
	}}
}
