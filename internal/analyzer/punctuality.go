package analyzer

import "github.com/blackwell-systems/delaywatch/internal/rental"

// AnalyzePunctuality breaks rentals down by checkout timing and pairing, and
// counts the friction drivers experience with no delay threshold at all.
func AnalyzePunctuality(t *rental.Table) PunctualitySummary {
	summary := PunctualitySummary{
		TotalRentals: t.Len(),
	}

	if t.Len() == 0 {
		return summary
	}

	t.Each(func(_ int, r rental.Record) {
		switch r.Timing() {
		case rental.TimingLate:
			summary.Late++
		case rental.TimingEarly:
			summary.Early++
		case rental.TimingOnTime:
			summary.OnTime++
		default:
			summary.Unknown++
		}

		if r.Kind() == rental.KindBackToBack {
			summary.BackToBackRentals++
		} else {
			summary.SingleRentals++
		}
	})

	if known := summary.Late + summary.Early + summary.OnTime; known > 0 {
		summary.LatePercent = 100 * float64(summary.Late) / float64(known)
	}

	summary.Friction = Friction(t, 0, rental.ScopeAll)

	return summary
}
