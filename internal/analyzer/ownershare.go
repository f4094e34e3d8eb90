package analyzer

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/blackwell-systems/delaywatch/internal/rental"
)

// OwnerLosses computes, for every car in the table, how many rentals it would
// lose if the rentals affected at threshold were removed. The baseline counts
// always come from the whole table; only the removed set depends on scope.
// Results are sorted by loss percent (highest first), then by car id.
func OwnerLosses(t *rental.Table, threshold int, scope rental.Scope) []CarLoss {
	baseline := t.CarCounts()
	remaining := t.Without(AffectedIDs(t, threshold, scope)).CarCounts()

	losses := make([]CarLoss, 0, len(baseline))
	for _, carID := range t.CarIDs() {
		base := baseline[carID]
		left := remaining[carID] // zero when every rental was removed
		lost := base - left
		losses = append(losses, CarLoss{
			CarID:       carID,
			Baseline:    base,
			Remaining:   left,
			Lost:        lost,
			LossPercent: 100 * float64(lost) / float64(base),
		})
	}

	sort.SliceStable(losses, func(i, j int) bool {
		if losses[i].LossPercent != losses[j].LossPercent {
			return losses[i].LossPercent > losses[j].LossPercent
		}
		return losses[i].CarID < losses[j].CarID
	})
	return losses
}

// OwnerShareLoss aggregates the per-car loss percentages of OwnerLosses with
// the given metric and rounds the result to one decimal place.
func OwnerShareLoss(t *rental.Table, threshold int, scope rental.Scope, metric Metric) (float64, error) {
	switch metric {
	case MetricMean, MetricMedian, MetricMax:
	default:
		return 0, fmt.Errorf("%w: unknown metric %q", ErrInvalidArgument, metric)
	}

	losses := OwnerLosses(t, threshold, scope)
	if len(losses) == 0 {
		return 0, fmt.Errorf("%w: no cars to aggregate owner share loss over", ErrEmptyInput)
	}

	values := make([]float64, len(losses))
	for i, l := range losses {
		values[i] = l.LossPercent
	}

	var v float64
	switch metric {
	case MetricMean:
		v = mean(values)
	case MetricMedian:
		v = median(values)
	case MetricMax:
		v = maxOf(values)
	}
	return round1(v), nil
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// round1 rounds the exact binary value of v to one decimal place, ties to
// even. 0.35 is stored just below the tie and rounds to 0.3.
func round1(v float64) float64 {
	return decimal.RequireFromString(strconv.FormatFloat(v, 'f', 1, 64)).InexactFloat64()
}
