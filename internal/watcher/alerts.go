package watcher

import "fmt"

// Compare detects notable changes between two watch states and returns alerts.
func Compare(prev, curr *WatchState) []Alert {
	var alerts []Alert

	alerts = append(alerts, compareCritical(prev, curr)...)
	alerts = append(alerts, compareWarning(prev, curr)...)
	alerts = append(alerts, compareInfo(prev, curr)...)

	return alerts
}

// compareCritical flags friction that got past the watched threshold.
func compareCritical(prev, curr *WatchState) []Alert {
	if curr.Point.Friction.Events <= prev.Point.Friction.Events {
		return nil
	}
	return []Alert{{
		Level: "critical",
		Title: "Friction despite the delay",
		Message: fmt.Sprintf("%d late checkouts now overrun the next rental even with a %d minute delay (was %d)",
			curr.Point.Friction.Events, curr.Point.Threshold, prev.Point.Friction.Events),
		Time: curr.Timestamp,
	}}
}

// compareWarning flags growing baseline friction and cancellations.
func compareWarning(prev, curr *WatchState) []Alert {
	var alerts []Alert

	if curr.Baseline.Events > prev.Baseline.Events {
		alerts = append(alerts, Alert{
			Level:   "warning",
			Title:   "Friction spike",
			Message: fmt.Sprintf("Friction with no delay rose from %d to %d", prev.Baseline.Events, curr.Baseline.Events),
			Time:    curr.Timestamp,
		})
	}
	if curr.Baseline.Cancellations > prev.Baseline.Cancellations {
		alerts = append(alerts, Alert{
			Level: "warning",
			Title: "More cancellations after late checkouts",
			Message: fmt.Sprintf("%d new canceled rentals followed a late checkout",
				curr.Baseline.Cancellations-prev.Baseline.Cancellations),
			Time: curr.Timestamp,
		})
	}
	return alerts
}

// compareInfo reports dataset growth and shifts in hidden rentals.
func compareInfo(prev, curr *WatchState) []Alert {
	var alerts []Alert

	if curr.Rentals != prev.Rentals {
		alerts = append(alerts, Alert{
			Level:   "info",
			Title:   "Dataset changed",
			Message: fmt.Sprintf("%d rentals (was %d)", curr.Rentals, prev.Rentals),
			Time:    curr.Timestamp,
		})
	}
	if curr.Point.Affected != prev.Point.Affected {
		alerts = append(alerts, Alert{
			Level: "info",
			Title: "Hidden rentals changed",
			Message: fmt.Sprintf("A %d minute delay now hides %d rentals (was %d)",
				curr.Point.Threshold, curr.Point.Affected, prev.Point.Affected),
			Time: curr.Timestamp,
		})
	}
	return alerts
}
