// Package watcher re-evaluates the rental dataset at a regular interval and
// emits alerts when friction or owner losses shift.
package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/blackwell-systems/delaywatch/internal/analyzer"
	"github.com/blackwell-systems/delaywatch/internal/rental"
)

// Loader returns the current dataset.
type Loader func(ctx context.Context) (*rental.Table, error)

// WatchState captures the metrics of one evaluation of the dataset.
type WatchState struct {
	Timestamp time.Time
	Rentals   int

	// Baseline is the friction with no delay threshold.
	Baseline analyzer.FrictionCount

	// Point holds the metrics at the watched threshold.
	Point analyzer.SweepPoint
}

// Alert represents a notable event detected by the watcher.
type Alert struct {
	Level   string // "info", "warning", "critical"
	Title   string
	Message string
	Time    time.Time
}

// Options configures what the watcher evaluates.
type Options struct {
	Interval  time.Duration
	Threshold int
	Scope     rental.Scope

	// MaxOwnerLoss raises a warning when the mean owner loss at Threshold
	// exceeds it. Zero disables the check.
	MaxOwnerLoss float64
}

// Watcher evaluates the dataset at a regular interval and emits alerts
// when notable changes are detected.
type Watcher struct {
	load          Loader
	opts          Options
	previous      *WatchState
	alertFn       func(Alert)
	lastAlertKeys map[string]bool // suppresses repeated identical alerts
}

// New creates a Watcher over the given loader.
func New(load Loader, opts Options, alertFn func(Alert)) *Watcher {
	return &Watcher{
		load:          load,
		opts:          opts,
		alertFn:       alertFn,
		lastAlertKeys: make(map[string]bool),
	}
}

// Run starts the watch loop. It takes an initial snapshot, then checks at
// every interval. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	initial, err := w.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("initial snapshot: %w", err)
	}
	w.previous = initial

	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, a := range w.Check(ctx) {
				if w.alertFn != nil {
					w.alertFn(a)
				}
			}
		}
	}
}

// Previous returns the last successful snapshot, or nil.
func (w *Watcher) Previous() *WatchState {
	return w.previous
}

// Check performs a single check cycle: takes a new snapshot, compares it
// against the previous state, and returns any alerts. Identical alerts are
// suppressed until the underlying data changes.
func (w *Watcher) Check(ctx context.Context) []Alert {
	curr, err := w.Snapshot(ctx)
	if err != nil {
		return []Alert{{
			Level:   "warning",
			Title:   "Snapshot failed",
			Message: fmt.Sprintf("Could not evaluate the dataset: %v", err),
			Time:    time.Now(),
		}}
	}

	var raw []Alert
	if w.previous != nil {
		raw = Compare(w.previous, curr)
	}
	if w.opts.MaxOwnerLoss > 0 && curr.Point.OwnerShareLoss > w.opts.MaxOwnerLoss {
		raw = append(raw, Alert{
			Level: "warning",
			Title: "Owner loss above ceiling",
			Message: fmt.Sprintf("A %d minute delay costs owners %.1f%% of their rentals (ceiling %.1f%%)",
				curr.Point.Threshold, curr.Point.OwnerShareLoss, w.opts.MaxOwnerLoss),
			Time: curr.Timestamp,
		})
	}

	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.Level + ":" + a.Title + ":" + a.Message
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = currentKeys

	w.previous = curr
	return alerts
}

// Snapshot loads the dataset and evaluates it at the watched threshold.
func (w *Watcher) Snapshot(ctx context.Context) (*WatchState, error) {
	t, err := w.load(ctx)
	if err != nil {
		return nil, err
	}

	loss, err := analyzer.OwnerShareLoss(t, w.opts.Threshold, w.opts.Scope, analyzer.MetricMean)
	if err != nil {
		return nil, err
	}

	return &WatchState{
		Timestamp: time.Now(),
		Rentals:   t.Len(),
		Baseline:  analyzer.Friction(t, 0, w.opts.Scope),
		Point: analyzer.SweepPoint{
			Threshold:      w.opts.Threshold,
			Friction:       analyzer.Friction(t, w.opts.Threshold, w.opts.Scope),
			Affected:       analyzer.AffectedRentals(t, w.opts.Threshold, w.opts.Scope),
			OwnerShareLoss: loss,
		},
	}, nil
}
