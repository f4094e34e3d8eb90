package watcher

import (
	"context"
	"errors"
	"testing"

	"github.com/blackwell-systems/delaywatch/internal/analyzer"
	"github.com/blackwell-systems/delaywatch/internal/rental"
)

func intp(v int) *int    { return &v }
func idp(v int64) *int64 { return &v }

// pairTable builds n back-to-back pairs on distinct cars. Each predecessor
// is lateBy minutes late for a 30 minute gap.
func pairTable(t *testing.T, n int, lateBy int) *rental.Table {
	t.Helper()
	var records []rental.Record
	for i := 0; i < n; i++ {
		first := int64(2*i + 1)
		car := int64(100 + i)
		records = append(records,
			rental.Record{RentalID: first, CarID: car, CheckinType: rental.CheckinConnect, State: rental.StateEnded, DelayAtCheckout: intp(lateBy)},
			rental.Record{RentalID: first + 1, CarID: car, CheckinType: rental.CheckinConnect, State: rental.StateEnded,
				PreviousEndedRentalID: idp(first), TimeDeltaWithPrevious: intp(30)},
		)
	}
	tbl, err := rental.NewTable(records)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

// sequence returns a loader that yields the given tables in order, then
// repeats the last one.
func sequence(tables ...*rental.Table) Loader {
	i := 0
	return func(context.Context) (*rental.Table, error) {
		tbl := tables[i]
		if i < len(tables)-1 {
			i++
		}
		return tbl, nil
	}
}

func TestSnapshot(t *testing.T) {
	w := New(sequence(pairTable(t, 2, 90)), Options{Threshold: 60, Scope: rental.ScopeAll}, nil)
	s, err := w.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if s.Rentals != 4 {
		t.Errorf("Rentals = %d, want 4", s.Rentals)
	}
	if s.Baseline.Events != 2 {
		t.Errorf("Baseline.Events = %d, want 2", s.Baseline.Events)
	}
	// 90 > 30 + 60 is false.
	if s.Point.Friction.Events != 0 {
		t.Errorf("Point.Friction.Events = %d, want 0", s.Point.Friction.Events)
	}
	if s.Point.Affected != 2 {
		t.Errorf("Point.Affected = %d, want 2", s.Point.Affected)
	}
	if s.Point.OwnerShareLoss != 50 {
		t.Errorf("Point.OwnerShareLoss = %v, want 50", s.Point.OwnerShareLoss)
	}
}

func TestCheck_NoChangeNoAlerts(t *testing.T) {
	tbl := pairTable(t, 2, 10)
	w := New(sequence(tbl), Options{Threshold: 0}, nil)
	if alerts := w.Check(context.Background()); len(alerts) != 0 {
		t.Fatalf("first check should not alert, got %d", len(alerts))
	}
	if alerts := w.Check(context.Background()); len(alerts) != 0 {
		t.Errorf("expected no alerts for an unchanged dataset, got %d", len(alerts))
	}
}

func TestCheck_FrictionSpike(t *testing.T) {
	w := New(sequence(pairTable(t, 2, 10), pairTable(t, 3, 120)), Options{Threshold: 60}, nil)
	w.Check(context.Background())

	alerts := w.Check(context.Background())
	levels := make(map[string]int)
	for _, a := range alerts {
		levels[a.Level]++
	}
	// 120 > 30 + 60 so the delay no longer absorbs the overrun.
	if levels["critical"] != 1 {
		t.Errorf("expected 1 critical alert, got %d", levels["critical"])
	}
	if levels["warning"] != 1 {
		t.Errorf("expected 1 warning alert, got %d", levels["warning"])
	}
	if levels["info"] != 2 {
		t.Errorf("expected 2 info alerts, got %d", levels["info"])
	}
}

func TestCheck_DeduplicatesOwnerLossAlert(t *testing.T) {
	w := New(sequence(pairTable(t, 2, 10)), Options{Threshold: 60, MaxOwnerLoss: 10}, nil)

	first := w.Check(context.Background())
	if len(first) != 1 || first[0].Title != "Owner loss above ceiling" {
		t.Fatalf("expected owner loss alert, got %+v", first)
	}
	if again := w.Check(context.Background()); len(again) != 0 {
		t.Errorf("expected repeated alert to be suppressed, got %d", len(again))
	}
}

func TestCheck_LoaderError(t *testing.T) {
	w := New(func(context.Context) (*rental.Table, error) {
		return nil, errors.New("disk gone")
	}, Options{}, nil)

	alerts := w.Check(context.Background())
	if len(alerts) != 1 || alerts[0].Title != "Snapshot failed" {
		t.Fatalf("expected a snapshot failure alert, got %+v", alerts)
	}
	if w.Previous() != nil {
		t.Error("failed check should not replace the previous state")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := New(sequence(pairTable(t, 1, 10)), Options{Interval: 1}, nil)
	if err := w.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestCompare_Identical(t *testing.T) {
	s := &WatchState{Rentals: 4, Point: analyzer.SweepPoint{Threshold: 30}}
	if alerts := Compare(s, s); len(alerts) != 0 {
		t.Errorf("expected 0 alerts for identical states, got %d", len(alerts))
	}
}
