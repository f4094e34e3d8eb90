package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func samplePoints() []PointRow {
	return []PointRow{
		{Threshold: 0, FrictionEvents: 10, FrictionCancellations: 3, Affected: 0, OwnerShareLoss: 0},
		{Threshold: 30, FrictionEvents: 6, FrictionCancellations: 2, Affected: 12, OwnerShareLoss: 4.5},
		{Threshold: 60, FrictionEvents: 3, FrictionCancellations: 1, Affected: 25, OwnerShareLoss: 9.1},
	}
}

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "delaywatch.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	// A second open runs migrations against an existing schema.
	db2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db2.Close())
}

func TestMigrate_RecordsVersion(t *testing.T) {
	db := openTest(t)

	v, err := db.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, migrations[len(migrations)-1].version, v)

	require.NoError(t, db.Migrate())
	v, err = db.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, migrations[len(migrations)-1].version, v)
}

func TestSaveSweep_RoundTrip(t *testing.T) {
	db := openTest(t)

	snap := &Snapshot{Scope: "connect", Dataset: "rentals.xlsx", Version: "dev", Start: 0, Stop: 60, Step: 30}
	sugg := []Suggestion{
		{Category: "threshold", Priority: 2, Title: "Enforce a 30 minute delay", Description: "d", ImpactScore: 40, Threshold: 30},
		{Category: "friction", Priority: 4, Title: "Cancellations", Description: "d", ImpactScore: 3, Threshold: -1},
	}
	require.NoError(t, db.SaveSweep(snap, samplePoints(), sugg))

	assert.NotZero(t, snap.ID)
	assert.Len(t, snap.RunID, 36)
	assert.False(t, snap.TakenAt.IsZero())

	got, err := db.GetSnapshot(snap.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap.RunID, got.RunID)
	assert.Equal(t, "connect", got.Scope)
	assert.Equal(t, 30, got.Step)

	points, err := db.GetSweepPoints(snap.ID)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, 60, points[2].Threshold)
	assert.InDelta(t, 9.1, points[2].OwnerShareLoss, 1e-9)

	stored, err := db.GetSuggestions(snap.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, 30, stored[0].Threshold)
	assert.Equal(t, -1, stored[1].Threshold)
}

func TestGetSnapshotN_PerScope(t *testing.T) {
	db := openTest(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, scope := range []string{"all", "connect", "all"} {
		s := &Snapshot{Scope: scope, Dataset: "d", Version: "v", TakenAt: base.Add(time.Duration(i) * time.Hour), Step: 30}
		require.NoError(t, db.SaveSweep(s, nil, nil))
	}

	latest, err := db.GetLatestSnapshot("all")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, base.Add(2*time.Hour).Equal(latest.TakenAt))

	prev, err := db.GetSnapshotN("all", 2)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.True(t, base.Equal(prev.TakenAt))

	none, err := db.GetSnapshotN("all", 3)
	require.NoError(t, err)
	assert.Nil(t, none)

	n, err := db.CountSnapshots("connect")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = db.GetSnapshotN("all", 0)
	assert.Error(t, err)
}

func TestGetLatestSnapshot_Empty(t *testing.T) {
	db := openTest(t)
	s, err := db.GetLatestSnapshot("all")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSaveSweep_DuplicateThresholdRollsBack(t *testing.T) {
	db := openTest(t)

	points := []PointRow{{Threshold: 0}, {Threshold: 0}}
	err := db.SaveSweep(&Snapshot{Scope: "all", Dataset: "d", Version: "v", Step: 30}, points, nil)
	require.Error(t, err)

	n, err := db.CountSnapshots("all")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteSnapshot_Cascades(t *testing.T) {
	db := openTest(t)

	snap := &Snapshot{Scope: "all", Dataset: "d", Version: "v", Step: 30}
	require.NoError(t, db.SaveSweep(snap, samplePoints(), nil))
	require.NoError(t, db.DeleteSnapshot(snap.ID))

	points, err := db.GetSweepPoints(snap.ID)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestDiffSnapshots(t *testing.T) {
	db := openTest(t)

	prev := &Snapshot{Scope: "all", Dataset: "d", Version: "v", Step: 30}
	require.NoError(t, db.SaveSweep(prev, samplePoints(), nil))

	cur := &Snapshot{Scope: "all", Dataset: "d", Version: "v", Step: 30}
	curPoints := []PointRow{
		{Threshold: 0, FrictionEvents: 12, Affected: 0, OwnerShareLoss: 0},
		{Threshold: 30, FrictionEvents: 5, Affected: 12, OwnerShareLoss: 4.5},
		{Threshold: 90, FrictionEvents: 1, Affected: 40, OwnerShareLoss: 15},
	}
	require.NoError(t, db.SaveSweep(cur, curPoints, nil))

	diff, err := db.DiffSnapshots(prev, cur)
	require.NoError(t, err)
	require.Len(t, diff.Deltas, 2)

	assert.Equal(t, 0, diff.Deltas[0].Threshold)
	assert.Equal(t, "regressed", diff.Deltas[0].Friction.Direction)
	assert.Equal(t, 2.0, diff.Deltas[0].Friction.Delta)

	assert.Equal(t, "improved", diff.Deltas[1].Friction.Direction)
	assert.Equal(t, "unchanged", diff.Deltas[1].Affected.Direction)
	assert.Equal(t, "unchanged", diff.Deltas[1].OwnerShareLoss.Direction)

	_, err = db.DiffSnapshots(nil, cur)
	assert.Error(t, err)
}
