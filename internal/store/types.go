// Package store provides SQLite persistence for delaywatch sweep snapshots.
package store

import "time"

// Snapshot is one stored threshold sweep over a dataset.
type Snapshot struct {
	ID      int64     `json:"id"`
	RunID   string    `json:"run_id"`
	TakenAt time.Time `json:"taken_at"`
	Scope   string    `json:"scope"`
	Dataset string    `json:"dataset"`
	Version string    `json:"version"`
	Start   int       `json:"start"`
	Stop    int       `json:"stop"`
	Step    int       `json:"step"`
}

// PointRow is one threshold of a stored sweep.
type PointRow struct {
	ID                    int64   `json:"id"`
	SnapshotID            int64   `json:"snapshot_id"`
	Threshold             int     `json:"threshold"`
	FrictionEvents        int     `json:"friction_events"`
	FrictionCancellations int     `json:"friction_cancellations"`
	Affected              int     `json:"affected"`
	OwnerShareLoss        float64 `json:"owner_share_loss"`
}

// Suggestion is a threshold recommendation recorded with a snapshot.
type Suggestion struct {
	ID          int64   `json:"id"`
	SnapshotID  int64   `json:"snapshot_id"`
	Category    string  `json:"category"`
	Priority    int     `json:"priority"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImpactScore float64 `json:"impact_score"`
	Threshold   int     `json:"threshold"`
}

// SnapshotDiff represents the comparison between two snapshots.
type SnapshotDiff struct {
	Previous *Snapshot    `json:"previous"`
	Current  *Snapshot    `json:"current"`
	Deltas   []PointDelta `json:"deltas"`
}

// PointDelta compares one threshold present in both snapshots.
type PointDelta struct {
	Threshold      int         `json:"threshold"`
	Friction       MetricDelta `json:"friction"`
	Affected       MetricDelta `json:"affected"`
	OwnerShareLoss MetricDelta `json:"owner_share_loss"`
}

// MetricDelta represents the change in a single metric between snapshots.
// Lower is better for every sweep metric.
type MetricDelta struct {
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"` // "improved", "regressed", "unchanged"
}
