package store

import "fmt"

// DiffSnapshots compares the sweep points of two snapshots at every
// threshold present in both.
func (db *DB) DiffSnapshots(previous, current *Snapshot) (*SnapshotDiff, error) {
	if previous == nil || current == nil {
		return nil, fmt.Errorf("diff needs two snapshots")
	}

	prevPoints, err := db.GetSweepPoints(previous.ID)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot %d: %w", previous.ID, err)
	}
	curPoints, err := db.GetSweepPoints(current.ID)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot %d: %w", current.ID, err)
	}

	byThreshold := make(map[int]PointRow, len(prevPoints))
	for _, p := range prevPoints {
		byThreshold[p.Threshold] = p
	}

	diff := &SnapshotDiff{Previous: previous, Current: current}
	for _, cur := range curPoints {
		prev, ok := byThreshold[cur.Threshold]
		if !ok {
			continue
		}
		diff.Deltas = append(diff.Deltas, PointDelta{
			Threshold:      cur.Threshold,
			Friction:       delta(float64(prev.FrictionEvents), float64(cur.FrictionEvents)),
			Affected:       delta(float64(prev.Affected), float64(cur.Affected)),
			OwnerShareLoss: delta(prev.OwnerShareLoss, cur.OwnerShareLoss),
		})
	}
	return diff, nil
}

func delta(previous, current float64) MetricDelta {
	d := MetricDelta{Previous: previous, Current: current, Delta: current - previous}
	switch {
	case d.Delta < 0:
		d.Direction = "improved"
	case d.Delta > 0:
		d.Direction = "regressed"
	default:
		d.Direction = "unchanged"
	}
	return d
}
