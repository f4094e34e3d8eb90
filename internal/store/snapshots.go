package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const snapshotColumns = "id, run_id, taken_at, scope, dataset, version, start, stop, step"

// SaveSweep stores a snapshot with its sweep points and suggestions in one
// transaction. RunID and TakenAt are filled in when empty. The snapshot's ID
// is set on success.
func (db *DB) SaveSweep(s *Snapshot, points []PointRow, suggestions []Suggestion) error {
	if s.RunID == "" {
		s.RunID = uuid.NewString()
	}
	if s.TakenAt.IsZero() {
		s.TakenAt = time.Now().UTC()
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO snapshots (run_id, taken_at, scope, dataset, version, start, stop, step)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.RunID, s.TakenAt.UTC().Format(time.RFC3339), s.Scope, s.Dataset, s.Version,
		s.Start, s.Stop, s.Step,
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	for _, p := range points {
		if _, err := tx.Exec(
			`INSERT INTO sweep_points
			(snapshot_id, threshold, friction_events, friction_cancellations, affected, owner_share_loss)
			VALUES (?, ?, ?, ?, ?, ?)`,
			id, p.Threshold, p.FrictionEvents, p.FrictionCancellations, p.Affected, p.OwnerShareLoss,
		); err != nil {
			return fmt.Errorf("inserting point %d: %w", p.Threshold, err)
		}
	}

	for _, sg := range suggestions {
		if _, err := tx.Exec(
			`INSERT INTO suggestions
			(snapshot_id, category, priority, title, description, impact_score, threshold)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, sg.Category, sg.Priority, sg.Title, sg.Description, sg.ImpactScore, sg.Threshold,
		); err != nil {
			return fmt.Errorf("inserting suggestion: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.ID = id
	return nil
}

// GetLatestSnapshot returns the most recent snapshot for scope, or nil if none exist.
func (db *DB) GetLatestSnapshot(scope string) (*Snapshot, error) {
	return db.GetSnapshotN(scope, 1)
}

// GetSnapshot returns a snapshot by ID, or nil if it does not exist.
func (db *DB) GetSnapshot(id int64) (*Snapshot, error) {
	row := db.conn.QueryRow("SELECT "+snapshotColumns+" FROM snapshots WHERE id = ?", id)
	return scanSnapshot(row)
}

// GetSnapshotN returns the Nth most recent snapshot for scope (1 = latest,
// 2 = previous, etc.).
func (db *DB) GetSnapshotN(scope string, n int) (*Snapshot, error) {
	if n < 1 {
		return nil, fmt.Errorf("snapshot offset must be at least 1, got %d", n)
	}
	row := db.conn.QueryRow(
		"SELECT "+snapshotColumns+" FROM snapshots WHERE scope = ? ORDER BY id DESC LIMIT 1 OFFSET ?",
		scope, n-1,
	)
	return scanSnapshot(row)
}

// CountSnapshots returns the number of stored snapshots for scope.
func (db *DB) CountSnapshots(scope string) (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM snapshots WHERE scope = ?", scope).Scan(&n)
	return n, err
}

func scanSnapshot(row *sql.Row) (*Snapshot, error) {
	var s Snapshot
	var takenAt string
	err := row.Scan(&s.ID, &s.RunID, &takenAt, &s.Scope, &s.Dataset, &s.Version, &s.Start, &s.Stop, &s.Step)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
	return &s, nil
}

// GetSweepPoints returns the points of a snapshot ordered by threshold.
func (db *DB) GetSweepPoints(snapshotID int64) ([]PointRow, error) {
	rows, err := db.conn.Query(
		`SELECT id, snapshot_id, threshold, friction_events, friction_cancellations, affected, owner_share_loss
		 FROM sweep_points WHERE snapshot_id = ? ORDER BY threshold`,
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var points []PointRow
	for rows.Next() {
		var p PointRow
		if err := rows.Scan(&p.ID, &p.SnapshotID, &p.Threshold, &p.FrictionEvents,
			&p.FrictionCancellations, &p.Affected, &p.OwnerShareLoss); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// GetSuggestions returns the suggestions of a snapshot, highest impact first.
func (db *DB) GetSuggestions(snapshotID int64) ([]Suggestion, error) {
	rows, err := db.conn.Query(
		`SELECT id, snapshot_id, category, priority, title, description, impact_score, threshold
		 FROM suggestions WHERE snapshot_id = ? ORDER BY impact_score DESC, id`,
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var suggestions []Suggestion
	for rows.Next() {
		var s Suggestion
		if err := rows.Scan(&s.ID, &s.SnapshotID, &s.Category, &s.Priority,
			&s.Title, &s.Description, &s.ImpactScore, &s.Threshold); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}

// DeleteSnapshot removes a snapshot and its points and suggestions.
func (db *DB) DeleteSnapshot(id int64) error {
	_, err := db.conn.Exec("DELETE FROM snapshots WHERE id = ?", id)
	return err
}
