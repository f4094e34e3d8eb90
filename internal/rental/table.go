package rental

import (
	"errors"
	"fmt"
)

// ErrDuplicateRentalID is returned when two records share a rental_id.
var ErrDuplicateRentalID = errors.New("duplicate rental_id")

// Table is an immutable, ordered snapshot of rental records. Every filtering
// method returns a new Table; the receiver is never modified, so a Table can
// be shared between goroutines without locking.
type Table struct {
	records []Record
	byID    map[int64]int
}

// NewTable copies records into a new Table. Record order is preserved and
// becomes the table's iteration order.
func NewTable(records []Record) (*Table, error) {
	t := &Table{
		records: make([]Record, len(records)),
		byID:    make(map[int64]int, len(records)),
	}
	for i, r := range records {
		if _, dup := t.byID[r.RentalID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateRentalID, r.RentalID)
		}
		t.byID[r.RentalID] = i
		t.records[i] = cloneRecord(r)
	}
	return t, nil
}

// derive builds a view from records already owned by a valid table.
func derive(records []Record) *Table {
	t := &Table{
		records: records,
		byID:    make(map[int64]int, len(records)),
	}
	for i, r := range records {
		t.byID[r.RentalID] = i
	}
	return t
}

// Len returns the number of records in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// At returns the i-th record in iteration order.
func (t *Table) At(i int) Record {
	return cloneRecord(t.records[i])
}

// Records returns a copy of all records in iteration order.
func (t *Table) Records() []Record {
	out := make([]Record, t.Len())
	for i := range out {
		out[i] = cloneRecord(t.records[i])
	}
	return out
}

// Lookup returns the record with the given rental id.
func (t *Table) Lookup(id int64) (Record, bool) {
	if t == nil {
		return Record{}, false
	}
	i, ok := t.byID[id]
	if !ok {
		return Record{}, false
	}
	return cloneRecord(t.records[i]), true
}

// Filter returns a view containing the records for which keep returns true.
func (t *Table) Filter(keep func(Record) bool) *Table {
	var out []Record
	for _, r := range t.all() {
		if keep(r) {
			out = append(out, r)
		}
	}
	return derive(out)
}

// InScope returns a view restricted to the scope's check-in type. ScopeAll
// (and any unrecognized scope) returns an unfiltered view.
func (t *Table) InScope(s Scope) *Table {
	switch s {
	case ScopeMobile, ScopeConnect:
		return t.Filter(s.Matches)
	default:
		return derive(t.all())
	}
}

// Without returns a view without the records whose rental id is in ids.
func (t *Table) Without(ids []int64) *Table {
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	return t.Filter(func(r Record) bool {
		_, found := drop[r.RentalID]
		return !found
	})
}

// BackToBack returns the records that take part in a back-to-back pair:
// those holding a predecessor link and those referenced by one.
func (t *Table) BackToBack() *Table {
	referenced := make(map[int64]struct{})
	for _, r := range t.all() {
		if r.PreviousEndedRentalID != nil {
			referenced[*r.PreviousEndedRentalID] = struct{}{}
		}
	}
	return t.Filter(func(r Record) bool {
		if r.HasPredecessor() {
			return true
		}
		_, ok := referenced[r.RentalID]
		return ok
	})
}

// CarCounts returns the number of rentals per car.
func (t *Table) CarCounts() map[int64]int {
	counts := make(map[int64]int)
	for _, r := range t.all() {
		counts[r.CarID]++
	}
	return counts
}

// CarIDs returns the distinct car ids in order of first appearance.
func (t *Table) CarIDs() []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, r := range t.all() {
		if _, ok := seen[r.CarID]; ok {
			continue
		}
		seen[r.CarID] = struct{}{}
		ids = append(ids, r.CarID)
	}
	return ids
}

// all exposes the backing slice to package code that only reads it.
func (t *Table) all() []Record {
	if t == nil {
		return nil
	}
	return t.records
}

// Each calls fn for every record in iteration order. The record passed to fn
// shares pointer fields with the table and must not be modified.
func (t *Table) Each(fn func(i int, r Record)) {
	for i, r := range t.all() {
		fn(i, r)
	}
}

func cloneRecord(r Record) Record {
	if r.DelayAtCheckout != nil {
		v := *r.DelayAtCheckout
		r.DelayAtCheckout = &v
	}
	if r.PreviousEndedRentalID != nil {
		v := *r.PreviousEndedRentalID
		r.PreviousEndedRentalID = &v
	}
	if r.TimeDeltaWithPrevious != nil {
		v := *r.TimeDeltaWithPrevious
		r.TimeDeltaWithPrevious = &v
	}
	return r
}
