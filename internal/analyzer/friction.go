package analyzer

import "github.com/blackwell-systems/delaywatch/internal/rental"

// Friction counts back-to-back rentals whose predecessor came back so late
// that, even with the threshold added to the scheduled gap, the delay still
// overran the rental's start. Canceled rentals among them are counted too.
func Friction(t *rental.Table, threshold int, scope rental.Scope) FrictionCount {
	var count FrictionCount
	eachFriction(t, threshold, scope, func(r rental.Record) {
		count.Events++
		if r.Canceled() {
			count.Cancellations++
		}
	})
	return count
}

// FrictionIDs returns the rental ids of the friction events counted by
// Friction, in table order.
func FrictionIDs(t *rental.Table, threshold int, scope rental.Scope) []int64 {
	ids := []int64{}
	eachFriction(t, threshold, scope, func(r rental.Record) {
		ids = append(ids, r.RentalID)
	})
	return ids
}

// eachFriction calls fn for every rental flagged as a friction event.
func eachFriction(t *rental.Table, threshold int, scope rental.Scope, fn func(rental.Record)) {
	pairs := t.BackToBack().InScope(scope)

	pairs.Each(func(_ int, r rental.Record) {
		if r.PreviousEndedRentalID == nil {
			return
		}
		// The predecessor must itself be in the filtered view.
		prev, ok := pairs.Lookup(*r.PreviousEndedRentalID)
		if !ok {
			return
		}
		if prev.DelayAtCheckout == nil || *prev.DelayAtCheckout <= 0 {
			return
		}
		if r.TimeDeltaWithPrevious == nil {
			return
		}
		if *prev.DelayAtCheckout > *r.TimeDeltaWithPrevious+threshold {
			fn(r)
		}
	})
}
