package analyzer

import "github.com/blackwell-systems/delaywatch/internal/rental"

// AffectedRentals counts rentals whose scheduled gap to the previous rental is
// shorter than threshold. These rentals would disappear from search results
// if the threshold were enforced. Rentals without a known gap never count.
func AffectedRentals(t *rental.Table, threshold int, scope rental.Scope) int {
	n := 0
	eachAffected(t, threshold, scope, func(rental.Record) { n++ })
	return n
}

// AffectedIDs returns the rental ids counted by AffectedRentals, in table order.
func AffectedIDs(t *rental.Table, threshold int, scope rental.Scope) []int64 {
	ids := []int64{}
	eachAffected(t, threshold, scope, func(r rental.Record) {
		ids = append(ids, r.RentalID)
	})
	return ids
}

func eachAffected(t *rental.Table, threshold int, scope rental.Scope, fn func(rental.Record)) {
	t.InScope(scope).Each(func(_ int, r rental.Record) {
		if r.TimeDeltaWithPrevious != nil && *r.TimeDeltaWithPrevious < threshold {
			fn(r)
		}
	})
}
