package analyzer

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/delaywatch/internal/rental"
)

func intp(v int) *int    { return &v }
func idp(v int64) *int64 { return &v }

func mustTable(t *testing.T, records ...rental.Record) *rental.Table {
	t.Helper()
	tbl, err := rental.NewTable(records)
	require.NoError(t, err)
	return tbl
}

// pairTable is the two-row table used by several scenarios: rental 1 came
// back 50 minutes late and rental 2 was scheduled 20 minutes after it.
func pairTable(t *testing.T) *rental.Table {
	return mustTable(t,
		rental.Record{RentalID: 1, CarID: 100, CheckinType: rental.CheckinMobile, State: rental.StateEnded, DelayAtCheckout: intp(50)},
		rental.Record{RentalID: 2, CarID: 100, CheckinType: rental.CheckinMobile, State: rental.StateCanceled, PreviousEndedRentalID: idp(1), TimeDeltaWithPrevious: intp(20)},
	)
}

// randomTable builds a reproducible table of chained rentals across a few
// cars, with a mix of missing delays, dangling links and check-in types.
func randomTable(t *testing.T, seed uint64, n int) *rental.Table {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	checkins := []rental.CheckinType{rental.CheckinMobile, rental.CheckinConnect}
	states := []string{rental.StateEnded, rental.StateEnded, rental.StateEnded, rental.StateCanceled}

	lastByCar := make(map[int64]int64)
	records := make([]rental.Record, 0, n)
	for i := 0; i < n; i++ {
		id := int64(1000 + i)
		car := int64(rng.IntN(8))
		r := rental.Record{
			RentalID:    id,
			CarID:       car,
			CheckinType: checkins[rng.IntN(len(checkins))],
			State:       states[rng.IntN(len(states))],
		}
		if rng.IntN(5) != 0 {
			r.DelayAtCheckout = intp(rng.IntN(400) - 120)
		}
		if prev, ok := lastByCar[car]; ok && rng.IntN(2) == 0 {
			r.PreviousEndedRentalID = idp(prev)
			if rng.IntN(6) != 0 {
				r.TimeDeltaWithPrevious = intp(rng.IntN(25) * 30)
			}
		} else if rng.IntN(10) == 0 {
			r.PreviousEndedRentalID = idp(-id) // outside the dataset
			r.TimeDeltaWithPrevious = intp(rng.IntN(12) * 30)
		}
		lastByCar[car] = id
		records = append(records, r)
	}
	return mustTable(t, records...)
}
