package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blackwell-systems/delaywatch/internal/rental"
)

func TestAnalyzePunctuality_Empty(t *testing.T) {
	summary := AnalyzePunctuality(mustTable(t))
	assert.Equal(t, PunctualitySummary{}, summary)
}

func TestAnalyzePunctuality(t *testing.T) {
	tbl := mustTable(t,
		rental.Record{RentalID: 1, CarID: 1, State: rental.StateEnded, DelayAtCheckout: intp(50)},
		rental.Record{RentalID: 2, CarID: 1, State: rental.StateCanceled, PreviousEndedRentalID: idp(1), TimeDeltaWithPrevious: intp(20)},
		rental.Record{RentalID: 3, CarID: 2, State: rental.StateEnded, DelayAtCheckout: intp(-12)},
		rental.Record{RentalID: 4, CarID: 2, State: rental.StateEnded, DelayAtCheckout: intp(0)},
		rental.Record{RentalID: 5, CarID: 3, State: rental.StateEnded, DelayAtCheckout: intp(5)},
	)

	summary := AnalyzePunctuality(tbl)

	assert.Equal(t, 5, summary.TotalRentals)
	assert.Equal(t, 2, summary.Late)
	assert.Equal(t, 1, summary.Early)
	assert.Equal(t, 1, summary.OnTime)
	assert.Equal(t, 1, summary.Unknown)
	assert.InDelta(t, 50.0, summary.LatePercent, 0.001)
	assert.Equal(t, 4, summary.SingleRentals)
	assert.Equal(t, 1, summary.BackToBackRentals)
	assert.Equal(t, FrictionCount{Events: 1, Cancellations: 1}, summary.Friction)
}
