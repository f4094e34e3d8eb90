package rental

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int    { return &v }
func idp(v int64) *int64 { return &v }

func sampleRecords() []Record {
	return []Record{
		{RentalID: 1, CarID: 10, CheckinType: CheckinMobile, State: StateEnded, DelayAtCheckout: intp(50)},
		{RentalID: 2, CarID: 10, CheckinType: CheckinMobile, State: StateCanceled, PreviousEndedRentalID: idp(1), TimeDeltaWithPrevious: intp(20)},
		{RentalID: 3, CarID: 20, CheckinType: CheckinConnect, State: StateEnded, DelayAtCheckout: intp(-5)},
		{RentalID: 4, CarID: 30, CheckinType: "paper", State: StateEnded, PreviousEndedRentalID: idp(99), TimeDeltaWithPrevious: intp(0)},
	}
}

func TestNewTable_RejectsDuplicateIDs(t *testing.T) {
	_, err := NewTable([]Record{{RentalID: 1}, {RentalID: 1}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateRentalID))
}

func TestNewTable_CopiesInput(t *testing.T) {
	records := sampleRecords()
	tbl, err := NewTable(records)
	require.NoError(t, err)

	*records[0].DelayAtCheckout = 999
	records[1].State = "mutated"

	r, ok := tbl.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, 50, *r.DelayAtCheckout)
	assert.Equal(t, StateCanceled, tbl.At(1).State)
}

func TestTable_LookupMissing(t *testing.T) {
	tbl, err := NewTable(sampleRecords())
	require.NoError(t, err)

	_, ok := tbl.Lookup(99)
	assert.False(t, ok)

	var nilTable *Table
	assert.Equal(t, 0, nilTable.Len())
	_, ok = nilTable.Lookup(1)
	assert.False(t, ok)
}

func TestTable_InScope(t *testing.T) {
	tbl, err := NewTable(sampleRecords())
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.InScope(ScopeMobile).Len())
	assert.Equal(t, 1, tbl.InScope(ScopeConnect).Len())
	assert.Equal(t, 4, tbl.InScope(ScopeAll).Len())
	assert.Equal(t, 4, tbl.InScope("").Len())
	assert.Equal(t, 4, tbl.InScope("bogus").Len())

	// The source table is untouched by derived views.
	assert.Equal(t, 4, tbl.Len())
}

func TestTable_BackToBack(t *testing.T) {
	tbl, err := NewTable(sampleRecords())
	require.NoError(t, err)

	view := tbl.BackToBack()
	var ids []int64
	view.Each(func(_ int, r Record) { ids = append(ids, r.RentalID) })

	// 1 is referenced by 2; 2 and 4 hold links (4's predecessor is dangling).
	assert.Equal(t, []int64{1, 2, 4}, ids)
}

func TestTable_Without(t *testing.T) {
	tbl, err := NewTable(sampleRecords())
	require.NoError(t, err)

	view := tbl.Without([]int64{2, 3, 42})
	assert.Equal(t, 2, view.Len())
	_, ok := view.Lookup(2)
	assert.False(t, ok)
	assert.Equal(t, 4, tbl.Len())
}

func TestTable_CarCounts(t *testing.T) {
	tbl, err := NewTable(sampleRecords())
	require.NoError(t, err)

	assert.Equal(t, map[int64]int{10: 2, 20: 1, 30: 1}, tbl.CarCounts())
	assert.Equal(t, []int64{10, 20, 30}, tbl.CarIDs())
}

func TestRecord_TimingAndKind(t *testing.T) {
	tests := []struct {
		name   string
		rec    Record
		timing Timing
		kind   Kind
	}{
		{"late", Record{DelayAtCheckout: intp(12)}, TimingLate, KindSingle},
		{"early", Record{DelayAtCheckout: intp(-3)}, TimingEarly, KindSingle},
		{"on time", Record{DelayAtCheckout: intp(0)}, TimingOnTime, KindSingle},
		{"unknown", Record{PreviousEndedRentalID: idp(7)}, TimingUnknown, KindBackToBack},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.timing, tc.rec.Timing())
			assert.Equal(t, tc.kind, tc.rec.Kind())
		})
	}
}

func TestParseScope(t *testing.T) {
	assert.Equal(t, ScopeMobile, ParseScope("mobile"))
	assert.Equal(t, ScopeConnect, ParseScope(" Connect "))
	assert.Equal(t, ScopeAll, ParseScope("all"))
	assert.Equal(t, ScopeAll, ParseScope(""))
	assert.Equal(t, ScopeAll, ParseScope("paper"))

	assert.True(t, ValidScope(""))
	assert.True(t, ValidScope("connect"))
	assert.False(t, ValidScope("paper"))
	assert.True(t, ValidScope(" Mobile "))
	assert.True(t, ValidScope("\tconnect\n"))
	assert.Equal(t, ScopeMobile, ParseScope(" Mobile "))
	assert.Equal(t, "all", Scope("").String())
}
