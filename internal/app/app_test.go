package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/delaywatch/internal/analyzer"
	"github.com/blackwell-systems/delaywatch/internal/config"
	"github.com/blackwell-systems/delaywatch/internal/suggest"
)

// Rental 3 is dropped on load. Rentals 2 and 5 are disrupted with no delay:
// 1 was 30 minutes late for a 20 minute gap, 4 was 100 minutes late for a
// 60 minute gap and 5 ended up canceled.
const fixtureCSV = `rental_id,car_id,checkin_type,state,delay_at_checkout_in_minutes,previous_ended_rental_id,time_delta_with_previous_rental_in_minutes
1,10,mobile,ended,30,,
2,10,mobile,ended,-10,1,20
3,20,connect,canceled,,,
4,20,connect,ended,100,,
5,20,connect,canceled,,4,60
6,30,connect,ended,5,,
`

// resetFlags restores every flag to its default so commands can run more
// than once in one process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func fixture(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "rentals.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"summary", "friction", "affected", "owners", "sweep", "recommend", "track", "fetch", "watch", "mcp"}
	got := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		got[cmd.Name()] = true
	}
	for _, name := range want {
		assert.True(t, got[name], "%s subcommand not registered on rootCmd", name)
	}
}

func TestSummary_JSON(t *testing.T) {
	path := fixture(t)

	out, err := run(t, "summary", "--json", "--dataset", path)
	require.NoError(t, err)

	var s analyzer.PunctualitySummary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 5, s.TotalRentals)
	assert.Equal(t, 2, s.Friction.Events)
	assert.Equal(t, 1, s.Friction.Cancellations)
}

func TestSummary_Text(t *testing.T) {
	path := fixture(t)

	out, err := run(t, "--no-color", "--dataset", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Checkout Punctuality")
	assert.Contains(t, out, "which generated 2 problems")
}

func TestFriction_IDs(t *testing.T) {
	path := fixture(t)

	out, err := run(t, "friction", "--ids", "--dataset", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "5"}, strings.Fields(out))

	out, err = run(t, "friction", "--ids", "--scope", "connect", "--dataset", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, strings.Fields(out))
}

func TestFriction_Rejects(t *testing.T) {
	path := fixture(t)

	_, err := run(t, "friction", "--threshold", "-5", "--dataset", path)
	assert.ErrorContains(t, err, "non-negative")

	_, err = run(t, "friction", "--scope", "bike", "--dataset", path)
	assert.ErrorContains(t, err, "unknown scope")
}

func TestAffected_JSON(t *testing.T) {
	path := fixture(t)

	out, err := run(t, "affected", "--threshold", "30", "--json", "--dataset", path)
	require.NoError(t, err)

	var res affectedResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 1, res.Affected)
	assert.Equal(t, 30, res.Threshold)
}

func TestOwners_InvalidMetric(t *testing.T) {
	path := fixture(t)

	_, err := run(t, "owners", "--metric", "mode", "--dataset", path)
	assert.ErrorIs(t, err, analyzer.ErrInvalidArgument)
}

func TestOwners_Breakdown(t *testing.T) {
	path := fixture(t)

	out, err := run(t, "owners", "--threshold", "30", "--breakdown", "--json", "--dataset", path)
	require.NoError(t, err)

	var res ownersResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Cars, 1)
	assert.Equal(t, int64(10), res.Cars[0].CarID)
	assert.Equal(t, 50.0, res.Cars[0].LossPercent)
	// Cars 10, 20 and 30 lose 50%, 0% and 0%.
	assert.Equal(t, 16.7, res.Loss)
}

func TestSweep_JSON(t *testing.T) {
	path := fixture(t)

	out, err := run(t, "sweep", "--json", "--stop", "60", "--dataset", path)
	require.NoError(t, err)

	var res sweepResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Points, 3)
	assert.Equal(t, []int{0, 30, 60}, []int{res.Points[0].Threshold, res.Points[1].Threshold, res.Points[2].Threshold})
	// Rental 4's 100 minute overrun still hits 5 at 30 minutes.
	assert.Equal(t, 2, res.Points[0].Friction.Events)
	assert.Equal(t, 1, res.Points[1].Friction.Events)
	assert.Equal(t, 0, res.Points[2].Friction.Events)
}

func TestSweep_InvalidRange(t *testing.T) {
	path := fixture(t)

	_, err := run(t, "sweep", "--step", "0", "--dataset", path)
	assert.ErrorIs(t, err, analyzer.ErrInvalidArgument)
}

func TestRecommend_JSON(t *testing.T) {
	path := fixture(t)

	out, err := run(t, "recommend", "--json", "--stop", "90", "--dataset", path)
	require.NoError(t, err)

	var suggestions []suggest.Suggestion
	require.NoError(t, json.Unmarshal([]byte(out), &suggestions))
	assert.NotEmpty(t, suggestions)
	for i := 1; i < len(suggestions); i++ {
		assert.GreaterOrEqual(t, suggestions[i-1].ImpactScore, suggestions[i].ImpactScore)
	}
}

func TestTrack_ComparesWithPrevious(t *testing.T) {
	path := fixture(t)

	out, err := run(t, "track", "--json", "--stop", "60", "--dataset", path)
	require.NoError(t, err)
	var first trackResult
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	assert.Nil(t, first.Diff)

	out, err = run(t, "track", "--json", "--stop", "60", "--dataset", path)
	require.NoError(t, err)
	var second trackResult
	require.NoError(t, json.Unmarshal([]byte(out), &second))
	require.NotNil(t, second.Diff)
	assert.Len(t, second.Diff.Deltas, 3)
	assert.Equal(t, "unchanged", second.Diff.Deltas[0].Friction.Direction)
	assert.NotEqual(t, first.Snapshot.RunID, second.Snapshot.RunID)
}

func TestFetch_LocalFile(t *testing.T) {
	path := fixture(t)

	out, err := run(t, "fetch", "--dataset", path)
	require.NoError(t, err)
	assert.Contains(t, out, "local file")
}

func TestReloader_LocalFile(t *testing.T) {
	path := fixture(t)

	cfg := &config.Config{Dataset: config.Dataset{Path: path}}
	tbl, err := reloader(cfg)(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, tbl.Len())
}

func TestWatch_RejectsInterval(t *testing.T) {
	path := fixture(t)

	_, err := run(t, "watch", "--interval", "0s", "--dataset", path)
	assert.ErrorContains(t, err, "interval")
}
