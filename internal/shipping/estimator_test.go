package shipping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weekdaySet(days ...int) map[int]bool {
	set := make(map[int]bool)
	for _, d := range days {
		set[d] = true
	}
	return set
}

func TestEstimateEmptyWorkdays(t *testing.T) {
	_, ok := Estimate(nil, 2, date(2026, time.January, 2))
	assert.False(t, ok)

	_, ok = Estimate(map[int]bool{}, 2, date(2026, time.January, 2))
	assert.False(t, ok)
}

func TestEstimateLeadTimeSkipsWeekend(t *testing.T) {
	// Friday 2026-01-02 plus 2 business days: Saturday and Sunday do not
	// count, so the lead phase lands on Tuesday 2026-01-06.
	friday := date(2026, time.January, 2)
	require.Equal(t, time.Friday, friday.Weekday())

	got, ok := Estimate(weekdaySet(0, 1, 2, 3, 4), 2, friday)
	require.True(t, ok)
	assert.Equal(t, date(2026, time.January, 6), got)
	assert.Equal(t, time.Tuesday, got.Weekday())
}

func TestEstimateZeroLeadStaysOnWorkday(t *testing.T) {
	monday := date(2026, time.January, 5)
	require.Equal(t, time.Monday, monday.Weekday())

	got, ok := Estimate(weekdaySet(0, 1, 2, 3, 4), 0, monday)
	require.True(t, ok)
	assert.Equal(t, monday, got)
}

func TestEstimateSnapsToConfiguredWorkday(t *testing.T) {
	// Only Wednesday (2 in Monday-first encoding) is a shipping day.
	monday := date(2026, time.January, 5)

	got, ok := Estimate(weekdaySet(2), 0, monday)
	require.True(t, ok)
	assert.Equal(t, time.Wednesday, got.Weekday())
	assert.Equal(t, date(2026, time.January, 7), got)
}

func TestEstimateSnapCrossesWeekend(t *testing.T) {
	// Lead ends Friday; only Monday ships. The snap phase walks through
	// the weekend to Monday.
	thursday := date(2026, time.January, 1)
	require.Equal(t, time.Thursday, thursday.Weekday())

	got, ok := Estimate(weekdaySet(0), 1, thursday)
	require.True(t, ok)
	assert.Equal(t, time.Monday, got.Weekday())
	assert.Equal(t, date(2026, time.January, 5), got)
}

func TestEstimateBoundedOnPathologicalConfig(t *testing.T) {
	// A workday set with no reachable weekday terminates at the bound and
	// returns the reached date rather than looping or failing.
	base := date(2026, time.January, 5)

	got, ok := Estimate(map[int]bool{9: true}, 0, base)
	require.True(t, ok)
	assert.Equal(t, base.AddDate(0, 0, snapBound), got)
}

func TestEstimateNormalizesToMidnight(t *testing.T) {
	base := time.Date(2026, time.January, 5, 15, 42, 7, 0, time.UTC)

	got, ok := Estimate(weekdaySet(0, 1, 2, 3, 4), 0, base)
	require.True(t, ok)
	assert.Equal(t, date(2026, time.January, 5), got)
}

func TestEstimateResultWeekdayInWorkdays(t *testing.T) {
	workdays := weekdaySet(1, 3) // Tuesday and Thursday
	base := date(2026, time.January, 2)

	for lead := 0; lead <= 10; lead++ {
		got, ok := Estimate(workdays, lead, base)
		require.True(t, ok)
		assert.True(t, workdays[mondayFirst(got.Weekday())],
			"lead %d landed on %s", lead, got.Weekday())
	}
}

func TestWireDate(t *testing.T) {
	assert.Equal(t, "2026-03-05", WireDate(date(2026, time.March, 5)))
	assert.Equal(t, "2026-11-30", WireDate(date(2026, time.November, 30)))
}

func TestDisplayDate(t *testing.T) {
	assert.Equal(t, "Monday, January 5, 2026", DisplayDate(date(2026, time.January, 5)))
}
