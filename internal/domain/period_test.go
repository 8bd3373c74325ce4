package domain

import (
	"testing"
	"time"
	_ "time/tzdata" // zone database for hosts without one

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rome(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	return loc
}

func TestPeriodIDsFor(t *testing.T) {
	now := time.Date(2024, time.January, 15, 12, 0, 0, 0, rome(t))

	got := PeriodIDsFor(now)
	want := PeriodIDs{Daily: "2024-01-15", Weekly: "2024-W03", Monthly: "2024-01"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("period ids mismatch (-want +got):\n%s", diff)
	}
}

func TestPeriodIDsFor_ISOYearBoundary(t *testing.T) {
	loc := rome(t)

	ids := PeriodIDsFor(time.Date(2024, time.December, 30, 9, 0, 0, 0, loc))
	assert.Equal(t, "2025-W01", ids.Weekly)
	assert.Equal(t, "2024-12", ids.Monthly)

	ids = PeriodIDsFor(time.Date(2021, time.January, 1, 9, 0, 0, 0, loc))
	assert.Equal(t, "2020-W53", ids.Weekly)
}

func TestPeriodIDsFor_UsesLocalDate(t *testing.T) {
	// 23:30 UTC on Jan 15 is already Jan 16 in Rome.
	utc := time.Date(2024, time.January, 15, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-01-15", PeriodIDsFor(utc).Daily)
	assert.Equal(t, "2024-01-16", PeriodIDsFor(utc.In(rome(t))).Daily)
}

func TestPeriodIDs_ID(t *testing.T) {
	ids := PeriodIDs{Daily: "d", Weekly: "w", Monthly: "m"}
	assert.Equal(t, "d", ids.ID(Daily))
	assert.Equal(t, "w", ids.ID(Weekly))
	assert.Equal(t, "m", ids.ID(Monthly))
	assert.Empty(t, ids.ID("yearly"))
}

func TestLocalNoon(t *testing.T) {
	loc := rome(t)
	now := time.Date(2024, time.July, 3, 23, 59, 59, 500, loc)

	noon := LocalNoon(now)
	assert.Equal(t, time.Date(2024, time.July, 3, 12, 0, 0, 0, loc), noon)
	// CEST is UTC+2 in July.
	assert.Equal(t, 10, noon.UTC().Hour())
}

func TestParsePeriodType(t *testing.T) {
	for _, p := range AllPeriodTypes() {
		got, err := ParsePeriodType(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParsePeriodType("yearly")
	assert.Error(t, err)
}

func TestPeriodType_ValidID(t *testing.T) {
	assert.True(t, Daily.ValidID("2024-01-15"))
	assert.False(t, Daily.ValidID("2024-1-15"))
	assert.True(t, Weekly.ValidID("2024-W03"))
	assert.False(t, Weekly.ValidID("2024-03"))
	assert.True(t, Monthly.ValidID("2024-01"))
	assert.False(t, Monthly.ValidID("2024-01-01"))
	assert.False(t, PeriodType("yearly").ValidID("2024"))
}

func TestPeriodType_Contains(t *testing.T) {
	ok, err := Weekly.Contains("2024-W03", "2024-01-21")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Weekly.Contains("2024-W03", "2024-01-22")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Monthly.Contains("2024-01", "2024-01-31")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = Daily.Contains("2024-01-15", "not a date")
	assert.Error(t, err)
}
