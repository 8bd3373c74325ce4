package main

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata" // zone database for hosts without one

	"github.com/couchcryptid/astro-snapshots/internal/adapter/filestore"
	"github.com/couchcryptid/astro-snapshots/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRange(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	// Spans the switch to CEST on 2024-03-31.
	days, err := dateRange("2024-03-30", "2024-04-01", loc)
	require.NoError(t, err)
	require.Len(t, days, 3)
	for _, d := range days {
		assert.Equal(t, 12, d.Hour())
	}
	assert.Equal(t, 11, days[0].UTC().Hour())
	assert.Equal(t, 10, days[2].UTC().Hour())
}

func TestDateRange_Invalid(t *testing.T) {
	_, err := dateRange("2024-01-02", "2024-01-01", time.UTC)
	assert.Error(t, err)

	_, err = dateRange("yesterday", "2024-01-01", time.UTC)
	assert.Error(t, err)

	_, err = dateRange("1900-01-01", "2100-01-01", time.UTC)
	assert.Error(t, err)
}

func TestGenerateDays(t *testing.T) {
	store := filestore.New(t.TempDir())
	days, err := dateRange("2024-01-28", "2024-02-01", time.UTC)
	require.NoError(t, err)

	written, err := generateDays(context.Background(), days, time.UTC, store)
	require.NoError(t, err)

	// 5 daily, weeks 04 and 05, months 01 and 02.
	assert.Equal(t, 9, written)
	assert.Equal(t, int64(9), store.Writes())

	weekly, err := store.List(domain.Weekly)
	require.NoError(t, err)
	require.Len(t, weekly, 2)
	assert.Equal(t, "2024-W04", weekly[0].ID)
	assert.Equal(t, "2024-W05", weekly[1].ID)

	// A second pass over the same days writes nothing.
	written, err = generateDays(context.Background(), days, time.UTC, store)
	require.NoError(t, err)
	assert.Zero(t, written)
}
