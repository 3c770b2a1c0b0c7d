package search

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thongnus/TrainTicket-sub000/internal/models"
)

func trip(id int64, minPrice, maxPrice int64, hour int, types ...models.CarriageType) models.Trip {
	return models.Trip{
		ID:            id,
		Code:          fmt.Sprintf("SE%d", id),
		MinPrice:      minPrice,
		MaxPrice:      maxPrice,
		DepartureTime: time.Date(2026, 9, 1, hour, 30, 0, 0, time.Local),
		CarriageTypes: types,
	}
}

func sampleTrips() []models.Trip {
	return []models.Trip{
		trip(1, 200000, 400000, 6, models.CarriageSoftSeat, models.CarriageHardSeat),
		trip(2, 350000, 900000, 12, models.CarriageSoftSleeper),
		trip(3, 150000, 300000, 22, models.CarriageHardSeat),
		trip(4, 500000, 1200000, 8, models.CarriageVIP, models.CarriageSoftSleeper),
	}
}

func TestApply_UnfilteredBoundsKeepEverything(t *testing.T) {
	trips := sampleTrips()
	state := Bounds(trips)

	filtered := state.Apply(trips)
	assert.Equal(t, trips, filtered)
}

func TestApply_CarriageTypePredicate(t *testing.T) {
	trips := sampleTrips()
	state := Bounds(trips)
	state.CarriageTypes = []models.CarriageType{models.CarriageHardSeat}

	filtered := state.Apply(trips)
	require.Len(t, filtered, 2)
	assert.Equal(t, int64(1), filtered[0].ID)
	assert.Equal(t, int64(3), filtered[1].ID)
}

func TestApply_EmptyTypeSelectionPassesAll(t *testing.T) {
	trips := sampleTrips()
	state := Bounds(trips)
	state.CarriageTypes = nil

	assert.Len(t, state.Apply(trips), len(trips))
}

func TestApply_PricePredicateExcludesPartialOverlap(t *testing.T) {
	trips := sampleTrips()
	state := Bounds(trips)
	state.PriceRange = IntRange{Low: 100000, High: 500000}

	// Trip 2 starts at 350000 inside the window but tops out at 900000:
	// a trip whose own range exceeds the window is excluded entirely.
	filtered := state.Apply(trips)
	require.Len(t, filtered, 2)
	assert.Equal(t, int64(1), filtered[0].ID)
	assert.Equal(t, int64(3), filtered[1].ID)
}

func TestApply_HourPredicateIsInclusive(t *testing.T) {
	trips := sampleTrips()
	state := Bounds(trips)
	state.HourRange = IntRange{Low: 6, High: 12}

	filtered := state.Apply(trips)
	require.Len(t, filtered, 3)
	for _, got := range filtered {
		assert.GreaterOrEqual(t, got.DepartureHour(), 6)
		assert.LessOrEqual(t, got.DepartureHour(), 12)
	}
}

func TestApply_Conjunction(t *testing.T) {
	trips := sampleTrips()
	state := FilterState{
		CarriageTypes: []models.CarriageType{models.CarriageSoftSleeper},
		PriceRange:    IntRange{Low: 300000, High: 1000000},
		HourRange:     IntRange{Low: 10, High: 14},
	}

	filtered := state.Apply(trips)
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(2), filtered[0].ID)
}

func TestApply_AlwaysSubsetAndOrderPreserving(t *testing.T) {
	trips := sampleTrips()
	states := []FilterState{
		Bounds(trips),
		{PriceRange: IntRange{Low: 0, High: 1000000000}, HourRange: IntRange{Low: 0, High: 23}},
		{CarriageTypes: []models.CarriageType{models.CarriageVIP}, PriceRange: IntRange{Low: 0, High: 2000000}, HourRange: IntRange{Low: 0, High: 23}},
		{PriceRange: IntRange{Low: 999, High: 1000}, HourRange: IntRange{Low: 3, High: 4}},
	}

	ids := func(list []models.Trip) map[int64]int {
		out := make(map[int64]int, len(list))
		for i, item := range list {
			out[item.ID] = i
		}
		return out
	}

	sourceIDs := ids(trips)
	for _, state := range states {
		filtered := state.Apply(trips)

		lastIndex := -1
		for _, got := range filtered {
			index, found := sourceIDs[got.ID]
			require.True(t, found, "filtered output must be a subset of the source")
			assert.Greater(t, index, lastIndex, "relative order must be preserved")
			lastIndex = index
		}
	}
}

func TestApply_DoesNotMutateSource(t *testing.T) {
	trips := sampleTrips()
	state := Bounds(trips)
	state.CarriageTypes = []models.CarriageType{models.CarriageVIP}

	_ = state.Apply(trips)
	assert.Equal(t, sampleTrips(), trips)
}

func TestApply_Idempotent(t *testing.T) {
	trips := sampleTrips()
	state := Bounds(trips)
	state.HourRange = IntRange{Low: 6, High: 12}

	once := state.Apply(trips)
	twice := state.Apply(once)
	assert.Equal(t, once, twice)
}

func TestBounds(t *testing.T) {
	trips := sampleTrips()
	state := Bounds(trips)

	assert.Empty(t, state.CarriageTypes)
	assert.Equal(t, IntRange{Low: 150000, High: 1200000}, state.PriceRange)
	assert.Equal(t, IntRange{Low: 0, High: 23}, state.HourRange)
}

func TestBounds_Empty(t *testing.T) {
	state := Bounds(nil)
	assert.Equal(t, IntRange{Low: 0, High: 23}, state.HourRange)
	assert.Equal(t, IntRange{}, state.PriceRange)
}
