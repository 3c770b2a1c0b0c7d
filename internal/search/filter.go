// Package search holds the client-side trip filtering and selection logic:
// pure predicates over the result set of the last upstream search.
package search

import "github.com/Thongnus/TrainTicket-sub000/internal/models"

// IntRange is an inclusive [Low, High] interval.
type IntRange struct {
	Low  int64 `json:"low"`
	High int64 `json:"high"`
}

// Contains reports whether v lies inside the interval.
func (r IntRange) Contains(v int64) bool {
	return v >= r.Low && v <= r.High
}

// FilterState is the visitor's current filter controls: allowed carriage
// types, an inclusive price window and an inclusive departure-hour window.
type FilterState struct {
	CarriageTypes []models.CarriageType `json:"carriageTypes"`
	PriceRange    IntRange              `json:"priceRange"`
	HourRange     IntRange              `json:"hourRange"`
}

// Apply returns the subset of trips satisfying all three predicates
// conjunctively. The source slice is never mutated and the original relative
// order is preserved; re-applying the same state is idempotent.
//
// An empty carriage-type selection passes every trip. The price predicate
// requires the trip's own [min, max] range to sit entirely inside the filter
// window: a trip whose range exceeds the window is excluded, not partially
// matched.
func (f FilterState) Apply(trips []models.Trip) []models.Trip {
	filtered := make([]models.Trip, 0, len(trips))
	for _, trip := range trips {
		if f.matches(&trip) {
			filtered = append(filtered, trip)
		}
	}
	return filtered
}

func (f FilterState) matches(trip *models.Trip) bool {
	if !f.matchesCarriageType(trip) {
		return false
	}
	if trip.MinPrice < f.PriceRange.Low || trip.MaxPrice > f.PriceRange.High {
		return false
	}
	return f.HourRange.Contains(int64(trip.DepartureHour()))
}

func (f FilterState) matchesCarriageType(trip *models.Trip) bool {
	if len(f.CarriageTypes) == 0 {
		return true
	}
	for _, selected := range f.CarriageTypes {
		if trip.OffersType(selected) {
			return true
		}
	}
	return false
}

// Bounds derives the unfiltered filter state for a trip set: no carriage
// types selected, the price window stretched to the set's min/max prices and
// the full 0-23 hour window. Resetting the controls to this state restores
// the unfiltered list exactly.
func Bounds(trips []models.Trip) FilterState {
	state := FilterState{
		HourRange: IntRange{Low: 0, High: 23},
	}
	if len(trips) == 0 {
		return state
	}

	state.PriceRange = IntRange{Low: trips[0].MinPrice, High: trips[0].MaxPrice}
	for _, trip := range trips[1:] {
		if trip.MinPrice < state.PriceRange.Low {
			state.PriceRange.Low = trip.MinPrice
		}
		if trip.MaxPrice > state.PriceRange.High {
			state.PriceRange.High = trip.MaxPrice
		}
	}
	return state
}
