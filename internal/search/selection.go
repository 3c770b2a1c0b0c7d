package search

import (
	"errors"

	"github.com/Thongnus/TrainTicket-sub000/internal/models"
)

var (
	// ErrNoOutbound indicates checkout was attempted without an outbound trip
	ErrNoOutbound = errors.New("no outbound trip selected")

	// ErrNoReturn indicates a round trip is missing its return selection
	ErrNoReturn = errors.New("no return trip selected for round trip")
)

// Selection holds at most one selected outbound trip and, for round trips,
// one selected return trip. It gates navigation to the booking page.
type Selection struct {
	RoundTrip bool         `json:"roundTrip"`
	Outbound  *models.Trip `json:"outbound"`
	Return    *models.Trip `json:"return"`
}

// SelectOutbound records the outbound choice, replacing any previous one.
func (s *Selection) SelectOutbound(trip models.Trip) {
	s.Outbound = &trip
}

// SelectReturn records the return choice, replacing any previous one.
func (s *Selection) SelectReturn(trip models.Trip) {
	s.Return = &trip
}

// Clear drops both selections.
func (s *Selection) Clear() {
	s.Outbound = nil
	s.Return = nil
}

// Ready reports whether the selection is complete enough to open the booking
// page: an outbound trip always, plus a return trip for round trips.
func (s *Selection) Ready() error {
	if s.Outbound == nil {
		return ErrNoOutbound
	}
	if s.RoundTrip && s.Return == nil {
		return ErrNoReturn
	}
	return nil
}
