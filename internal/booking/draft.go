// Package booking implements the in-progress booking draft: per-direction
// seat assignment, promotion pricing and the checkout submission workflow.
// A draft lives inside one visitor session, which serializes all access to
// it; nothing here is safe for unsynchronized concurrent use.
package booking

import (
	"errors"
	"fmt"

	"github.com/Thongnus/TrainTicket-sub000/internal/models"
)

// Direction names one leg of the journey.
type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionReturn   Direction = "return"
)

var (
	// ErrSeatUnavailable indicates a click on a seat that was already
	// booked or out of service at fetch time. Callers treat it as a no-op.
	ErrSeatUnavailable = errors.New("seat is not available")

	// ErrAllPassengersSeated indicates a seat click with no open slot left
	ErrAllPassengersSeated = errors.New("all passengers already have seats")

	// ErrSeatTaken indicates a direct assignment of a seat another slot
	// already holds
	ErrSeatTaken = errors.New("seat is already assigned to another passenger")

	// ErrSeatNotFound indicates a seat id the held trip does not carry
	ErrSeatNotFound = errors.New("seat not found on this trip")

	// ErrSlotOutOfRange indicates a passenger index outside the slot array
	ErrSlotOutOfRange = errors.New("passenger index out of range")
)

// Leg is the seat-assignment state for one direction: the held trip snapshot
// and the ordered passenger slots. The outbound and return legs are fully
// independent.
type Leg struct {
	Trip       *models.Trip           `json:"trip"`
	Passengers []models.PassengerSlot `json:"passengers"`
}

// NewLeg creates a leg with one empty slot per requested passenger.
func NewLeg(trip *models.Trip, passengerCount int) *Leg {
	return &Leg{
		Trip:       trip,
		Passengers: make([]models.PassengerSlot, passengerCount),
	}
}

// ReplaceTrip swaps in a freshly fetched trip snapshot. Existing slot
// assignments are kept: after a seat conflict the visitor re-selects against
// the new availability by hand.
func (l *Leg) ReplaceTrip(trip *models.Trip) {
	l.Trip = trip
}

// SelectSeat handles a seat click. An unavailable seat is rejected with
// ErrSeatUnavailable. A seat some slot already holds is deselected (the
// click toggles it off). Otherwise the seat goes to the first slot without
// one, in array order; with every passenger seated the click is rejected
// with ErrAllPassengersSeated and nothing changes.
func (l *Leg) SelectSeat(carriageID, seatID int64) error {
	carriage, seat, err := l.resolve(carriageID, seatID)
	if err != nil {
		return err
	}

	if !seat.Available() {
		return ErrSeatUnavailable
	}

	for i := range l.Passengers {
		slot := &l.Passengers[i]
		if slot.SeatID != nil && *slot.SeatID == seat.ID {
			slot.ClearSeat()
			return nil
		}
	}

	for i := range l.Passengers {
		slot := &l.Passengers[i]
		if !slot.Seated() {
			slot.AssignSeat(seat.ID, carriage.ID, seat.Price)
			return nil
		}
	}

	return ErrAllPassengersSeated
}

// AssignSeatAt assigns a seat to one specific slot. Before assigning, every
// other slot is checked for the same seat id; a hit rejects the assignment
// with ErrSeatTaken and leaves all state unchanged.
func (l *Leg) AssignSeatAt(index int, carriageID, seatID int64) error {
	if index < 0 || index >= len(l.Passengers) {
		return ErrSlotOutOfRange
	}

	carriage, seat, err := l.resolve(carriageID, seatID)
	if err != nil {
		return err
	}
	if !seat.Available() {
		return ErrSeatUnavailable
	}

	for i := range l.Passengers {
		if i == index {
			continue
		}
		if other := l.Passengers[i].SeatID; other != nil && *other == seat.ID {
			return ErrSeatTaken
		}
	}

	l.Passengers[index].AssignSeat(seat.ID, carriage.ID, seat.Price)
	return nil
}

// ClearSeatAt releases the seat held by one slot.
func (l *Leg) ClearSeatAt(index int) error {
	if index < 0 || index >= len(l.Passengers) {
		return ErrSlotOutOfRange
	}
	l.Passengers[index].ClearSeat()
	return nil
}

// SetPassenger fills in the personal fields of one slot.
func (l *Leg) SetPassenger(index int, name, identityCard string) error {
	if index < 0 || index >= len(l.Passengers) {
		return ErrSlotOutOfRange
	}
	l.Passengers[index].Name = name
	l.Passengers[index].IdentityCard = identityCard
	return nil
}

// Subtotal sums the assigned seat prices. Unseated slots contribute 0.
func (l *Leg) Subtotal() int64 {
	var sum int64
	for i := range l.Passengers {
		sum += l.Passengers[i].SeatPrice()
	}
	return sum
}

// SeatLabel renders the human-readable label of a slot's seat. Resolution
// goes through the carriage id stored on the slot, not through whichever
// carriage the visitor is currently viewing: a passenger's seat may live in
// a different carriage entirely.
func (l *Leg) SeatLabel(index int) string {
	if index < 0 || index >= len(l.Passengers) {
		return ""
	}
	slot := &l.Passengers[index]
	if slot.SeatID == nil || slot.CarriageID == nil {
		return ""
	}
	for i := range l.Trip.Carriages {
		carriage := &l.Trip.Carriages[i]
		if carriage.ID != *slot.CarriageID {
			continue
		}
		if seat := carriage.FindSeat(*slot.SeatID); seat != nil {
			return fmt.Sprintf("Toa %s - Ghế %s", carriage.Number, seat.Number)
		}
	}
	return ""
}

// resolve finds the clicked seat within the held trip. The carriage id is
// taken from the click, so seats in carriages other than the displayed one
// resolve correctly.
func (l *Leg) resolve(carriageID, seatID int64) (*models.Carriage, *models.Seat, error) {
	for i := range l.Trip.Carriages {
		carriage := &l.Trip.Carriages[i]
		if carriage.ID != carriageID {
			continue
		}
		if seat := carriage.FindSeat(seatID); seat != nil {
			return carriage, seat, nil
		}
	}
	return nil, nil, ErrSeatNotFound
}
