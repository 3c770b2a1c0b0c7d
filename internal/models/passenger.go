package models

// PassengerSlot is one passenger position in the booking draft. Slots are
// created when the passenger count is known (from the search query) and
// mutated in place as the visitor assigns seats and fills in fields. Seat
// fields stay nil until a seat is assigned.
type PassengerSlot struct {
	Name         string `json:"name"`
	IdentityCard string `json:"identityCard"`
	SeatID       *int64 `json:"seatId"`
	CarriageID   *int64 `json:"carriageId"`
	Price        *int64 `json:"price"`
}

// Seated reports whether the slot has a seat assigned.
func (p *PassengerSlot) Seated() bool {
	return p.SeatID != nil
}

// ClearSeat returns the slot's seat assignment to the unassigned state. The
// name and identity card are kept.
func (p *PassengerSlot) ClearSeat() {
	p.SeatID = nil
	p.CarriageID = nil
	p.Price = nil
}

// AssignSeat records a seat on the slot.
func (p *PassengerSlot) AssignSeat(seatID, carriageID, price int64) {
	p.SeatID = &seatID
	p.CarriageID = &carriageID
	p.Price = &price
}

// SeatPrice returns the assigned seat price, or 0 for an unseated slot.
// Unseated slots contribute nothing to the subtotal; submission validation
// is what rejects them.
func (p *PassengerSlot) SeatPrice() int64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}
