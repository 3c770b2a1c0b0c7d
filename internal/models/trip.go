package models

import "time"

// CarriageType identifies the class of a train carriage.
type CarriageType string

const (
	CarriageSoftSeat    CarriageType = "soft_seat"
	CarriageHardSeat    CarriageType = "hard_seat"
	CarriageSoftSleeper CarriageType = "soft_sleeper"
	CarriageHardSleeper CarriageType = "hard_sleeper"
	CarriageVIP         CarriageType = "vip"
)

// SeatType identifies the position of a seat within a carriage.
type SeatType string

const (
	SeatWindow      SeatType = "window"
	SeatAisle       SeatType = "aisle"
	SeatMiddle      SeatType = "middle"
	SeatLowerBerth  SeatType = "lower_berth"
	SeatMiddleBerth SeatType = "middle_berth"
	SeatUpperBerth  SeatType = "upper_berth"
)

// Trip represents a single scheduled train journey as returned by the
// upstream search API. A Trip is immutable once fetched; a re-fetch (for
// example after a seat conflict) replaces it wholesale.
type Trip struct {
	ID                 int64          `json:"id"`
	Code               string         `json:"code"`
	TrainID            int64          `json:"trainId"`
	TrainNumber        string         `json:"trainNumber"`
	OriginStation      string         `json:"originStation"`
	DestinationStation string         `json:"destinationStation"`
	DepartureTime      time.Time      `json:"departureTime"`
	ArrivalTime        time.Time      `json:"arrivalTime"`
	DurationMinutes    int            `json:"durationMinutes"`
	MinPrice           int64          `json:"minPrice"`
	MaxPrice           int64          `json:"maxPrice"`
	CarriageTypes      []CarriageType `json:"carriageTypes"`
	AvailableSeats     int            `json:"availableSeats"`

	// Carriages is populated only by the trip detail endpoint
	// (carriages-with-seats); search results leave it empty.
	Carriages []Carriage `json:"carriages,omitempty"`
}

// OffersType reports whether the trip offers at least one carriage of the
// given type.
func (t *Trip) OffersType(ct CarriageType) bool {
	for _, offered := range t.CarriageTypes {
		if offered == ct {
			return true
		}
	}
	return false
}

// DepartureHour returns the local hour of departure (0-23).
func (t *Trip) DepartureHour() int {
	return t.DepartureTime.Hour()
}

// FindSeat locates a seat by id across all carriages of the trip. It returns
// the owning carriage and the seat, or nil if the trip does not carry the
// seat detail.
func (t *Trip) FindSeat(seatID int64) (*Carriage, *Seat) {
	for i := range t.Carriages {
		carriage := &t.Carriages[i]
		for j := range carriage.Seats {
			if carriage.Seats[j].ID == seatID {
				return carriage, &carriage.Seats[j]
			}
		}
	}
	return nil, nil
}

// Carriage is a single train car of a given class. It is owned by exactly
// one Trip.
type Carriage struct {
	ID       int64        `json:"id"`
	Number   string       `json:"number"`
	Type     CarriageType `json:"type"`
	Capacity int          `json:"capacity"`
	Seats    []Seat       `json:"seats"`
}

// FindSeat locates a seat by id within this carriage.
func (c *Carriage) FindSeat(seatID int64) *Seat {
	for i := range c.Seats {
		if c.Seats[i].ID == seatID {
			return &c.Seats[i]
		}
	}
	return nil
}

// Seat is a bookable place inside a carriage. Availability is a point-in-time
// snapshot from the upstream API, not a live view: the server re-validates at
// booking time and reports conflicts via the SEATLOCK error code.
type Seat struct {
	ID     int64    `json:"id"`
	Number string   `json:"number"`
	Type   SeatType `json:"type"`
	Price  int64    `json:"price"`
	Status string   `json:"status"`
	Booked bool     `json:"booked"`
}

// SeatStatusActive is the upstream status for a seat in service.
const SeatStatusActive = "active"

// Available reports whether the seat could be booked at fetch time.
func (s *Seat) Available() bool {
	return s.Status == SeatStatusActive && !s.Booked
}
