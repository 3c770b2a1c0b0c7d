package models

import "time"

// BookingPassenger is one (seat, passenger) pair in a booking submission.
type BookingPassenger struct {
	SeatID       int64  `json:"seatId"`
	FullName     string `json:"passengerName"`
	IdentityCard string `json:"identityCard"`
}

// BookingRequest is the unit of submission sent to POST /bookings/checkout.
// The upstream server is the sole authority on whether it succeeds.
type BookingRequest struct {
	TripID           int64              `json:"tripId"`
	PaymentMethod    string             `json:"paymentMethod"`
	ContactEmail     string             `json:"contactEmail"`
	ContactPhone     string             `json:"contactPhone"`
	Passengers       []BookingPassenger `json:"passengers"`
	PromoCode        string             `json:"promoCode,omitempty"`
	ReturnTripID     *int64             `json:"returnTripId,omitempty"`
	ReturnPassengers []BookingPassenger `json:"returnPassengers,omitempty"`
}

// CheckoutResult is the successful response of a booking submission. The
// browser is redirected to PaymentURL; payment completion happens on an
// external gateway.
type CheckoutResult struct {
	BookingID   int64  `json:"bookingId"`
	BookingCode string `json:"bookingCode"`
	PaymentURL  string `json:"paymentUrl"`
}

// Booking is one entry of the visitor's booking history.
type Booking struct {
	ID            int64     `json:"id"`
	Code          string    `json:"code"`
	TripCode      string    `json:"tripCode"`
	TrainNumber   string    `json:"trainNumber"`
	Origin        string    `json:"originStation"`
	Destination   string    `json:"destinationStation"`
	DepartureTime time.Time `json:"departureTime"`
	Seats         []string  `json:"seats"`
	TotalAmount   int64     `json:"totalAmount"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	BookedAt      time.Time `json:"bookedAt"`
}

// BookingHistory is a page of the visitor's past bookings.
type BookingHistory struct {
	Bookings   []Booking `json:"bookings"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
	TotalCount int       `json:"totalCount"`
}
