package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Thongnus/TrainTicket-sub000/internal/models"
	"github.com/Thongnus/TrainTicket-sub000/internal/upstream"
	"github.com/Thongnus/TrainTicket-sub000/pkg/validator"
)

// State is the checkout workflow state. The tagged state replaces the
// original tangle of independent booleans so that impossible combinations
// (submitting and rejected at once) cannot be represented.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateRejected   State = "rejected"
	StateConflict   State = "conflict"
)

// ErrSubmissionInFlight indicates a duplicate submit while one is pending
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// Gateway is the slice of the upstream client the checkout needs. Handlers
// bind it to the session's token source; tests substitute fakes.
type Gateway interface {
	Checkout(ctx context.Context, req *models.BookingRequest) (*models.CheckoutResult, error)
	GetTripSeats(ctx context.Context, tripID int64) (*models.Trip, error)
}

// Checkout is the booking draft for one visitor session: both legs, the
// active promotion, contact info and the workflow state.
type Checkout struct {
	Outbound *Leg `json:"outbound"`
	// Return is nil for one-way bookings.
	Return *Leg `json:"return,omitempty"`

	Pricing       Pricing `json:"pricing"`
	ContactEmail  string  `json:"contactEmail"`
	ContactPhone  string  `json:"contactPhone"`
	PaymentMethod string  `json:"paymentMethod"`

	state      State
	submitting bool

	logger *logrus.Logger
	fields *validator.ContactValidator
}

// NewCheckout creates a draft for the given trip selection and passenger
// count. For round trips the return leg gets its own independent slot array
// of the same size.
func NewCheckout(outbound *models.Trip, returnTrip *models.Trip, passengerCount int, logger *logrus.Logger) *Checkout {
	co := &Checkout{
		Outbound: NewLeg(outbound, passengerCount),
		state:    StateIdle,
		logger:   logger,
		fields:   validator.NewContactValidator(),
	}
	if returnTrip != nil {
		co.Return = NewLeg(returnTrip, passengerCount)
	}
	return co
}

// State returns the current workflow state.
func (co *Checkout) State() State {
	return co.state
}

// RoundTrip reports whether the draft has a return leg.
func (co *Checkout) RoundTrip() bool {
	return co.Return != nil
}

// Leg returns the leg for a direction, or nil when the draft has no return
// leg.
func (co *Checkout) Leg(dir Direction) *Leg {
	if dir == DirectionReturn {
		return co.Return
	}
	return co.Outbound
}

// ApplyPromo applies a discount code against the draft's passenger count.
func (co *Checkout) ApplyPromo(code string) bool {
	return co.Pricing.Apply(code, len(co.Outbound.Passengers))
}

// Totals computes the current price breakdown over both legs.
func (co *Checkout) Totals() Totals {
	subtotal := co.Outbound.Subtotal()
	if co.Return != nil {
		subtotal += co.Return.Subtotal()
	}
	return co.Pricing.Totals(subtotal)
}

// Validate checks contact info and every passenger of both legs. Validation
// is exhaustive: all failures are collected into one field-keyed map rather
// than stopping at the first. An empty map means the draft is submittable.
func (co *Checkout) Validate() map[string]string {
	fieldErrors := make(map[string]string)

	if err := co.fields.ValidateEmail(co.ContactEmail); err != nil {
		fieldErrors["email"] = err.Error()
	}
	if _, err := co.fields.ValidatePhone(co.ContactPhone); err != nil {
		fieldErrors["phone"] = err.Error()
	}

	co.validateLeg(co.Outbound, "", fieldErrors)
	if co.Return != nil {
		co.validateLeg(co.Return, "return_", fieldErrors)
	}

	return fieldErrors
}

func (co *Checkout) validateLeg(leg *Leg, prefix string, fieldErrors map[string]string) {
	for i := range leg.Passengers {
		slot := &leg.Passengers[i]
		if err := co.fields.ValidateName(slot.Name); err != nil {
			fieldErrors[fmt.Sprintf("%sname_%d", prefix, i)] = err.Error()
		}
		if err := co.fields.ValidateIdentityCard(slot.IdentityCard); err != nil {
			fieldErrors[fmt.Sprintf("%sidentity_%d", prefix, i)] = err.Error()
		}
		if !slot.Seated() {
			fieldErrors[fmt.Sprintf("%sseat_%d", prefix, i)] = "passenger has no seat assigned"
		}
	}
}

// FieldOrder returns the canonical field ordering of the checkout form, used
// to pick the first invalid field to scroll into view.
func (co *Checkout) FieldOrder() []string {
	order := []string{"email", "phone"}
	for _, prefix := range co.legPrefixes() {
		count := len(co.Outbound.Passengers)
		for i := 0; i < count; i++ {
			order = append(order,
				fmt.Sprintf("%sname_%d", prefix, i),
				fmt.Sprintf("%sidentity_%d", prefix, i),
				fmt.Sprintf("%sseat_%d", prefix, i),
			)
		}
	}
	return order
}

func (co *Checkout) legPrefixes() []string {
	if co.Return != nil {
		return []string{"", "return_"}
	}
	return []string{""}
}

// FirstInvalid picks the first field of the canonical order present in a
// validation result.
func (co *Checkout) FirstInvalid(fieldErrors map[string]string) string {
	for _, field := range co.FieldOrder() {
		if _, found := fieldErrors[field]; found {
			return field
		}
	}
	return ""
}

// Outcome is the result of one submission attempt.
type Outcome struct {
	State State `json:"state"`
	// PaymentURL is set on success; the browser navigates there.
	PaymentURL string `json:"paymentUrl,omitempty"`
	// Message is the user-facing rejection or conflict copy.
	Message string `json:"message,omitempty"`
	// FieldErrors is non-empty when validation blocked the submission.
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	// FirstInvalid names the field to scroll into view.
	FirstInvalid string `json:"firstInvalid,omitempty"`
	// ConflictSeats lists the human-readable labels of seats lost to a
	// concurrent booking.
	ConflictSeats []string `json:"conflictSeats,omitempty"`
}

// Submit runs the full checkout workflow: validate, serialize, submit,
// interpret. Validation failures never reach the network. A SEATLOCK
// conflict resolves the lost seats to labels and re-fetches the outbound
// seat map before the visitor can retry; every failure path returns the
// draft to an interactive idle state.
func (co *Checkout) Submit(ctx context.Context, gw Gateway) (*Outcome, error) {
	if co.submitting {
		return nil, ErrSubmissionInFlight
	}
	co.submitting = true
	defer func() { co.submitting = false }()

	co.state = StateValidating
	if fieldErrors := co.Validate(); len(fieldErrors) > 0 {
		co.state = StateIdle
		return &Outcome{
			State:        StateIdle,
			FieldErrors:  fieldErrors,
			FirstInvalid: co.FirstInvalid(fieldErrors),
		}, nil
	}

	co.state = StateSubmitting
	result, err := gw.Checkout(ctx, co.buildRequest())
	if err == nil {
		co.state = StateSuccess
		return &Outcome{State: StateSuccess, PaymentURL: result.PaymentURL}, nil
	}

	if errors.Is(err, upstream.ErrSessionExpired) {
		co.state = StateIdle
		return nil, err
	}

	var apiErr *upstream.APIError
	if !errors.As(err, &apiErr) {
		// Network-level failure: surface a generic notice, draft untouched.
		co.state = StateIdle
		co.logger.WithError(err).Error("Checkout submission failed before reaching the booking API")
		return &Outcome{
			State:   StateRejected,
			Message: "Không thể kết nối đến hệ thống đặt vé, vui lòng thử lại",
		}, nil
	}

	if apiErr.IsSeatLock() {
		return co.handleSeatLock(ctx, gw, apiErr)
	}

	co.state = StateIdle
	co.logger.WithFields(logrus.Fields{
		"http_status": apiErr.HTTPStatus,
		"code":        apiErr.Code,
	}).Warn("Checkout rejected by the booking API")
	return &Outcome{State: StateRejected, Message: apiErr.UserMessage()}, nil
}

// handleSeatLock is the only read-after-conflict reconciliation in the
// application: label the lost seats, then replace the outbound trip with a
// fresh fetch so the seat map reflects true availability. There is no
// automatic retry; the visitor re-selects and resubmits by hand.
func (co *Checkout) handleSeatLock(ctx context.Context, gw Gateway, apiErr *upstream.APIError) (*Outcome, error) {
	labels := co.resolveSeatLabels(apiErr.ConflictedSeatIDs())
	message := fmt.Sprintf(
		"Rất tiếc, các chỗ sau vừa được hành khách khác đặt: %s. Vui lòng chọn chỗ khác.",
		strings.Join(labels, ", "),
	)

	fresh, err := gw.GetTripSeats(ctx, co.Outbound.Trip.ID)
	if err != nil {
		co.logger.WithError(err).Error("Failed to re-fetch seat map after seat conflict")
	} else {
		co.Outbound.ReplaceTrip(fresh)
	}

	co.state = StateIdle
	return &Outcome{
		State:         StateConflict,
		Message:       message,
		ConflictSeats: labels,
	}, nil
}

// resolveSeatLabels maps conflicted seat ids back to "Toa X - Ghế Y" labels
// by searching the held outbound and return trip structures.
func (co *Checkout) resolveSeatLabels(seatIDs []int64) []string {
	labels := make([]string, 0, len(seatIDs))
	for _, id := range seatIDs {
		labels = append(labels, co.seatLabel(id))
	}
	return labels
}

func (co *Checkout) seatLabel(seatID int64) string {
	trips := []*models.Trip{co.Outbound.Trip}
	if co.Return != nil {
		trips = append(trips, co.Return.Trip)
	}
	for _, trip := range trips {
		if carriage, seat := trip.FindSeat(seatID); seat != nil {
			return fmt.Sprintf("Toa %s - Ghế %s", carriage.Number, seat.Number)
		}
	}
	return fmt.Sprintf("Ghế #%d", seatID)
}

// buildRequest serializes the draft into the upstream booking request.
func (co *Checkout) buildRequest() *models.BookingRequest {
	req := &models.BookingRequest{
		TripID:        co.Outbound.Trip.ID,
		PaymentMethod: co.PaymentMethod,
		ContactEmail:  strings.TrimSpace(co.ContactEmail),
		ContactPhone:  co.fields.SanitizePhone(co.ContactPhone),
		Passengers:    legPassengers(co.Outbound),
		PromoCode:     co.Pricing.Code,
	}
	if co.Return != nil {
		returnID := co.Return.Trip.ID
		req.ReturnTripID = &returnID
		req.ReturnPassengers = legPassengers(co.Return)
	}
	return req
}

func legPassengers(leg *Leg) []models.BookingPassenger {
	out := make([]models.BookingPassenger, 0, len(leg.Passengers))
	for i := range leg.Passengers {
		slot := &leg.Passengers[i]
		out = append(out, models.BookingPassenger{
			SeatID:       *slot.SeatID,
			FullName:     strings.TrimSpace(slot.Name),
			IdentityCard: strings.TrimSpace(slot.IdentityCard),
		})
	}
	return out
}
