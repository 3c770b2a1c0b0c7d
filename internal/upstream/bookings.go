package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Thongnus/TrainTicket-sub000/internal/models"
)

// Checkout submits a booking request. On success the result carries the
// payment redirect URL; rejections come back as *APIError, including the
// SEATLOCK conflict.
func (c *Client) Checkout(ctx context.Context, ts TokenSource, req *models.BookingRequest) (*models.CheckoutResult, error) {
	var result models.CheckoutResult
	if err := c.do(ctx, http.MethodPost, "/bookings/checkout", nil, req, &result, ts); err != nil {
		return nil, err
	}
	return &result, nil
}

// BookingHistory fetches one page of the visitor's past bookings.
func (c *Client) BookingHistory(ctx context.Context, ts TokenSource, page int) (*models.BookingHistory, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var history models.BookingHistory
	if err := c.do(ctx, http.MethodGet, "/bookings/history", params, nil, &history, ts); err != nil {
		return nil, err
	}
	return &history, nil
}

// CancelBooking asks the upstream to cancel and refund a booking.
func (c *Client) CancelBooking(ctx context.Context, ts TokenSource, bookingID int64) error {
	path := fmt.Sprintf("/bookings/%d/cancel", bookingID)
	return c.do(ctx, http.MethodPost, path, nil, nil, nil, ts)
}
