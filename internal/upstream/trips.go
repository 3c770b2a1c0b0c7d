package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Thongnus/TrainTicket-sub000/internal/models"
)

// SearchTrips queries the upstream for trips matching the visitor's search.
// The upstream answers either {departureTrips, returnTrips} or, for older
// deployments, a flat trip array; both normalize into a SearchResult.
func (c *Client) SearchTrips(ctx context.Context, q models.SearchQuery) (*models.SearchResult, error) {
	params := url.Values{}
	params.Set("origin", q.Origin)
	params.Set("destination", q.Destination)
	params.Set("date", q.Date)
	params.Set("passengers", strconv.Itoa(q.Passengers))
	if q.ReturnDate != "" {
		params.Set("returnDate", q.ReturnDate)
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/trips/search", params, nil, &raw, nil); err != nil {
		return nil, err
	}

	return normalizeSearchResult(raw)
}

func normalizeSearchResult(raw json.RawMessage) (*models.SearchResult, error) {
	if len(raw) == 0 {
		return &models.SearchResult{}, nil
	}

	var result models.SearchResult
	if err := json.Unmarshal(raw, &result); err == nil && (result.Departure != nil || result.Return != nil) {
		return &result, nil
	}

	// Flat array shape: all trips are outbound.
	var flat []models.Trip
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return &models.SearchResult{Departure: flat}, nil
}

// GetTripSeats fetches the full seat map of one trip. The returned Trip
// replaces any previously held copy wholesale; seat availability is a
// snapshot taken at fetch time.
func (c *Client) GetTripSeats(ctx context.Context, tripID int64) (*models.Trip, error) {
	var trip models.Trip
	path := fmt.Sprintf("/trips/%d/carriages-with-seats", tripID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &trip, nil); err != nil {
		return nil, err
	}
	return &trip, nil
}
