package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Thongnus/TrainTicket-sub000/internal/middleware"
	"github.com/Thongnus/TrainTicket-sub000/internal/models"
	"github.com/Thongnus/TrainTicket-sub000/internal/search"
	"github.com/Thongnus/TrainTicket-sub000/internal/stations"
	"github.com/Thongnus/TrainTicket-sub000/internal/upstream"
)

// SearchHandler handles trip search and the client-side filter engine.
type SearchHandler struct {
	client *upstream.Client
	logger *logrus.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(client *upstream.Client, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		client: client,
		logger: logger,
	}
}

// Stations handles GET /api/stations
func (h *SearchHandler) Stations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"stations": stations.List(),
	})
}

// SearchTrips handles GET /api/trips/search. The normalized result set is
// kept on the session so the filter, selection and booking steps work
// against the same snapshot; a new search discards the previous selection
// and draft.
func (h *SearchHandler) SearchTrips(c *gin.Context) {
	var query models.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Tham số tìm kiếm không hợp lệ",
		})
		return
	}
	if query.Origin == "" || query.Destination == "" || query.Date == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Ga đi, ga đến và ngày đi là bắt buộc",
		})
		return
	}
	if query.Passengers <= 0 {
		query.Passengers = 1
	}

	h.logger.WithFields(logrus.Fields{
		"origin":      query.Origin,
		"destination": query.Destination,
		"date":        query.Date,
		"passengers":  query.Passengers,
		"round_trip":  query.RoundTrip(),
	}).Info("Trip search")

	result, err := h.client.SearchTrips(c.Request.Context(), query)
	if err != nil {
		respondUpstreamError(c, h.logger, err)
		return
	}

	sess, _ := middleware.GetSession(c)
	sess.Lock()
	sess.Query = query
	sess.Results = result
	sess.Selection = search.Selection{RoundTrip: query.RoundTrip()}
	sess.ResetBooking()
	sess.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"route": gin.H{
			"origin":      stationName(query.Origin),
			"destination": stationName(query.Destination),
		},
		"departureTrips":  result.Departure,
		"returnTrips":     result.Return,
		"departureBounds": search.Bounds(result.Departure),
		"returnBounds":    search.Bounds(result.Return),
	})
}

// stationName resolves a station id from the query string to its display
// name, falling back to the raw value for ids outside the reference table.
func stationName(id string) string {
	parsed, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return id
	}
	if name := stations.Name(parsed); name != "" {
		return name
	}
	return id
}

// filterRequest is the body of POST /api/trips/filter.
type filterRequest struct {
	Direction string             `json:"direction"`
	Filter    search.FilterState `json:"filter"`
}

// FilterTrips handles POST /api/trips/filter, applying the pure filter
// predicates to the session's held result set. The held set is never
// mutated; re-filtering always starts from the full snapshot.
func (h *SearchHandler) FilterTrips(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Bộ lọc không hợp lệ",
		})
		return
	}

	sess, _ := middleware.GetSession(c)
	sess.Lock()
	defer sess.Unlock()

	if sess.Results == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Chưa có kết quả tìm kiếm để lọc",
		})
		return
	}

	source := sess.Results.Departure
	if req.Direction == "return" {
		source = sess.Results.Return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"trips":  req.Filter.Apply(source),
	})
}
