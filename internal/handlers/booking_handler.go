package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Thongnus/TrainTicket-sub000/internal/booking"
	"github.com/Thongnus/TrainTicket-sub000/internal/middleware"
	"github.com/Thongnus/TrainTicket-sub000/internal/models"
	"github.com/Thongnus/TrainTicket-sub000/internal/session"
	"github.com/Thongnus/TrainTicket-sub000/internal/upstream"
)

// BookingHandler drives the booking workflow: trip selection, the seat
// assignment draft, promotion pricing and checkout submission.
type BookingHandler struct {
	client *upstream.Client
	logger *logrus.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(client *upstream.Client, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		client: client,
		logger: logger,
	}
}

// SelectTrip handles POST /api/booking/select. The trip must come from the
// session's current search snapshot.
func (h *BookingHandler) SelectTrip(c *gin.Context) {
	var req struct {
		Direction string `json:"direction"`
		TripID    int64  `json:"tripId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Chuyến tàu không hợp lệ",
		})
		return
	}

	sess, _ := middleware.GetSession(c)
	sess.Lock()
	defer sess.Unlock()

	if sess.Results == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Vui lòng tìm kiếm chuyến tàu trước",
		})
		return
	}

	pool := sess.Results.Departure
	if req.Direction == string(booking.DirectionReturn) {
		if !sess.Selection.RoundTrip {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Tìm kiếm hiện tại không phải khứ hồi",
			})
			return
		}
		pool = sess.Results.Return
	}

	trip := findTrip(pool, req.TripID)
	if trip == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Không tìm thấy chuyến tàu trong kết quả tìm kiếm",
		})
		return
	}

	if req.Direction == string(booking.DirectionReturn) {
		sess.Selection.SelectReturn(*trip)
	} else {
		sess.Selection.SelectOutbound(*trip)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"selection": sess.Selection,
		"ready":     sess.Selection.Ready() == nil,
	})
}

// StartDraft handles POST /api/booking/start: gate on a complete selection,
// fetch the seat maps, and create the draft with one slot per passenger.
func (h *BookingHandler) StartDraft(c *gin.Context) {
	sess, _ := middleware.GetSession(c)
	sess.Lock()
	defer sess.Unlock()

	if err := sess.Selection.Ready(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Vui lòng chọn chuyến tàu trước khi đặt chỗ",
		})
		return
	}

	outbound, err := h.client.GetTripSeats(c.Request.Context(), sess.Selection.Outbound.ID)
	if err != nil {
		respondUpstreamError(c, h.logger, err)
		return
	}

	var returnTrip *models.Trip
	if sess.Selection.RoundTrip {
		returnTrip, err = h.client.GetTripSeats(c.Request.Context(), sess.Selection.Return.ID)
		if err != nil {
			respondUpstreamError(c, h.logger, err)
			return
		}
	}

	passengers := sess.Query.Passengers
	if passengers <= 0 {
		passengers = 1
	}

	sess.Checkout = booking.NewCheckout(outbound, returnTrip, passengers, h.logger)

	h.logger.WithFields(logrus.Fields{
		"outbound_trip": outbound.ID,
		"round_trip":    returnTrip != nil,
		"passengers":    passengers,
	}).Info("Booking draft started")

	h.respondDraft(c, sess)
}

// Draft handles GET /api/booking, returning the current draft and totals.
func (h *BookingHandler) Draft(c *gin.Context) {
	sess, _ := middleware.GetSession(c)
	sess.Lock()
	defer sess.Unlock()

	if sess.Checkout == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Chưa có đặt chỗ nào đang thực hiện",
		})
		return
	}
	h.respondDraft(c, sess)
}

// AbandonDraft handles DELETE /api/booking (navigation away).
func (h *BookingHandler) AbandonDraft(c *gin.Context) {
	sess, _ := middleware.GetSession(c)
	sess.Lock()
	sess.ResetBooking()
	sess.Unlock()

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// SelectSeat handles POST /api/booking/seat: the primary seat-click path.
// A click on an unavailable seat changes nothing (the availability snapshot
// on screen may simply be stale); a click on a seat a passenger already
// holds releases it.
func (h *BookingHandler) SelectSeat(c *gin.Context) {
	var req struct {
		Direction  string `json:"direction"`
		CarriageID int64  `json:"carriageId" binding:"required"`
		SeatID     int64  `json:"seatId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Chỗ ngồi không hợp lệ",
		})
		return
	}

	sess, leg, ok := h.draftLeg(c, req.Direction)
	if !ok {
		return
	}
	defer sess.Unlock()

	err := leg.SelectSeat(req.CarriageID, req.SeatID)
	switch {
	case errors.Is(err, booking.ErrSeatUnavailable):
		// No-op per the workflow contract.
	case errors.Is(err, booking.ErrAllPassengersSeated):
		c.JSON(http.StatusConflict, gin.H{
			"status":  "error",
			"message": "Tất cả hành khách đã có chỗ ngồi",
		})
		return
	case errors.Is(err, booking.ErrSeatNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Không tìm thấy chỗ ngồi này",
		})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	h.respondDraft(c, sess)
}

// AssignSeat handles POST /api/booking/seat/assign: the secondary path that
// targets one passenger slot directly.
func (h *BookingHandler) AssignSeat(c *gin.Context) {
	var req struct {
		Direction      string `json:"direction"`
		PassengerIndex *int   `json:"passengerIndex" binding:"required"`
		CarriageID     int64  `json:"carriageId" binding:"required"`
		SeatID         int64  `json:"seatId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Chỗ ngồi không hợp lệ",
		})
		return
	}

	sess, leg, ok := h.draftLeg(c, req.Direction)
	if !ok {
		return
	}
	defer sess.Unlock()

	err := leg.AssignSeatAt(*req.PassengerIndex, req.CarriageID, req.SeatID)
	switch {
	case errors.Is(err, booking.ErrSeatTaken):
		c.JSON(http.StatusConflict, gin.H{
			"status":  "error",
			"message": "Ghế này đã được chọn cho hành khách khác",
		})
		return
	case errors.Is(err, booking.ErrSeatUnavailable):
		c.JSON(http.StatusConflict, gin.H{
			"status":  "error",
			"message": "Ghế này không còn trống",
		})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	h.respondDraft(c, sess)
}

// ClearSeat handles DELETE /api/booking/seat.
func (h *BookingHandler) ClearSeat(c *gin.Context) {
	var req struct {
		Direction      string `json:"direction"`
		PassengerIndex *int   `json:"passengerIndex" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Yêu cầu không hợp lệ",
		})
		return
	}

	sess, leg, ok := h.draftLeg(c, req.Direction)
	if !ok {
		return
	}
	defer sess.Unlock()

	if err := leg.ClearSeatAt(*req.PassengerIndex); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	h.respondDraft(c, sess)
}

// SetPassenger handles PUT /api/booking/passenger.
func (h *BookingHandler) SetPassenger(c *gin.Context) {
	var req struct {
		Direction      string `json:"direction"`
		PassengerIndex *int   `json:"passengerIndex" binding:"required"`
		Name           string `json:"name"`
		IdentityCard   string `json:"identityCard"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Yêu cầu không hợp lệ",
		})
		return
	}

	sess, leg, ok := h.draftLeg(c, req.Direction)
	if !ok {
		return
	}
	defer sess.Unlock()

	if err := leg.SetPassenger(*req.PassengerIndex, req.Name, req.IdentityCard); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	h.respondDraft(c, sess)
}

// SetContact handles PUT /api/booking/contact.
func (h *BookingHandler) SetContact(c *gin.Context) {
	var req struct {
		Email         string `json:"email"`
		Phone         string `json:"phone"`
		PaymentMethod string `json:"paymentMethod"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Yêu cầu không hợp lệ",
		})
		return
	}

	sess, ok := h.draft(c)
	if !ok {
		return
	}
	defer sess.Unlock()

	sess.Checkout.ContactEmail = req.Email
	sess.Checkout.ContactPhone = req.Phone
	if req.PaymentMethod != "" {
		sess.Checkout.PaymentMethod = req.PaymentMethod
	}

	h.respondDraft(c, sess)
}

// ApplyPromo handles POST /api/booking/promo.
func (h *BookingHandler) ApplyPromo(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Mã giảm giá là bắt buộc",
		})
		return
	}

	sess, ok := h.draft(c)
	if !ok {
		return
	}
	defer sess.Unlock()

	valid := sess.Checkout.ApplyPromo(req.Code)
	if !valid {
		h.logger.WithField("code", req.Code).Info("Promotion code rejected")
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"valid":  valid,
		"promo":  sess.Checkout.Pricing,
		"totals": sess.Checkout.Totals(),
	})
}

// Totals handles GET /api/booking/total.
func (h *BookingHandler) Totals(c *gin.Context) {
	sess, ok := h.draft(c)
	if !ok {
		return
	}
	defer sess.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"totals": sess.Checkout.Totals(),
	})
}

// draft locks the session and ensures a draft exists. On success the caller
// owns the lock.
func (h *BookingHandler) draft(c *gin.Context) (*session.Session, bool) {
	sess, _ := middleware.GetSession(c)
	sess.Lock()
	if sess.Checkout == nil {
		sess.Unlock()
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Chưa có đặt chỗ nào đang thực hiện",
		})
		return nil, false
	}
	return sess, true
}

// draftLeg additionally resolves the requested direction.
func (h *BookingHandler) draftLeg(c *gin.Context, direction string) (*session.Session, *booking.Leg, bool) {
	sess, ok := h.draft(c)
	if !ok {
		return nil, nil, false
	}

	dir := booking.DirectionOutbound
	if direction == string(booking.DirectionReturn) {
		dir = booking.DirectionReturn
	}
	leg := sess.Checkout.Leg(dir)
	if leg == nil {
		sess.Unlock()
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Đặt chỗ này không có chiều về",
		})
		return nil, nil, false
	}
	return sess, leg, true
}

func (h *BookingHandler) respondDraft(c *gin.Context, sess *session.Session) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"draft":      sess.Checkout,
		"state":      sess.Checkout.State(),
		"totals":     sess.Checkout.Totals(),
		"seatLabels": draftSeatLabels(sess.Checkout),
	})
}

// draftSeatLabels renders the per-slot seat labels shown next to each
// passenger form ("Toa A1 - Ghế 12"; empty for unseated slots).
func draftSeatLabels(co *booking.Checkout) gin.H {
	labels := gin.H{"outbound": legSeatLabels(co.Outbound)}
	if co.Return != nil {
		labels["return"] = legSeatLabels(co.Return)
	}
	return labels
}

func legSeatLabels(leg *booking.Leg) []string {
	labels := make([]string, len(leg.Passengers))
	for i := range labels {
		labels[i] = leg.SeatLabel(i)
	}
	return labels
}

func findTrip(trips []models.Trip, id int64) *models.Trip {
	for i := range trips {
		if trips[i].ID == id {
			return &trips[i]
		}
	}
	return nil
}
