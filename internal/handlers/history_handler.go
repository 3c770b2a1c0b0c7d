package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Thongnus/TrainTicket-sub000/internal/middleware"
	"github.com/Thongnus/TrainTicket-sub000/internal/services"
	"github.com/Thongnus/TrainTicket-sub000/internal/upstream"
)

// HistoryHandler serves the visitor's booking history, cancellation and
// e-ticket downloads.
type HistoryHandler struct {
	client  *upstream.Client
	tickets *services.TicketService
	logger  *logrus.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(client *upstream.Client, tickets *services.TicketService, logger *logrus.Logger) *HistoryHandler {
	return &HistoryHandler{
		client:  client,
		tickets: tickets,
		logger:  logger,
	}
}

// History handles GET /api/bookings/history
func (h *HistoryHandler) History(c *gin.Context) {
	page := 1
	if pageStr := c.Query("page"); pageStr != "" {
		if parsed, err := strconv.Atoi(pageStr); err == nil && parsed > 0 {
			page = parsed
		}
	}

	sess, _ := middleware.GetSession(c)
	sess.Lock()
	defer sess.Unlock()

	history, err := h.client.BookingHistory(c.Request.Context(), sess, page)
	if err != nil {
		respondUpstreamError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"history": history,
	})
}

// Cancel handles POST /api/bookings/:id/cancel
func (h *HistoryHandler) Cancel(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Mã đặt vé không hợp lệ",
		})
		return
	}

	sess, _ := middleware.GetSession(c)
	sess.Lock()
	defer sess.Unlock()

	if err := h.client.CancelBooking(c.Request.Context(), sess, bookingID); err != nil {
		respondUpstreamError(c, h.logger, err)
		return
	}

	h.logger.WithField("booking_id", bookingID).Info("Booking cancelled")

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Đã hủy vé, tiền hoàn sẽ được xử lý theo chính sách hoàn vé",
	})
}

// Ticket handles GET /api/bookings/:id/ticket, rendering the e-ticket PDF.
// The booking is located on the requested history page (default 1).
func (h *HistoryHandler) Ticket(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Mã đặt vé không hợp lệ",
		})
		return
	}

	page := 1
	if pageStr := c.Query("page"); pageStr != "" {
		if parsed, parseErr := strconv.Atoi(pageStr); parseErr == nil && parsed > 0 {
			page = parsed
		}
	}

	sess, _ := middleware.GetSession(c)
	sess.Lock()
	defer sess.Unlock()

	history, err := h.client.BookingHistory(c.Request.Context(), sess, page)
	if err != nil {
		respondUpstreamError(c, h.logger, err)
		return
	}

	for i := range history.Bookings {
		if history.Bookings[i].ID != bookingID {
			continue
		}
		pdf, filename, genErr := h.tickets.GenerateETicket(&history.Bookings[i])
		if genErr != nil {
			h.logger.WithError(genErr).Error("Failed to generate e-ticket")
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Không thể tạo vé điện tử",
			})
			return
		}
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, "application/pdf", pdf)
		return
	}

	c.JSON(http.StatusNotFound, gin.H{
		"status":  "error",
		"message": "Không tìm thấy đặt vé",
	})
}
