package handlers

import (
	"context"
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

// CheckoutHandler submits the booking draft.
type CheckoutHandler struct {
	client *upstream.Client
	logger *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(client *upstream.Client, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		client: client,
		logger: logger,
	}
}

// sessionGateway binds the upstream client to one session's tokens,
// narrowing it to the slice of calls the checkout workflow needs.
type sessionGateway struct {
	client *upstream.Client
	sess   *session.Session
}

func (g *sessionGateway) Checkout(ctx context.Context, req *models.BookingRequest) (*models.CheckoutResult, error) {
	return g.client.Checkout(ctx, g.sess, req)
}

func (g *sessionGateway) GetTripSeats(ctx context.Context, tripID int64) (*models.Trip, error) {
	return g.client.GetTripSeats(ctx, tripID)
}

// Submit handles POST /api/checkout. The outcome is always returned with
// its state discriminator; the browser decides whether to redirect to the
// payment URL, show field errors, or show the conflict notice.
func (h *CheckoutHandler) Submit(c *gin.Context) {
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

	// The form posts contact info together with the submission; cleared
	// fields must overwrite any earlier value so validation sees what the
	// visitor actually submitted.
	sess.Checkout.ContactEmail = req.Email
	sess.Checkout.ContactPhone = req.Phone
	if req.PaymentMethod != "" {
		sess.Checkout.PaymentMethod = req.PaymentMethod
	}

	gateway := &sessionGateway{client: h.client, sess: sess}
	outcome, err := sess.Checkout.Submit(c.Request.Context(), gateway)
	if err != nil {
		if errors.Is(err, booking.ErrSubmissionInFlight) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": "Đang xử lý đặt vé, vui lòng chờ",
			})
			return
		}
		respondUpstreamError(c, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"outcome": outcome.State,
	}).Info("Checkout submission finished")

	// A successful booking ends the draft's life; the visitor is sent to
	// the external payment gateway.
	if outcome.State == booking.StateSuccess {
		sess.ResetBooking()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"outcome": outcome,
	})
}
