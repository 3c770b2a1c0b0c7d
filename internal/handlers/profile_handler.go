package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Thongnus/TrainTicket-sub000/internal/middleware"
	"github.com/Thongnus/TrainTicket-sub000/internal/models"
	"github.com/Thongnus/TrainTicket-sub000/internal/upstream"
)

// ProfileHandler proxies the visitor's profile to the upstream user service.
type ProfileHandler struct {
	client *upstream.Client
	logger *logrus.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(client *upstream.Client, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{
		client: client,
		logger: logger,
	}
}

// Get handles GET /api/users/me
func (h *ProfileHandler) Get(c *gin.Context) {
	sess, _ := middleware.GetSession(c)
	sess.Lock()
	defer sess.Unlock()

	user, err := h.client.Me(c.Request.Context(), sess)
	if err != nil {
		respondUpstreamError(c, h.logger, err)
		return
	}
	sess.SetUser(user)

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"user":   user,
	})
}

// Update handles PUT /api/users/me
func (h *ProfileHandler) Update(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Thông tin cá nhân không hợp lệ",
		})
		return
	}

	sess, _ := middleware.GetSession(c)
	sess.Lock()
	defer sess.Unlock()

	updated, err := h.client.UpdateProfile(c.Request.Context(), sess, user)
	if err != nil {
		respondUpstreamError(c, h.logger, err)
		return
	}
	sess.SetUser(updated)

	h.logger.WithField("user_id", updated.ID).Info("Profile updated")

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"user":   updated,
	})
}
