package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Thongnus/TrainTicket-sub000/internal/middleware"
	"github.com/Thongnus/TrainTicket-sub000/internal/models"
	"github.com/Thongnus/TrainTicket-sub000/internal/upstream"
)

// AuthHandler forwards credentials to the upstream auth service and manages
// the session's auth state. The gateway never stores passwords and never
// exposes the upstream tokens to the browser.
type AuthHandler struct {
	client *upstream.Client
	logger *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(client *upstream.Client, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		client: client,
		logger: logger,
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Email và mật khẩu là bắt buộc",
		})
		return
	}

	result, err := h.client.Login(c.Request.Context(), creds)
	if err != nil {
		respondUpstreamError(c, h.logger, err)
		return
	}

	sess, _ := middleware.GetSession(c)
	sess.Lock()
	sess.Hydrate(result, c.GetHeader("User-Agent"))
	device := sess.Device()
	sess.Unlock()

	h.logger.WithFields(logrus.Fields{
		"user_id": result.User.ID,
		"device":  device,
	}).Info("Visitor logged in")

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"user":     result.User,
		"redirect": c.Query("redirect"),
	})
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Email và mật khẩu là bắt buộc",
		})
		return
	}

	result, err := h.client.Signup(c.Request.Context(), creds)
	if err != nil {
		respondUpstreamError(c, h.logger, err)
		return
	}

	sess, _ := middleware.GetSession(c)
	sess.Lock()
	sess.Hydrate(result, c.GetHeader("User-Agent"))
	sess.Unlock()

	h.logger.WithField("user_id", result.User.ID).Info("Visitor signed up")

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"user":   result.User,
	})
}

// Logout handles POST /api/auth/logout. The local session is cleared even
// when the upstream revocation fails.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess, _ := middleware.GetSession(c)
	sess.Lock()
	defer sess.Unlock()

	if sess.LoggedIn() {
		if err := h.client.Logout(c.Request.Context(), sess); err != nil {
			h.logger.WithError(err).Warn("Upstream logout failed, clearing session anyway")
		}
	}
	sess.ClearAuth()

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Đã đăng xuất",
	})
}

// ForgotPassword handles POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Email là bắt buộc",
		})
		return
	}

	if err := h.client.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondUpstreamError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Hướng dẫn đặt lại mật khẩu đã được gửi qua email",
	})
}

// ChangePassword handles POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Mật khẩu cũ và mới là bắt buộc",
		})
		return
	}

	sess, _ := middleware.GetSession(c)
	sess.Lock()
	defer sess.Unlock()

	if err := h.client.ChangePassword(c.Request.Context(), sess, req.OldPassword, req.NewPassword); err != nil {
		respondUpstreamError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Đổi mật khẩu thành công",
	})
}

// Me handles GET /api/auth/me, returning the hydrated session profile.
func (h *AuthHandler) Me(c *gin.Context) {
	sess, _ := middleware.GetSession(c)
	sess.Lock()
	defer sess.Unlock()

	if !sess.LoggedIn() {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Chưa đăng nhập",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"user":   sess.User(),
		"device": sess.Device(),
	})
}
