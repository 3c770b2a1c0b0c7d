package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Thongnus/TrainTicket-sub000/internal/middleware"
	"github.com/Thongnus/TrainTicket-sub000/internal/upstream"
)

// respondUpstreamError translates an upstream client error into the
// gateway's own response. A failed token refresh clears the session and
// forces a logout; structured rejections keep their HTTP status and are
// given their fixed user-facing copy; anything else is a gateway-level
// failure.
func respondUpstreamError(c *gin.Context, logger *logrus.Logger, err error) {
	if errors.Is(err, upstream.ErrSessionExpired) {
		if sess, ok := middleware.GetSession(c); ok {
			sess.ClearAuth()
		}
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":   "error",
			"message":  "Phiên đăng nhập đã hết hạn, vui lòng đăng nhập lại",
			"redirect": middleware.LoginPath,
		})
		return
	}

	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		logger.WithFields(logrus.Fields{
			"http_status": apiErr.HTTPStatus,
			"code":        apiErr.Code,
		}).Warn("Upstream rejected request")

		status := apiErr.HTTPStatus
		if status < 400 {
			// Logical failure inside a 2xx envelope.
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{
			"status":  "error",
			"message": apiErr.UserMessage(),
			"code":    apiErr.Code,
		})
		return
	}

	logger.WithError(err).Error("Upstream request failed")
	c.JSON(http.StatusBadGateway, gin.H{
		"status":  "error",
		"message": "Không thể kết nối đến hệ thống đặt vé, vui lòng thử lại",
	})
}
