package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Thongnus/TrainTicket-sub000/internal/config"
	"github.com/Thongnus/TrainTicket-sub000/internal/session"
)

// SessionContextKey is the key used to store the visitor session in Gin context
const SessionContextKey = "session"

// Resolve attaches the visitor's session to the request, creating a fresh
// anonymous session (and cookie) when none exists or the old one expired.
func Resolve(store *session.Store, cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *session.Session

		if cookie, err := c.Cookie(cfg.CookieName); err == nil {
			if id, parseErr := uuid.Parse(cookie); parseErr == nil {
				sess = store.Get(id)
			}
		}

		if sess == nil {
			sess = store.Create()
			c.SetCookie(cfg.CookieName, sess.ID.String(), int(cfg.TTL.Seconds()), "/", "", cfg.SecureCookie, true)
		}

		c.Set(SessionContextKey, sess)
		c.Next()
	}
}

// GetSession retrieves the visitor session from Gin context.
func GetSession(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get(SessionContextKey)
	if !exists {
		return nil, false
	}
	sess, ok := value.(*session.Session)
	return sess, ok
}
