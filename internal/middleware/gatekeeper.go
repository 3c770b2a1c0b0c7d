package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// Gatekeeper enforces route-level access control: any path not on the
// public allow-list requires an authenticated session. Unauthenticated
// visitors are redirected to the login page with the original destination
// preserved for the post-login redirect.
func Gatekeeper(publicPaths []string, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if isPublic(publicPaths, path) {
			c.Next()
			return
		}

		// The session accessors assume the caller holds the lock; a login
		// or logout on the same session may be running concurrently.
		if sess, ok := GetSession(c); ok {
			sess.Lock()
			loggedIn := sess.LoggedIn()
			sess.Unlock()
			if loggedIn {
				c.Next()
				return
			}
		}

		logger.WithFields(logrus.Fields{
			"path": path,
			"ip":   c.ClientIP(),
		}).Info("Unauthenticated visitor redirected to login")

		target := LoginPath + "?redirect=" + url.QueryEscape(c.Request.URL.RequestURI())

		// API calls get a structured 401 so the client-side code can
		// navigate; plain navigation gets a real redirect.
		if strings.HasPrefix(path, "/api/") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":   "error",
				"message":  "Authentication required",
				"redirect": target,
			})
		} else {
			c.Redirect(http.StatusFound, target)
		}
		c.Abort()
	}
}

// isPublic matches a request path against the allow-list. Entries ending in
// "/" are prefixes; everything else matches exactly.
func isPublic(publicPaths []string, path string) bool {
	for _, public := range publicPaths {
		if strings.HasSuffix(public, "/") {
			if strings.HasPrefix(path, public) {
				return true
			}
			continue
		}
		if path == public {
			return true
		}
	}
	return false
}
