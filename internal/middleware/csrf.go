package middleware

import (
	"crypto/subtle" // Constant time comparison
	"net/http"      // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// CSRFFormField is the hidden form field carrying the session's CSRF token
const CSRFFormField = "csrf_token"

// CSRFMiddleware rejects form posts made within a session that do not carry
// the session's token. Anonymous posts have no session to forge.
func CSRFMiddleware(deny ErrorPage) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if c.Request.Method != http.MethodPost || sess == nil {
			c.Next()
			return
		}
		sent := c.PostForm(CSRFFormField) // Token echoed by the form
		if subtle.ConstantTimeCompare([]byte(sent), []byte(sess.CSRFToken)) != 1 {
			logrus.WithFields(logrus.Fields{
				"path":       c.Request.URL.Path,
				"session_id": sess.ID,
			}).Warn("CSRF token mismatch")
			deny(c, http.StatusBadRequest, "The form has expired. Please go back and try again.")
			return
		}
		c.Next()
	}
}
