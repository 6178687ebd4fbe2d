package middleware

import (
	"net/http" // HTTP status codes

	"staffadmin/internal/domain"  // Employee model
	"staffadmin/internal/service" // Current user lookup
	"staffadmin/internal/session" // Session resolution

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// Context keys set by SessionMiddleware
const (
	CurrentUserKey = "currentUser"
	SessionKey     = "session"
)

// ErrorPage renders an error page and aborts the request
type ErrorPage func(c *gin.Context, status int, message string)

// SessionMiddleware resolves the session cookie into the logged in employee.
// Requests without a valid session continue anonymously.
func SessionMiddleware(sessions *session.Manager, svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName) // Read the session cookie
		if err != nil || token == "" {
			c.Next() // No cookie, anonymous request
			return
		}
		sess, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			// Store failure, treat the request as anonymous
			logrus.WithError(err).Error("Failed to resolve session")
			c.Next()
			return
		}
		if sess == nil {
			c.Next() // Expired, revoked or forged token
			return
		}
		user, err := svc.CurrentUser(c.Request.Context(), sess.EmployeeID)
		if err != nil {
			logrus.WithError(err).WithField("session_id", sess.ID).Error("Failed to load session user")
			c.Next()
			return
		}
		if user == nil {
			c.Next() // Employee was deleted after logging in
			return
		}
		c.Set(SessionKey, sess)     // Store session in context
		c.Set(CurrentUserKey, user) // Store employee in context
		c.Next()                    // Proceed to the next handler
	}
}

// CurrentUser returns the logged in employee, or nil
func CurrentUser(c *gin.Context) *domain.Employee {
	if v, ok := c.Get(CurrentUserKey); ok {
		if user, ok := v.(*domain.Employee); ok {
			return user
		}
	}
	return nil
}

// CurrentSession returns the resolved session, or nil
func CurrentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(SessionKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	return nil
}

// LoginRequired redirects anonymous requests to the login page
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusSeeOther, "/login") // Send anonymous users to login
			c.Abort()
			return
		}
		c.Next()
	}
}
