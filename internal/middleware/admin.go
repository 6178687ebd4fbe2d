package middleware

import (
	"net/http" // HTTP status codes

	"staffadmin/internal/service" // Admin guard

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// AdminOnlyMiddleware lets only admins through. It runs after LoginRequired,
// so the current user is already loaded fresh from the database.
func AdminOnlyMiddleware(deny ErrorPage) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c) // Employee loaded by SessionMiddleware
		if err := service.RequireAdmin(user); err != nil {
			fields := logrus.Fields{"path": c.Request.URL.Path}
			if user != nil {
				fields["employee_id"] = user.ID
			}
			logrus.WithFields(fields).Warn("Admin access denied")
			// If not admin, render the forbidden page
			deny(c, http.StatusForbidden, "You do not have permission to access this page.")
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
