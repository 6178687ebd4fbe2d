package api

import (
	"net/http" // HTTP status codes

	"staffadmin/internal/apperror"   // Error codes
	"staffadmin/internal/forms"      // Login and registration forms
	"staffadmin/internal/middleware" // Current user
	"staffadmin/internal/service"    // Authentication
	"staffadmin/internal/session"    // Session cookies
	"staffadmin/internal/views"      // Page rendering

	"github.com/CloudyKit/jet/v6" // Template variables
	"github.com/gin-gonic/gin"    // Gin web framework
	"github.com/sirupsen/logrus"  // Structured logging
)

// dashboardEmployee is what the dashboard shows about the logged in employee
type dashboardEmployee struct {
	Phone      string
	Department string
}

// HomeHandler renders the landing page
func HomeHandler(v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, v, http.StatusOK, "/home.jet", "Home", nil)
	}
}

// DashboardHandler shows the logged in employee their department and children
func DashboardHandler(svc *service.Service, v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c) // Set by LoginRequired's session lookup
		children, err := svc.OwnChildren(c.Request.Context(), user)
		if err != nil {
			handleError(c, v, err, "/")
			return
		}
		vars := make(jet.VarMap).
			Set("employee", dashboardEmployee{Phone: user.Phone, Department: user.DepartmentName()}).
			Set("children", children)
		render(c, v, http.StatusOK, "/dashboard.jet", "Dashboard", vars)
	}
}

func renderRegister(c *gin.Context, v *views.Renderer, status int, form forms.RegistrationForm, errs forms.FieldErrors) {
	render(c, v, status, "/auth/register.jet", "Register", formVars(form, errs))
}

// RegisterPageHandler shows the registration form
func RegisterPageHandler(v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if middleware.CurrentUser(c) != nil {
			c.Redirect(http.StatusSeeOther, "/") // Already logged in
			return
		}
		renderRegister(c, v, http.StatusOK, forms.RegistrationForm{}, nil)
	}
}

// RegisterHandler creates a non-admin employee account
func RegisterHandler(svc *service.Service, v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if middleware.CurrentUser(c) != nil {
			c.Redirect(http.StatusSeeOther, "/") // Already logged in
			return
		}
		var form forms.RegistrationForm // Bind the posted form
		if errs := forms.Bind(c, &form); errs != nil {
			// If validation fails, show the form again
			renderRegister(c, v, http.StatusUnprocessableEntity, form, errs)
			return
		}
		if _, err := svc.Register(c.Request.Context(), form.Input()); err != nil {
			// Duplicate phone numbers come back as field errors
			if errs, ok := validationFields(err); ok {
				renderRegister(c, v, http.StatusUnprocessableEntity, form, errs)
				return
			}
			handleError(c, v, err, "/register")
			return
		}
		redirectWithFlash(c, "/login", "Registration successful. Please log in.")
	}
}

func renderLogin(c *gin.Context, v *views.Renderer, status int, form forms.LoginForm, errs forms.FieldErrors, flash string) {
	vars := formVars(forms.LoginForm{Phone: form.Phone}, errs) // Never echo the password
	if flash != "" {
		vars.Set("flash", flash)
	}
	render(c, v, status, "/auth/login.jet", "Login", vars)
}

// LoginPageHandler shows the login form
func LoginPageHandler(v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if middleware.CurrentUser(c) != nil {
			c.Redirect(http.StatusSeeOther, "/") // Already logged in
			return
		}
		renderLogin(c, v, http.StatusOK, forms.LoginForm{}, nil, "")
	}
}

// LoginHandler authenticates an employee and starts a session. Admins land on
// the department list, everyone else on their dashboard.
func LoginHandler(svc *service.Service, sessions *session.Manager, v *views.Renderer, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form forms.LoginForm // Bind the posted form
		if errs := forms.Bind(c, &form); errs != nil {
			renderLogin(c, v, http.StatusUnprocessableEntity, form, errs, "")
			return
		}
		user, err := svc.Authenticate(c.Request.Context(), form.Phone, form.Password)
		if err != nil {
			if apperror.GetCode(err) == apperror.CodeUnauthorized {
				// Same answer for unknown phone and wrong password
				renderLogin(c, v, http.StatusUnauthorized, form, nil, err.Error())
				return
			}
			handleError(c, v, err, "/login")
			return
		}
		if previous, err := c.Cookie(session.CookieName); err == nil && previous != "" {
			// Replace any session this browser already holds
			if err := sessions.End(c.Request.Context(), previous); err != nil {
				logrus.WithError(err).Error("Failed to end previous session")
			}
		}
		_, token, err := sessions.Start(c.Request.Context(), user.ID) // Open the session
		if err != nil {
			handleError(c, v, err, "/login")
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(session.CookieName, token, int(sessions.TTL().Seconds()), "/", "", secureCookies, true)
		logrus.WithField("employee_id", user.ID).Info("Employee logged in")

		target := "/dashboard"
		if user.IsAdmin {
			target = departmentsURL
		}
		redirectWithFlash(c, target, "Logged in successfully.")
	}
}

// LogoutHandler ends the current session
func LogoutHandler(sessions *session.Manager, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(session.CookieName) // Present, LoginRequired ran first
		if err := sessions.End(c.Request.Context(), token); err != nil {
			logrus.WithError(err).Error("Failed to end session")
		}
		c.SetCookie(session.CookieName, "", -1, "/", "", secureCookies, true) // Drop the cookie
		if user := middleware.CurrentUser(c); user != nil {
			logrus.WithField("employee_id", user.ID).Info("Employee logged out")
		}
		redirectWithFlash(c, "/", "You have been logged out.")
	}
}
