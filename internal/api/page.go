package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing

	"staffadmin/internal/apperror"   // Error codes
	"staffadmin/internal/forms"      // Field errors
	"staffadmin/internal/middleware" // Current user and session
	"staffadmin/internal/views"      // Page rendering

	"github.com/CloudyKit/jet/v6" // Template variables
	"github.com/gin-gonic/gin"    // Gin web framework
	"github.com/sirupsen/logrus"  // Structured logging
)

const (
	flashCookie  = "staffadmin_flash"
	msgForbidden = "You do not have permission to access this page."
	msgNotFound  = "The requested page could not be found."
)

// setFlash stores a one-shot message shown on the next rendered page
func setFlash(c *gin.Context, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, message, 0, "/", "", false, true)
}

// takeFlash returns the pending flash message and clears it
func takeFlash(c *gin.Context) string {
	message, err := c.Cookie(flashCookie)
	if err != nil || message == "" {
		return ""
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true) // Expire the cookie
	return message
}

// redirectWithFlash answers a successful post with a redirect carrying message
func redirectWithFlash(c *gin.Context, location, message string) {
	setFlash(c, message)
	c.Redirect(http.StatusSeeOther, location)
}

// render executes a page with the variables every layout needs. Variables
// already present in vars are kept.
func render(c *gin.Context, v *views.Renderer, status int, name, title string, vars jet.VarMap) {
	if vars == nil {
		vars = make(jet.VarMap)
	}
	user := middleware.CurrentUser(c)
	csrfToken := ""
	if sess := middleware.CurrentSession(c); sess != nil {
		csrfToken = sess.CSRFToken
	}
	vars.Set("title", title)
	vars.Set("loggedIn", user != nil)
	vars.Set("isAdmin", user != nil && user.IsAdmin)
	vars.Set("csrfToken", csrfToken)

	flash := takeFlash(c)
	if _, ok := vars["flash"]; !ok {
		vars.Set("flash", flash)
	}
	if _, ok := vars["fieldErrors"]; !ok {
		vars.Set("fieldErrors", forms.FieldErrors{})
	}
	c.Render(status, v.HTML(name, vars))
}

// formVars starts the variables of a form page
func formVars(form any, errs forms.FieldErrors) jet.VarMap {
	if errs == nil {
		errs = forms.FieldErrors{}
	}
	return make(jet.VarMap).
		Set("form", form).
		Set("fieldErrors", errs)
}

// ErrorPage renders the error page for middleware rejections
func ErrorPage(v *views.Renderer) middleware.ErrorPage {
	return func(c *gin.Context, status int, message string) {
		showError(c, v, status, message)
	}
}

func showError(c *gin.Context, v *views.Renderer, status int, message string) {
	render(c, v, status, "/errors/error.jet", http.StatusText(status), make(jet.VarMap).Set("message", message))
	c.Abort()
}

// handleError maps a service failure onto a response. Conflicts go back to
// listURL with the message flashed.
func handleError(c *gin.Context, v *views.Renderer, err error, listURL string) {
	switch apperror.GetCode(err) {
	case apperror.CodeNotFound:
		showError(c, v, http.StatusNotFound, msgNotFound)
	case apperror.CodeForbidden:
		showError(c, v, http.StatusForbidden, msgForbidden)
	case apperror.CodeConflict:
		redirectWithFlash(c, listURL, "Error: "+err.Error()+".")
	default:
		_ = c.Error(err) // Picked up by the request logger
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		showError(c, v, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

// validationFields returns the field messages of a validation failure
func validationFields(err error) (forms.FieldErrors, bool) {
	if apperror.GetCode(err) != apperror.CodeValidation {
		return nil, false
	}
	return forms.FieldErrors{}.Merge(apperror.FieldsOf(err)), true
}

// paramID parses a numeric path parameter; invalid ids render a 404
func paramID(c *gin.Context, v *views.Renderer, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		showError(c, v, http.StatusNotFound, msgNotFound)
		return 0, false
	}
	return uint(id), true
}
