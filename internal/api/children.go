package api

import (
	"net/http" // HTTP status codes
	"net/url"  // Child names in paths
	"strconv"  // Parent labels

	"staffadmin/internal/domain"     // Child and employee models
	"staffadmin/internal/forms"      // Child form
	"staffadmin/internal/middleware" // Current user
	"staffadmin/internal/service"    // Child operations
	"staffadmin/internal/views"      // Page rendering

	"github.com/CloudyKit/jet/v6" // Template variables
	"github.com/gin-gonic/gin"    // Gin web framework
)

const childrenURL = "/admin/children"

// childRow is one line of the children table
type childRow struct {
	Name      string
	Age       int
	Parent    string
	EditURL   string
	DeleteURL string
}

func parentLabel(parent *domain.Employee) string {
	if parent == nil {
		return ""
	}
	return strconv.FormatUint(uint64(parent.ID), 10) + " (" + parent.Phone + ")"
}

// ListChildrenHandler lists every child with its parent
func ListChildrenHandler(svc *service.Service, v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		children, err := svc.ListChildren(c.Request.Context(), middleware.CurrentUser(c))
		if err != nil {
			handleError(c, v, err, "/")
			return
		}
		rows := make([]childRow, 0, len(children))
		for _, child := range children {
			escaped := url.PathEscape(child.Name) // Names are the route key
			rows = append(rows, childRow{
				Name:      child.Name,
				Age:       child.Age,
				Parent:    parentLabel(child.Parent),
				EditURL:   childrenURL + "/edit/" + escaped,
				DeleteURL: childrenURL + "/delete/" + escaped,
			})
		}
		render(c, v, http.StatusOK, "/admin/children/list.jet", "Children", make(jet.VarMap).Set("children", rows))
	}
}

// renderChildForm shows the child form. The parent select is only offered
// when adding, filled from the given employees.
func renderChildForm(c *gin.Context, v *views.Renderer, status int, title, action string, form forms.ChildForm, parents []domain.Employee, adding bool, errs forms.FieldErrors) {
	vars := formVars(form, errs).
		Set("action", action).
		Set("addChild", adding).
		Set("parents", forms.EmployeeOptions(parents, form.Parent))
	render(c, v, status, "/admin/children/form.jet", title, vars)
}

// AddChildPageHandler shows the child form with every employee as a parent candidate
func AddChildPageHandler(svc *service.Service, v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		employees, err := svc.ListEmployees(c.Request.Context(), middleware.CurrentUser(c))
		if err != nil {
			handleError(c, v, err, childrenURL)
			return
		}
		renderChildForm(c, v, http.StatusOK, "Add Child", childrenURL+"/add", forms.ChildForm{}, employees, true, nil)
	}
}

// AddChildHandler creates a child linked to the selected parent
func AddChildHandler(svc *service.Service, v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.CurrentUser(c)
		employees, err := svc.ListEmployees(c.Request.Context(), actor) // Parent candidates for a re-render
		if err != nil {
			handleError(c, v, err, childrenURL)
			return
		}
		action := childrenURL + "/add"
		var form forms.ChildForm // Bind the posted form
		if errs := forms.Bind(c, &form); errs != nil {
			renderChildForm(c, v, http.StatusUnprocessableEntity, "Add Child", action, form, employees, true, errs)
			return
		}
		input, errs := form.Input(true)
		if errs != nil {
			renderChildForm(c, v, http.StatusUnprocessableEntity, "Add Child", action, form, employees, true, errs)
			return
		}
		if _, err := svc.CreateChild(c.Request.Context(), actor, input); err != nil {
			// Unknown parents come back as a field error
			if errs, ok := validationFields(err); ok {
				renderChildForm(c, v, http.StatusUnprocessableEntity, "Add Child", action, form, employees, true, errs)
				return
			}
			handleError(c, v, err, childrenURL)
			return
		}
		redirectWithFlash(c, childrenURL, "Child added successfully.")
	}
}

// EditChildPageHandler shows the form filled with the stored child
func EditChildPageHandler(svc *service.Service, v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		child, err := svc.GetChild(c.Request.Context(), middleware.CurrentUser(c), name)
		if err != nil {
			handleError(c, v, err, childrenURL)
			return
		}
		action := childrenURL + "/edit/" + url.PathEscape(name)
		renderChildForm(c, v, http.StatusOK, "Edit Child", action, forms.ChildFormFrom(child), nil, false, nil)
	}
}

// EditChildHandler renames a child and updates its age
func EditChildHandler(svc *service.Service, v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		action := childrenURL + "/edit/" + url.PathEscape(name)
		var form forms.ChildForm // Bind the posted form
		if errs := forms.Bind(c, &form); errs != nil {
			renderChildForm(c, v, http.StatusUnprocessableEntity, "Edit Child", action, form, nil, false, errs)
			return
		}
		input, errs := form.Input(false)
		if errs != nil {
			renderChildForm(c, v, http.StatusUnprocessableEntity, "Edit Child", action, form, nil, false, errs)
			return
		}
		if _, err := svc.UpdateChild(c.Request.Context(), middleware.CurrentUser(c), name, input); err != nil {
			if errs, ok := validationFields(err); ok {
				renderChildForm(c, v, http.StatusUnprocessableEntity, "Edit Child", action, form, nil, false, errs)
				return
			}
			handleError(c, v, err, childrenURL)
			return
		}
		redirectWithFlash(c, childrenURL, "Child updated successfully.")
	}
}

// DeleteChildHandler deletes a child by name
func DeleteChildHandler(svc *service.Service, v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteChild(c.Request.Context(), middleware.CurrentUser(c), c.Param("name")); err != nil {
			handleError(c, v, err, childrenURL)
			return
		}
		redirectWithFlash(c, childrenURL, "Child deleted successfully.")
	}
}
