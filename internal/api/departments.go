package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Manager display

	"staffadmin/internal/forms"      // Department form
	"staffadmin/internal/middleware" // Current user
	"staffadmin/internal/service"    // Department operations
	"staffadmin/internal/views"      // Page rendering

	"github.com/CloudyKit/jet/v6" // Template variables
	"github.com/gin-gonic/gin"    // Gin web framework
)

const departmentsURL = "/admin/departments"

// departmentRow is one line of the department table
type departmentRow struct {
	ID      uint
	Name    string
	Budget  int
	Manager string
}

// ListDepartmentsHandler lists every department
func ListDepartmentsHandler(svc *service.Service, v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		departments, err := svc.ListDepartments(c.Request.Context(), middleware.CurrentUser(c))
		if err != nil {
			handleError(c, v, err, "/")
			return
		}
		rows := make([]departmentRow, 0, len(departments))
		for _, d := range departments {
			row := departmentRow{ID: d.ID, Name: d.Name, Budget: d.Budget}
			if d.Manager != nil {
				row.Manager = strconv.Itoa(*d.Manager)
			}
			rows = append(rows, row)
		}
		render(c, v, http.StatusOK, "/admin/departments/list.jet", "Departments", make(jet.VarMap).Set("departments", rows))
	}
}

func renderDepartmentForm(c *gin.Context, v *views.Renderer, status int, title, action string, form forms.DepartmentForm, errs forms.FieldErrors) {
	vars := formVars(form, errs).Set("action", action)
	render(c, v, status, "/admin/departments/form.jet", title, vars)
}

// AddDepartmentPageHandler shows an empty department form
func AddDepartmentPageHandler(v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		renderDepartmentForm(c, v, http.StatusOK, "Add Department", departmentsURL+"/add", forms.DepartmentForm{}, nil)
	}
}

// AddDepartmentHandler creates a department from the posted form
func AddDepartmentHandler(svc *service.Service, v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		action := departmentsURL + "/add"
		var form forms.DepartmentForm // Bind the posted form
		if errs := forms.Bind(c, &form); errs != nil {
			renderDepartmentForm(c, v, http.StatusUnprocessableEntity, "Add Department", action, form, errs)
			return
		}
		input, errs := form.Input()
		if errs != nil {
			renderDepartmentForm(c, v, http.StatusUnprocessableEntity, "Add Department", action, form, errs)
			return
		}
		if _, err := svc.CreateDepartment(c.Request.Context(), middleware.CurrentUser(c), input); err != nil {
			if errs, ok := validationFields(err); ok {
				renderDepartmentForm(c, v, http.StatusUnprocessableEntity, "Add Department", action, form, errs)
				return
			}
			handleError(c, v, err, departmentsURL)
			return
		}
		redirectWithFlash(c, departmentsURL, "Department added successfully.")
	}
}

// EditDepartmentPageHandler shows the form filled with the stored department
func EditDepartmentPageHandler(svc *service.Service, v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, v, "id")
		if !ok {
			return
		}
		department, err := svc.GetDepartment(c.Request.Context(), middleware.CurrentUser(c), id)
		if err != nil {
			handleError(c, v, err, departmentsURL)
			return
		}
		action := departmentsURL + "/edit/" + strconv.FormatUint(uint64(id), 10)
		renderDepartmentForm(c, v, http.StatusOK, "Edit Department", action, forms.DepartmentFormFrom(department), nil)
	}
}

// EditDepartmentHandler overwrites a department with the posted form
func EditDepartmentHandler(svc *service.Service, v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, v, "id")
		if !ok {
			return
		}
		action := departmentsURL + "/edit/" + strconv.FormatUint(uint64(id), 10)
		var form forms.DepartmentForm // Bind the posted form
		if errs := forms.Bind(c, &form); errs != nil {
			renderDepartmentForm(c, v, http.StatusUnprocessableEntity, "Edit Department", action, form, errs)
			return
		}
		input, errs := form.Input()
		if errs != nil {
			renderDepartmentForm(c, v, http.StatusUnprocessableEntity, "Edit Department", action, form, errs)
			return
		}
		if _, err := svc.UpdateDepartment(c.Request.Context(), middleware.CurrentUser(c), id, input); err != nil {
			if errs, ok := validationFields(err); ok {
				renderDepartmentForm(c, v, http.StatusUnprocessableEntity, "Edit Department", action, form, errs)
				return
			}
			handleError(c, v, err, departmentsURL)
			return
		}
		redirectWithFlash(c, departmentsURL, "Department updated successfully.")
	}
}

// DeleteDepartmentHandler deletes a department, unassigning its employees
func DeleteDepartmentHandler(svc *service.Service, v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, v, "id")
		if !ok {
			return
		}
		if err := svc.DeleteDepartment(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
			handleError(c, v, err, departmentsURL)
			return
		}
		redirectWithFlash(c, departmentsURL, "Department deleted successfully.")
	}
}
