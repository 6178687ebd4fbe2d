package api

import (
	"net/http" // HTTP status codes

	"staffadmin/internal/apperror"   // Forbidden error
	"staffadmin/internal/domain"     // Employee model
	"staffadmin/internal/forms"      // Assignment form
	"staffadmin/internal/middleware" // Current user
	"staffadmin/internal/service"    // Employee operations
	"staffadmin/internal/views"      // Page rendering

	"github.com/CloudyKit/jet/v6" // Template variables
	"github.com/gin-gonic/gin"    // Gin web framework
)

const employeesURL = "/admin/employees"

// employeeRow is one line of the employee table
type employeeRow struct {
	ID         uint
	Phone      string
	Salary     int
	Department string
	IsAdmin    bool
}

// ListEmployeesHandler lists every employee with their department
func ListEmployeesHandler(svc *service.Service, v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		employees, err := svc.ListEmployees(c.Request.Context(), middleware.CurrentUser(c))
		if err != nil {
			handleError(c, v, err, "/")
			return
		}
		rows := make([]employeeRow, 0, len(employees))
		for i := range employees {
			e := &employees[i]
			rows = append(rows, employeeRow{
				ID:         e.ID,
				Phone:      e.Phone,
				Salary:     e.Salary,
				Department: e.DepartmentName(),
				IsAdmin:    e.IsAdmin,
			})
		}
		render(c, v, http.StatusOK, "/admin/employees/list.jet", "Employees", make(jet.VarMap).Set("employees", rows))
	}
}

// assignTarget loads the employee named in the path. Admins are refused
// before anything else is looked at.
func assignTarget(c *gin.Context, svc *service.Service, v *views.Renderer) (*domain.Employee, bool) {
	id, ok := paramID(c, v, "id")
	if !ok {
		return nil, false
	}
	employee, err := svc.GetEmployee(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		handleError(c, v, err, employeesURL)
		return nil, false
	}
	if employee.IsAdmin {
		handleError(c, v, apperror.ErrForbidden, employeesURL)
		return nil, false
	}
	return employee, true
}

func renderAssignForm(c *gin.Context, v *views.Renderer, status int, employee *domain.Employee, departments []domain.Department, form forms.EmployeeAssignForm, errs forms.FieldErrors) {
	vars := formVars(form, errs).
		Set("employee", *employee).
		Set("departments", forms.DepartmentOptions(departments, form.Department))
	render(c, v, status, "/admin/employees/assign.jet", "Assign Department", vars)
}

// AssignDepartmentPageHandler shows the department choice for an employee
func AssignDepartmentPageHandler(svc *service.Service, v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		employee, ok := assignTarget(c, svc, v)
		if !ok {
			return
		}
		departments, err := svc.ListDepartments(c.Request.Context(), middleware.CurrentUser(c))
		if err != nil {
			handleError(c, v, err, employeesURL)
			return
		}
		renderAssignForm(c, v, http.StatusOK, employee, departments, forms.EmployeeAssignFormFrom(employee), nil)
	}
}

// AssignDepartmentHandler assigns the selected department
func AssignDepartmentHandler(svc *service.Service, v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.CurrentUser(c)
		employee, ok := assignTarget(c, svc, v)
		if !ok {
			return
		}
		departments, err := svc.ListDepartments(c.Request.Context(), actor) // Options for a re-render
		if err != nil {
			handleError(c, v, err, employeesURL)
			return
		}
		var form forms.EmployeeAssignForm // Bind the posted form
		if errs := forms.Bind(c, &form); errs != nil {
			renderAssignForm(c, v, http.StatusUnprocessableEntity, employee, departments, form, errs)
			return
		}
		departmentID, errs := form.DepartmentID()
		if errs != nil {
			renderAssignForm(c, v, http.StatusUnprocessableEntity, employee, departments, form, errs)
			return
		}
		if _, err := svc.AssignDepartment(c.Request.Context(), actor, employee.ID, departmentID); err != nil {
			handleError(c, v, err, employeesURL)
			return
		}
		redirectWithFlash(c, employeesURL, "Department assigned successfully.")
	}
}

// DeleteEmployeeHandler deletes a non-admin employee and their children
func DeleteEmployeeHandler(svc *service.Service, v *views.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, v, "id")
		if !ok {
			return
		}
		if err := svc.DeleteEmployee(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
			handleError(c, v, err, employeesURL)
			return
		}
		redirectWithFlash(c, employeesURL, "Employee deleted successfully.")
	}
}
