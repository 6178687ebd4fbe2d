package forms

import (
	"strconv" // String conversion

	"staffadmin/internal/domain" // Importing domain models
)

// EmployeeAssignForm assigns a department to an employee
type EmployeeAssignForm struct {
	Department string `form:"department" binding:"required,number"`
}

// EmployeeAssignFormFrom preselects the employee's current department
func EmployeeAssignFormFrom(e *domain.Employee) EmployeeAssignForm {
	if e.DepartmentID == nil {
		return EmployeeAssignForm{}
	}
	return EmployeeAssignForm{Department: strconv.FormatUint(uint64(*e.DepartmentID), 10)}
}

// DepartmentID returns the selected department
func (f *EmployeeAssignForm) DepartmentID() (uint, FieldErrors) {
	errs := FieldErrors{}
	id := parseID(f.Department, "department", errs)
	if len(errs) > 0 {
		return 0, errs
	}
	return id, nil
}
