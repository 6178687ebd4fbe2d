package forms

import (
	"strconv" // String conversion

	"staffadmin/internal/domain"  // Importing domain models
	"staffadmin/internal/service" // Domain operations
)

// DepartmentForm adds or edits a department
type DepartmentForm struct {
	Name    string `form:"name" binding:"required,max=40"`
	Budget  string `form:"budget" binding:"required,number"`
	Manager string `form:"manager" binding:"omitempty,number"`
}

// DepartmentFormFrom fills the form with a stored department
func DepartmentFormFrom(d *domain.Department) DepartmentForm {
	form := DepartmentForm{Name: d.Name, Budget: strconv.Itoa(d.Budget)}
	if d.Manager != nil {
		form.Manager = strconv.Itoa(*d.Manager)
	}
	return form
}

// Input converts the bound form into service input
func (f *DepartmentForm) Input() (service.DepartmentInput, FieldErrors) {
	errs := FieldErrors{}
	input := service.DepartmentInput{
		Name:   f.Name,
		Budget: parseInt(f.Budget, "budget", errs),
	}
	if f.Manager != "" {
		manager := parseInt(f.Manager, "manager", errs)
		input.Manager = &manager
	}
	if len(errs) > 0 {
		return input, errs
	}
	return input, nil
}
