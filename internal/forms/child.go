package forms

import (
	"strconv" // String conversion

	"staffadmin/internal/domain"  // Importing domain models
	"staffadmin/internal/service" // Domain operations
)

// ChildForm adds or edits a child. The parent is only chosen on creation.
type ChildForm struct {
	Name   string `form:"name" binding:"required,max=40"`
	Age    string `form:"age" binding:"required,number"`
	Parent string `form:"parent" binding:"omitempty,number"`
}

// ChildFormFrom fills the form with a stored child
func ChildFormFrom(c *domain.Child) ChildForm {
	form := ChildForm{Name: c.Name, Age: strconv.Itoa(c.Age)}
	if c.ParentID != nil {
		form.Parent = strconv.FormatUint(uint64(*c.ParentID), 10)
	}
	return form
}

// Input converts the bound form into service input. withParent requires a
// parent selection.
func (f *ChildForm) Input(withParent bool) (service.ChildInput, FieldErrors) {
	errs := FieldErrors{}
	input := service.ChildInput{
		Name: f.Name,
		Age:  parseInt(f.Age, "age", errs),
	}
	if _, bad := errs["age"]; !bad && input.Age <= 0 {
		errs["age"] = msgRequired
	}
	if withParent {
		if f.Parent == "" {
			errs["parent"] = msgRequired
		} else {
			input.ParentID = parseID(f.Parent, "parent", errs)
		}
	}
	if len(errs) > 0 {
		return input, errs
	}
	return input, nil
}
