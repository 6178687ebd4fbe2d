package forms

import (
	"strconv" // String conversion

	"staffadmin/internal/domain" // Importing domain models
)

// Option is one entry of a select field
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// EmployeeOptions lists every employee as a parent candidate
func EmployeeOptions(employees []domain.Employee, selected string) []Option {
	options := make([]Option, 0, len(employees))
	for _, e := range employees {
		value := strconv.FormatUint(uint64(e.ID), 10)
		options = append(options, Option{
			Value:    value,
			Label:    value + " (" + e.Phone + ")",
			Selected: value == selected,
		})
	}
	return options
}

// DepartmentOptions lists every department as an assignment target
func DepartmentOptions(departments []domain.Department, selected string) []Option {
	options := make([]Option, 0, len(departments))
	for _, d := range departments {
		value := strconv.FormatUint(uint64(d.ID), 10)
		options = append(options, Option{
			Value:    value,
			Label:    d.Name,
			Selected: value == selected,
		})
	}
	return options
}
