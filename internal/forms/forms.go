// Package forms defines the accepted input of every page form, binds it from
// a request and turns validation failures into per-field messages.
package forms

import (
	"errors"  // Error inspection
	"fmt"     // Error wrapping and formatting
	"reflect" // Struct tag lookup
	"strconv" // String conversion
	"strings" // String manipulation

	"staffadmin/internal/service" // Domain operations

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/gin-gonic/gin/binding"       // Form binding
	"github.com/go-playground/validator/v10" // Field validation errors
)

// FieldErrors maps a form field name to its error message.
type FieldErrors map[string]string

// Get returns the message for field, or "".
func (e FieldErrors) Get(field string) string {
	return e[field]
}

// Merge copies other into e, keeping messages already present.
func (e FieldErrors) Merge(other map[string]string) FieldErrors {
	if e == nil {
		e = FieldErrors{}
	}
	for k, v := range other {
		if _, ok := e[k]; !ok {
			e[k] = v
		}
	}
	return e
}

const msgRequired = "This field is required."

func init() {
	// report fields under their form names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// Bind decodes the request form into form and validates it.
func Bind(c *gin.Context, form any) FieldErrors {
	if err := c.ShouldBindWith(form, binding.Form); err != nil {
		return Translate(err)
	}
	return nil
}

// Translate converts a binding error into field messages.
func Translate(err error) FieldErrors {
	errs := FieldErrors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["form"] = "Invalid form submission."
		return errs
	}
	for _, fe := range verrs {
		if _, seen := errs[fe.Field()]; seen {
			continue
		}
		errs[fe.Field()] = message(fe)
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "eqfield":
		return "Passwords must match."
	case "number":
		return "Not a valid integer value."
	case "max":
		if fe.Field() == "password" {
			return service.MsgPasswordTooLong
		}
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}

// parseInt parses a validated numeric field, recording overflow as an error.
func parseInt(raw, field string, errs FieldErrors) int {
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		errs[field] = "Not a valid integer value."
		return 0
	}
	return v
}

func parseID(raw, field string, errs FieldErrors) uint {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		errs[field] = "Not a valid choice."
		return 0
	}
	return uint(v)
}
