package forms

import "staffadmin/internal/service" // Domain operations

// RegistrationForm is the account creation form
type RegistrationForm struct {
	Phone           string `form:"phone" binding:"required,max=20"`
	Password        string `form:"password" binding:"required,max=72,eqfield=ConfirmPassword"`
	ConfirmPassword string `form:"confirm_password"`
}

// Input converts the bound form into service input
func (f *RegistrationForm) Input() service.RegisterInput {
	return service.RegisterInput{Phone: f.Phone, Password: f.Password}
}

// LoginForm is the sign in form
type LoginForm struct {
	Phone    string `form:"phone" binding:"required"`
	Password string `form:"password" binding:"required"`
}
