package domain

import (
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// Employee Model
type Employee struct {
	ID           uint        `gorm:"primaryKey"`                                       // Primary key
	Salary       int         `gorm:"index"`                                            // Salary
	Phone        string      `gorm:"size:20;uniqueIndex;not null"`                     // Unique phone number, used to log in
	PasswordHash string      `gorm:"size:128;not null"`                                // Hashed password
	DepartmentID *uint       `gorm:"column:dnumber;index"`                             // Foreign key to Department, nullable
	Department   *Department `gorm:"foreignKey:DepartmentID"`                          // Department the employee belongs to
	Children     []Child     `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE;"` // Children are removed with their parent
	IsAdmin      bool        `gorm:"not null;default:false"`                           // Admin flag
}

// SetPassword replaces the stored hash with a bcrypt hash of password
func (e *Employee) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	e.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash
func (e *Employee) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)) == nil
}

// DepartmentName returns the assigned department's name, or "" when unassigned or not loaded
func (e *Employee) DepartmentName() string {
	if e.Department == nil {
		return ""
	}
	return e.Department.Name
}
