package service

import (
	"context" // Request scoped cancellation
	"errors"  // Error inspection
	"fmt"     // Error wrapping and formatting
	"strings" // String manipulation

	"staffadmin/internal/apperror" // Error codes
	"staffadmin/internal/db"       // Database access and error classification
	"staffadmin/internal/domain"   // Importing domain models

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// MsgPhoneInUse is reported on the phone field when registering a taken number.
const MsgPhoneInUse = "Phone number is already in use."

// MsgPasswordTooLong is reported on the password field when bcrypt cannot hash it.
const MsgPasswordTooLong = "Password cannot be longer than 72 bytes."

// ErrInvalidCredentials is returned for any failed login.
var ErrInvalidCredentials = apperror.New(apperror.CodeUnauthorized, "Invalid phone number or password.")

// dummyHash is compared against when the phone is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("staffadmin-dummy-password"), bcrypt.DefaultCost)

// RegisterInput is the data needed to create an account
type RegisterInput struct {
	Phone    string
	Password string
}

// Register creates a non-admin employee with a hashed password.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.Employee, error) {
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return nil, apperror.Field("phone", "This field is required.")
	}
	if input.Password == "" {
		return nil, apperror.Field("password", "This field is required.")
	}

	taken, err := s.phoneTaken(ctx, phone)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Field("phone", MsgPhoneInUse)
	}

	employee := &domain.Employee{Phone: phone}
	if err := employee.SetPassword(input.Password); err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperror.Field("password", MsgPasswordTooLong)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(employee).Error; err != nil {
		// lost a race with a concurrent registration of the same phone
		if errors.Is(db.Classify(err), db.ErrDuplicate) {
			return nil, apperror.Field("phone", MsgPhoneInUse)
		}
		return nil, writeFailure("employee", MsgPhoneInUse, err, logrus.Fields{"phone": phone})
	}

	logrus.WithFields(logrus.Fields{"employee_id": employee.ID}).Info("Employee registered")
	return employee, nil
}

// Authenticate returns the employee owning phone if password matches.
func (s *Service) Authenticate(ctx context.Context, phone, password string) (*domain.Employee, error) {
	var employee domain.Employee
	err := s.db.WithContext(ctx).Where("phone = ?", strings.TrimSpace(phone)).First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load employee: %w", err)
	}

	if !employee.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return &employee, nil
}

// CurrentUser loads the employee a session belongs to. A session whose
// employee no longer exists resolves to nil.
func (s *Service) CurrentUser(ctx context.Context, employeeID uint) (*domain.Employee, error) {
	var employee domain.Employee
	err := s.db.WithContext(ctx).Preload("Department").First(&employee, employeeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load current user: %w", err)
	}
	return &employee, nil
}

// OwnChildren lists the children of the given employee.
func (s *Service) OwnChildren(ctx context.Context, employee *domain.Employee) ([]domain.Child, error) {
	var children []domain.Child
	if err := s.db.WithContext(ctx).Where("enumber = ?", employee.ID).Order("name ASC").Find(&children).Error; err != nil {
		return nil, fmt.Errorf("load children: %w", err)
	}
	return children, nil
}

// SetAdmin grants or revokes the admin flag of the employee owning phone.
// It is an operator action and is not guarded.
func (s *Service) SetAdmin(ctx context.Context, phone string, admin bool) (*domain.Employee, error) {
	var employee domain.Employee
	if err := s.db.WithContext(ctx).Where("phone = ?", phone).First(&employee).Error; err != nil {
		return nil, notFound(err, "employee")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"is_admin": admin}
		if admin {
			// admins are never assigned to a department
			updates["dnumber"] = nil
		}
		return tx.Model(&employee).Updates(updates).Error
	})
	if err != nil {
		return nil, writeFailure("employee", MsgPhoneInUse, err, logrus.Fields{"employee_id": employee.ID})
	}

	employee.IsAdmin = admin
	if admin {
		employee.DepartmentID = nil
	}
	logrus.WithFields(logrus.Fields{"employee_id": employee.ID, "is_admin": admin}).Info("Employee admin flag changed")
	return &employee, nil
}

// phoneTaken reports whether an employee already uses phone
func (s *Service) phoneTaken(ctx context.Context, phone string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Employee{}).Where("phone = ?", phone).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check phone uniqueness: %w", err)
	}
	return count > 0, nil
}
