package service

import (
	"context"      // Request scoped cancellation
	"fmt"          // Error wrapping and formatting
	"strings"      // String manipulation
	"unicode/utf8" // Rune counting

	"staffadmin/internal/apperror" // Error codes
	"staffadmin/internal/domain"   // Importing domain models

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// Department naming rules
const (
	MsgDepartmentExists = "department name already exists"
	maxNameLength       = 40
)

// DepartmentInput carries the fields of a department form
type DepartmentInput struct {
	Name    string
	Budget  int
	Manager *int
}

// ListDepartments returns every department ordered by id
func (s *Service) ListDepartments(ctx context.Context, actor *domain.Employee) ([]domain.Department, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	var departments []domain.Department
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("load departments: %w", err)
	}
	return departments, nil
}

// GetDepartment loads one department by id
func (s *Service) GetDepartment(ctx context.Context, actor *domain.Employee, id uint) (*domain.Department, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	var department domain.Department
	if err := s.db.WithContext(ctx).First(&department, id).Error; err != nil {
		return nil, notFound(err, "department")
	}
	return &department, nil
}

// CreateDepartment inserts a department. Duplicate names are a conflict.
func (s *Service) CreateDepartment(ctx context.Context, actor *domain.Employee, input DepartmentInput) (*domain.Department, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	name, err := normalizeName(input.Name, "name")
	if err != nil {
		return nil, err
	}

	department := domain.Department{
		Name:    name,
		Budget:  input.Budget,
		Manager: input.Manager,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&department).Error
	})
	if err != nil {
		return nil, writeFailure("department", MsgDepartmentExists, err, logrus.Fields{"name": name, "actor_id": actor.ID})
	}

	logrus.WithFields(logrus.Fields{
		"department_id": department.ID,
		"name":          department.Name,
		"actor_id":      actor.ID,
	}).Info("Department created")
	return &department, nil
}

// UpdateDepartment overwrites every editable field of the department.
func (s *Service) UpdateDepartment(ctx context.Context, actor *domain.Employee, id uint, input DepartmentInput) (*domain.Department, error) {
	department, err := s.GetDepartment(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	name, err := normalizeName(input.Name, "name")
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(department).Updates(map[string]any{
			"dname":   name,
			"budget":  input.Budget,
			"manager": input.Manager,
		}).Error
	})
	if err != nil {
		return nil, writeFailure("department", MsgDepartmentExists, err, logrus.Fields{"department_id": id, "actor_id": actor.ID})
	}

	department.Name = name
	department.Budget = input.Budget
	department.Manager = input.Manager
	logrus.WithFields(logrus.Fields{"department_id": id, "actor_id": actor.ID}).Info("Department updated")
	return department, nil
}

// DeleteDepartment removes the department. Employees assigned to it stay and
// become unassigned.
func (s *Service) DeleteDepartment(ctx context.Context, actor *domain.Employee, id uint) error {
	department, err := s.GetDepartment(ctx, actor, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Employee{}).
			Where("dnumber = ?", department.ID).
			Update("dnumber", nil).Error; err != nil {
			return err
		}
		return tx.Delete(department).Error
	})
	if err != nil {
		return writeFailure("department", MsgDepartmentExists, err, logrus.Fields{"department_id": id, "actor_id": actor.ID})
	}

	logrus.WithFields(logrus.Fields{"department_id": id, "actor_id": actor.ID}).Info("Department deleted")
	return nil
}

func normalizeName(raw, field string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", apperror.Field(field, "This field is required.")
	}
	if utf8.RuneCountInString(value) > maxNameLength {
		return "", apperror.Field(field, fmt.Sprintf("Field cannot be longer than %d characters.", maxNameLength))
	}
	return value, nil
}
