package service

import (
	"context" // Request scoped cancellation
	"fmt"     // Error wrapping and formatting

	"staffadmin/internal/apperror" // Error codes
	"staffadmin/internal/domain"   // Importing domain models

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// ListEmployees returns every employee with their department, ordered by id
func (s *Service) ListEmployees(ctx context.Context, actor *domain.Employee) ([]domain.Employee, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	var employees []domain.Employee
	if err := s.db.WithContext(ctx).Preload("Department").Order("id ASC").Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}
	return employees, nil
}

// GetEmployee loads one employee by id with their department
func (s *Service) GetEmployee(ctx context.Context, actor *domain.Employee, id uint) (*domain.Employee, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	var employee domain.Employee
	if err := s.db.WithContext(ctx).Preload("Department").First(&employee, id).Error; err != nil {
		return nil, notFound(err, "employee")
	}
	return &employee, nil
}

// AssignDepartment sets the employee's department. Admins cannot be assigned,
// whatever department is requested.
func (s *Service) AssignDepartment(ctx context.Context, actor *domain.Employee, employeeID, departmentID uint) (*domain.Employee, error) {
	employee, err := s.GetEmployee(ctx, actor, employeeID)
	if err != nil {
		return nil, err
	}
	if employee.IsAdmin {
		return nil, apperror.ErrForbidden
	}

	department, err := s.GetDepartment(ctx, actor, departmentID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(employee).Update("dnumber", department.ID).Error
	})
	if err != nil {
		return nil, writeFailure("employee", MsgPhoneInUse, err, logrus.Fields{
			"employee_id":   employee.ID,
			"department_id": department.ID,
			"actor_id":      actor.ID,
		})
	}

	employee.DepartmentID = &department.ID
	employee.Department = department
	logrus.WithFields(logrus.Fields{
		"employee_id":   employee.ID,
		"department_id": department.ID,
		"actor_id":      actor.ID,
	}).Info("Employee assigned to department")
	return employee, nil
}

// DeleteEmployee removes a non-admin employee. The database cascades the
// delete to the employee's children.
func (s *Service) DeleteEmployee(ctx context.Context, actor *domain.Employee, employeeID uint) error {
	employee, err := s.GetEmployee(ctx, actor, employeeID)
	if err != nil {
		return err
	}
	if employee.IsAdmin {
		return apperror.ErrForbidden
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&domain.Employee{}, employee.ID).Error
	})
	if err != nil {
		return writeFailure("employee", MsgPhoneInUse, err, logrus.Fields{"employee_id": employee.ID, "actor_id": actor.ID})
	}

	logrus.WithFields(logrus.Fields{"employee_id": employee.ID, "actor_id": actor.ID}).Info("Employee deleted")
	return nil
}
