package service

import (
	"context" // Request scoped cancellation
	"fmt"     // Error wrapping and formatting

	"staffadmin/internal/apperror" // Error codes
	"staffadmin/internal/domain"   // Importing domain models

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// MsgChildExists is the conflict message for a duplicate child name
const MsgChildExists = "child name already exists"

// ChildInput carries the fields of a child form. ParentID is only used on creation.
type ChildInput struct {
	Name     string
	Age      int
	ParentID uint
}

// ListChildren returns every child with its parent, ordered by name
func (s *Service) ListChildren(ctx context.Context, actor *domain.Employee) ([]domain.Child, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	var children []domain.Child
	if err := s.db.WithContext(ctx).Preload("Parent").Order("name ASC").Find(&children).Error; err != nil {
		return nil, fmt.Errorf("load children: %w", err)
	}
	return children, nil
}

// GetChild looks a child up by its unique name
func (s *Service) GetChild(ctx context.Context, actor *domain.Employee, name string) (*domain.Child, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	var child domain.Child
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&child).Error; err != nil {
		return nil, notFound(err, "child")
	}
	return &child, nil
}

// CreateChild inserts the child and then links it to its parent. Both steps
// share one transaction, so a committed child always has its parent set.
func (s *Service) CreateChild(ctx context.Context, actor *domain.Employee, input ChildInput) (*domain.Child, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	name, err := normalizeName(input.Name, "name")
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmployeeExists(ctx, input.ParentID); err != nil {
		if apperror.GetCode(err) == apperror.CodeNotFound {
			return nil, apperror.Field("parent", "Not a valid choice.")
		}
		return nil, err
	}

	child := domain.Child{Name: name, Age: input.Age}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&child).Error; err != nil {
			return err
		}
		return tx.Model(&child).Update("enumber", input.ParentID).Error
	})
	if err != nil {
		return nil, writeFailure("child", MsgChildExists, err, logrus.Fields{"name": name, "actor_id": actor.ID})
	}

	parentID := input.ParentID
	child.ParentID = &parentID
	logrus.WithFields(logrus.Fields{
		"child_id":  child.ID,
		"name":      child.Name,
		"parent_id": parentID,
		"actor_id":  actor.ID,
	}).Info("Child created")
	return &child, nil
}

// UpdateChild looks the child up by name and overwrites its name and age.
// A new name replaces the business key; the parent link is kept.
func (s *Service) UpdateChild(ctx context.Context, actor *domain.Employee, name string, input ChildInput) (*domain.Child, error) {
	child, err := s.GetChild(ctx, actor, name)
	if err != nil {
		return nil, err
	}

	newName, err := normalizeName(input.Name, "name")
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(child).Updates(map[string]any{
			"name": newName,
			"age":  input.Age,
		}).Error
	})
	if err != nil {
		return nil, writeFailure("child", MsgChildExists, err, logrus.Fields{"child_id": child.ID, "actor_id": actor.ID})
	}

	child.Name = newName
	child.Age = input.Age
	logrus.WithFields(logrus.Fields{"child_id": child.ID, "name": newName, "actor_id": actor.ID}).Info("Child updated")
	return child, nil
}

// DeleteChild removes the child with the given name
func (s *Service) DeleteChild(ctx context.Context, actor *domain.Employee, name string) error {
	child, err := s.GetChild(ctx, actor, name)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Delete(child).Error
	})
	if err != nil {
		return writeFailure("child", MsgChildExists, err, logrus.Fields{"child_id": child.ID, "actor_id": actor.ID})
	}

	logrus.WithFields(logrus.Fields{"child_id": child.ID, "name": child.Name, "actor_id": actor.ID}).Info("Child deleted")
	return nil
}

// ensureEmployeeExists fails with a not found error for unknown employee ids
func (s *Service) ensureEmployeeExists(ctx context.Context, id uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Employee{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check employee existence: %w", err)
	}
	if count == 0 {
		return apperror.New(apperror.CodeNotFound, "employee not found")
	}
	return nil
}
