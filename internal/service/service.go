// Package service implements the staff administration operations. Every
// administrative method takes the acting employee explicitly and checks it
// with RequireAdmin before touching the database.
package service

import (
	"errors" // Error inspection
	"fmt"    // Error wrapping and formatting

	"staffadmin/internal/apperror" // Error codes
	"staffadmin/internal/db"       // Database access and error classification
	"staffadmin/internal/domain"   // Importing domain models

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// Service runs the staff administration operations against the database
type Service struct {
	db *gorm.DB
}

// New creates a Service using db
func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// RequireAdmin fails with a forbidden error unless actor is a logged in admin.
func RequireAdmin(actor *domain.Employee) error {
	if actor == nil || !actor.IsAdmin {
		return apperror.ErrForbidden
	}
	return nil
}

// notFound converts gorm's missing-row error into a not found error.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.New(apperror.CodeNotFound, what+" not found")
	}
	return fmt.Errorf("load %s: %w", what, err)
}

// writeFailure logs a failed write and reports it as a conflict. Callers never
// see the storage error; duplicates get duplicateMsg.
func writeFailure(entity, duplicateMsg string, err error, fields logrus.Fields) error {
	classified := db.Classify(err)
	logrus.WithFields(fields).WithError(classified).Errorf("%s write failed", entity)

	if errors.Is(classified, db.ErrDuplicate) {
		return apperror.New(apperror.CodeConflict, duplicateMsg)
	}
	return apperror.New(apperror.CodeConflict, "could not save "+entity)
}
