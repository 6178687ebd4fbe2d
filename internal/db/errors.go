package db

import (
	"errors"  // Error inspection
	"fmt"     // Error wrapping
	"strings" // Message matching for sqlite

	"github.com/go-sql-driver/mysql" // MySQL error codes
	"gorm.io/gorm"                   // GORM sentinel errors
)

// Typed persistence failures returned by Classify.
var (
	ErrDuplicate = errors.New("duplicate key")
	ErrReference = errors.New("invalid reference")
)

// MySQL server error numbers.
const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// Classify wraps err with ErrDuplicate or ErrReference when it is a unique or
// foreign key violation, and returns it unchanged otherwise.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrReference):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", ErrReference, err)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case mysqlRowIsReferenced, mysqlNoReferencedRow:
			return fmt.Errorf("%w: %w", ErrReference, err)
		}
	}

	// sqlite drivers without a translator only expose the message
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %w", ErrReference, err)
	}
	return err
}
