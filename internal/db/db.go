package db

import (
	"time" // Slow query threshold

	"github.com/sirupsen/logrus"     // Logrus for structured logging
	"gorm.io/driver/mysql"           // MySQL driver for GORM
	"gorm.io/gorm"                   // GORM ORM library
	gormlogger "gorm.io/gorm/logger" // GORM logger interface
)

// GormConfig returns the GORM settings shared by every connection. Driver
// errors are translated so unique and foreign key violations can be told apart.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true, // Map driver errors onto gorm.ErrDuplicatedKey and friends
		Logger:         newGormLogger(logrus.StandardLogger()),
	}
}

// gormWriter forwards gorm's log lines to logrus at warn level. gorm only
// reports slow queries and failures at the level configured below.
type gormWriter struct {
	logger *logrus.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.logger.WithField("component", "gorm").Warnf(format, args...)
}

// newGormLogger builds the gorm logger writing through logger
func newGormLogger(logger *logrus.Logger) gormlogger.Interface {
	return gormlogger.New(gormWriter{logger: logger}, gormlogger.Config{
		SlowThreshold:             time.Second,     // Report queries slower than a second
		LogLevel:                  gormlogger.Warn, // Only warnings and errors
		IgnoreRecordNotFoundError: true,            // Missing rows are handled by callers
	})
}

// Open connects to MySQL using the given DSN
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), GormConfig())
}
