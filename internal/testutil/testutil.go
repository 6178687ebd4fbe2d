// Package testutil holds fixtures shared by package tests: an in-memory
// database with the production schema and a throwaway redis.
package testutil

import (
	"testing"

	"staffadmin/internal/db"
	"staffadmin/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB opens a migrated in-memory sqlite database with foreign keys enforced.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), db.GormConfig())
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// NewRedis starts a miniredis server and returns it with a connected client.
func NewRedis(t testing.TB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// CreateEmployee inserts an employee with the given phone and password.
func CreateEmployee(t testing.TB, gdb *gorm.DB, phone, password string, admin bool) *domain.Employee {
	t.Helper()

	e := &domain.Employee{Phone: phone, IsAdmin: admin}
	require.NoError(t, e.SetPassword(password))
	require.NoError(t, gdb.Create(e).Error)
	return e
}

// CreateDepartment inserts a department.
func CreateDepartment(t testing.TB, gdb *gorm.DB, name string, budget int) *domain.Department {
	t.Helper()

	d := &domain.Department{Name: name, Budget: budget}
	require.NoError(t, gdb.Create(d).Error)
	return d
}

// CreateChild inserts a child linked to parentID.
func CreateChild(t testing.TB, gdb *gorm.DB, name string, age int, parentID uint) *domain.Child {
	t.Helper()

	c := &domain.Child{Name: name, Age: age, ParentID: &parentID}
	require.NoError(t, gdb.Create(c).Error)
	return c
}
