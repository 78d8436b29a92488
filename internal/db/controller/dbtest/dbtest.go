// Package dbtest opens throwaway databases for package tests.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/caredesk/caredesk/internal/db/models"
)

// Open returns a migrated in-memory SQLite database that lives as long as the test.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)

	// one connection, every new one would open a fresh in-memory database
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.Migrate(db), "failed to migrate test database")

	return db
}

// Permissions inserts one permission per name and returns their ids in order.
func Permissions(t *testing.T, db *gorm.DB, names ...string) []uint {
	t.Helper()

	ids := make([]uint, 0, len(names))

	for _, name := range names {
		p := models.Permission{Name: name, Description: name}
		require.NoError(t, db.Create(&p).Error)

		ids = append(ids, p.ID)
	}

	return ids
}

// Role inserts a role holding permissionIDs.
func Role(t *testing.T, db *gorm.DB, name string, permissionIDs ...uint) *models.Role {
	t.Helper()

	r := &models.Role{Name: name}
	require.NoError(t, db.Omit("Permissions").Create(r).Error)

	for _, pid := range permissionIDs {
		require.NoError(t, db.Create(&models.RolePermission{RoleID: r.ID, PermissionID: pid}).Error)
	}

	return r
}

// User inserts an active user holding roleID.
func User(t *testing.T, db *gorm.DB, username string, roleID uint) *models.User {
	t.Helper()

	u := &models.User{
		Active:   true,
		Username: username,
		Email:    username + "@caredesk.test",
		RoleID:   roleID,
	}
	require.NoError(t, db.Omit("Role").Create(u).Error)

	return u
}
