// Package models contains database model definitions.
package models

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Migrate creates or updates all tables owned by the application.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Role{}, "Permissions", &RolePermission{}); err != nil {
		return errors.Wrap(err, "failed to set up role_permissions join table")
	}

	if err := db.AutoMigrate(
		&Permission{},
		&Role{},
		&RolePermission{},
		&User{},
	); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	return nil
}
