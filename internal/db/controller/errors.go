// Package controller holds the error taxonomy shared by the role and permission stores.
// Stores wrap these sentinels with context; callers match them with errors.Is.
package controller

import "errors"

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")

	// ErrNotFound is returned when a role or permission does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned when a role or permission name is already taken.
	ErrDuplicateName = errors.New("name already exists")

	// ErrNameEmpty is returned when a role or permission name is blank.
	ErrNameEmpty = errors.New("name cannot be empty")

	// ErrInvalidDocument is returned when a dashboard or sidebar document fails validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrUnknownPermission is returned when a permission id does not exist.
	ErrUnknownPermission = errors.New("unknown permission")

	// ErrRoleInUse is returned when deleting a role that users still hold.
	ErrRoleInUse = errors.New("role is assigned to users")

	// ErrPermissionInUse is returned when deleting a permission that roles still reference.
	ErrPermissionInUse = errors.New("permission is assigned to roles")

	// ErrSystemRole is returned when deleting or renaming a seeded system role.
	ErrSystemRole = errors.New("system role cannot be deleted or renamed")

	// ErrInvalidReassign is returned when users would be reassigned to the role being deleted.
	ErrInvalidReassign = errors.New("cannot reassign users to the role being deleted")
)
