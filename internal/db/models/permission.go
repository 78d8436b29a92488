package models

import "time"

// Permission is a named capability a role may hold, e.g. "manage_roles".
// Names are never renamed; a permission is only created or deleted.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the unique, human-readable key checked by the capability resolver.
	Name string `gorm:"unique;size:100;not null" json:"name"`
	// Description explains what the permission grants.
	Description string `gorm:"size:255" json:"description"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}
