package models

import "time"

// Role maps a role name to a permission set and to the two UI documents
// (dashboard layout and sidebar) rendered for its users.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the unique name of the role (e.g. "admin", "support_worker", "client").
	Name string `gorm:"unique;size:100;not null" json:"name"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255" json:"description"`
	// IsSystem marks seeded roles that cannot be deleted or renamed.
	IsSystem bool `gorm:"default:false" json:"isSystem"`
	// DashboardConfig is the widget layout of the role's landing page.
	DashboardConfig Dashboard `gorm:"column:dashboard_config;type:text" json:"dashboardConfig"`
	// SidebarItems is the ordered navigation menu of the role.
	SidebarItems Sidebar `gorm:"column:sidebar_items;type:text" json:"sidebarItems"`
	// Permissions is the role's permission set, joined through role_permissions.
	Permissions []Permission `gorm:"many2many:role_permissions;constraint:OnDelete:CASCADE" json:"permissions"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

// PermissionNames returns the names of the role's loaded permissions.
func (r *Role) PermissionNames() []string {
	names := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		names = append(names, p.Name)
	}

	return names
}
