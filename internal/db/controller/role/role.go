// Package role provides the role registry: role records, their permission sets
// and their dashboard and sidebar documents.
//
// Role updates are last-writer-wins. There is no optimistic locking; role edits
// are rare administrative actions.
package role

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/caredesk/caredesk/internal/db/controller"
	"github.com/caredesk/caredesk/internal/db/controller/permission"
	"github.com/caredesk/caredesk/internal/db/models"
)

const (
	nameQueryPattern   = "name = ?"
	roleIDQueryPattern = "role_id = ?"

	columnName        = "name"
	columnDescription = "description"
	columnDashboard   = "dashboard_config"
	columnSidebar     = "sidebar_items"
)

// Input holds the fields of a new role.
type Input struct {
	Name        string
	Description string
	Dashboard   models.Dashboard
	Sidebar     models.Sidebar
	IsSystem    bool
}

// Patch holds the fields of a partial update; nil fields are left unchanged.
type Patch struct {
	Name        *string
	Description *string
	Dashboard   *models.Dashboard
	Sidebar     *models.Sidebar
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Dashboard == nil && p.Sidebar == nil
}

func preloadPermissions(db *gorm.DB) *gorm.DB {
	return db.Preload("Permissions", func(db *gorm.DB) *gorm.DB {
		return db.Order("permissions.id ASC")
	})
}

// Get retrieves a role by id with its permissions.
func Get(ctx context.Context, db *gorm.DB, id uint) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var r models.Role
	if err := preloadPermissions(db.WithContext(ctx)).First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrapf(controller.ErrNotFound, "role %d", id)
		}

		return nil, err
	}

	return &r, nil
}

// GetByName retrieves a role by name with its permissions.
func GetByName(ctx context.Context, db *gorm.DB, name string) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var r models.Role
	if err := preloadPermissions(db.WithContext(ctx)).Where(nameQueryPattern, name).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrapf(controller.ErrNotFound, "role %q", name)
		}

		return nil, err
	}

	return &r, nil
}

// GetDocuments loads the dashboard and sidebar of a role in one row fetch,
// so both documents always come from the same version of the role.
func GetDocuments(ctx context.Context, db *gorm.DB, name string) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var r models.Role

	err := db.WithContext(ctx).
		Select("id", columnName, columnDashboard, columnSidebar, "updated_at").
		Where(nameQueryPattern, name).
		First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrapf(controller.ErrNotFound, "role %q", name)
		}

		return nil, err
	}

	return &r, nil
}

// List returns all roles ordered by name with their permissions.
func List(ctx context.Context, db *gorm.DB) ([]models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var roles []models.Role
	if err := preloadPermissions(db.WithContext(ctx)).Order("name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}

	return roles, nil
}

// Create inserts a new role without permissions.
func Create(ctx context.Context, db *gorm.DB, in Input) (*models.Role, error) {
	return CreateWithPermissions(ctx, db, in, nil)
}

// CreateWithPermissions inserts a role and attaches permissionIDs in one transaction.
// If attaching fails the role is not created.
func CreateWithPermissions(ctx context.Context, db *gorm.DB, in Input, permissionIDs []uint) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, controller.ErrNameEmpty
	}

	if err := validateDocuments(&in.Dashboard, &in.Sidebar); err != nil {
		return nil, err
	}

	r := &models.Role{
		Name:            in.Name,
		Description:     strings.TrimSpace(in.Description),
		IsSystem:        in.IsSystem,
		DashboardConfig: in.Dashboard,
		SidebarItems:    in.Sidebar,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureNameFree(tx, in.Name, 0); err != nil {
			return err
		}

		if err := tx.Omit("Permissions").Create(r).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return pkgerrors.Wrapf(controller.ErrDuplicateName, "role %q", in.Name)
			}

			return err
		}

		return applyPermissions(ctx, tx, r.ID, permissionIDs)
	})
	if err != nil {
		return nil, err
	}

	return Get(ctx, db, r.ID)
}

// Update applies a partial update. Only the supplied fields are written.
func Update(ctx context.Context, db *gorm.DB, id uint, patch Patch) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if err := validateDocuments(patch.Dashboard, patch.Sidebar); err != nil {
		return nil, err
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Role
		if err := tx.Select("id", columnName, "is_system").First(&current, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrapf(controller.ErrNotFound, "role %d", id)
			}

			return err
		}

		updates := make(map[string]any, 4) //nolint:mnd

		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return controller.ErrNameEmpty
			}

			if name != current.Name {
				// permission checks match system roles by name
				if current.IsSystem {
					return pkgerrors.Wrapf(controller.ErrSystemRole, "rename role %q", current.Name)
				}

				if err := ensureNameFree(tx, name, id); err != nil {
					return err
				}
			}

			updates[columnName] = name
		}

		if patch.Description != nil {
			updates[columnDescription] = strings.TrimSpace(*patch.Description)
		}

		if patch.Dashboard != nil {
			updates[columnDashboard] = *patch.Dashboard
		}

		if patch.Sidebar != nil {
			updates[columnSidebar] = *patch.Sidebar
		}

		if len(updates) == 0 {
			return nil
		}

		return tx.Model(&models.Role{ID: id}).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return Get(ctx, db, id)
}

// SetPermissions replaces the role's permission set with permissionIDs.
// The change is all-or-nothing; an unknown id rejects the whole call.
func SetPermissions(ctx context.Context, db *gorm.DB, id uint, permissionIDs []uint) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureExists(tx, id); err != nil {
			return err
		}

		return applyPermissions(ctx, tx, id, permissionIDs)
	})
	if err != nil {
		return nil, err
	}

	return Get(ctx, db, id)
}

// PermissionIDs returns the ids currently attached to the role, ascending.
func PermissionIDs(ctx context.Context, db *gorm.DB, id uint) ([]uint, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var ids []uint
	if err := db.WithContext(ctx).Model(&models.RolePermission{}).
		Where(roleIDQueryPattern, id).
		Order("permission_id ASC").
		Pluck("permission_id", &ids).Error; err != nil {
		return nil, err
	}

	return ids, nil
}

// CountUsers returns how many users hold the role.
func CountUsers(ctx context.Context, db *gorm.DB, id uint) (int64, error) {
	if db == nil {
		return 0, controller.ErrDBNil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where(roleIDQueryPattern, id).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// Delete removes a role. While users hold it the call fails with ErrRoleInUse,
// unless reassignTo names another role; then those users move to it first,
// in the same transaction.
func Delete(ctx context.Context, db *gorm.DB, id uint, reassignTo *uint) error {
	if db == nil {
		return controller.ErrDBNil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r models.Role
		if err := tx.Select("id", columnName, "is_system").First(&r, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrapf(controller.ErrNotFound, "role %d", id)
			}

			return err
		}

		if r.IsSystem {
			return pkgerrors.Wrapf(controller.ErrSystemRole, "role %q", r.Name)
		}

		var users int64
		if err := tx.Model(&models.User{}).Where(roleIDQueryPattern, id).Count(&users).Error; err != nil {
			return err
		}

		if users > 0 {
			if err := reassignUsers(tx, id, reassignTo, users); err != nil {
				return err
			}
		}

		if err := tx.Where(roleIDQueryPattern, id).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Role{}, id).Error
	})
}

func reassignUsers(tx *gorm.DB, id uint, reassignTo *uint, users int64) error {
	if reassignTo == nil {
		return pkgerrors.Wrapf(controller.ErrRoleInUse, "role %d held by %d user(s)", id, users)
	}

	if *reassignTo == id {
		return controller.ErrInvalidReassign
	}

	if err := ensureExists(tx, *reassignTo); err != nil {
		return pkgerrors.Wrapf(controller.ErrInvalidReassign, "target role %d does not exist", *reassignTo)
	}

	return tx.Model(&models.User{}).Where(roleIDQueryPattern, id).Update("role_id", *reassignTo).Error
}

// applyPermissions computes the difference between the stored and the wanted set
// and applies both halves on tx.
func applyPermissions(ctx context.Context, tx *gorm.DB, roleID uint, permissionIDs []uint) error {
	want := dedupe(permissionIDs)

	missing, err := permission.Missing(ctx, tx, want)
	if err != nil {
		return err
	}

	if len(missing) > 0 {
		return pkgerrors.Wrapf(controller.ErrUnknownPermission, "permission ids %v", missing)
	}

	var current []uint
	if err = tx.Model(&models.RolePermission{}).Where(roleIDQueryPattern, roleID).
		Pluck("permission_id", &current).Error; err != nil {
		return err
	}

	add, remove := diff(current, want)

	if len(remove) > 0 {
		if err = tx.Where("role_id = ? AND permission_id IN ?", roleID, remove).
			Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
	}

	if len(add) > 0 {
		rows := make([]models.RolePermission, 0, len(add))
		for _, pid := range add {
			rows = append(rows, models.RolePermission{RoleID: roleID, PermissionID: pid})
		}

		if err = tx.Create(&rows).Error; err != nil {
			return err
		}
	}

	return nil
}

// diff returns the ids to insert and to delete to turn current into want.
func diff(current, want []uint) (add, remove []uint) {
	have := make(map[uint]struct{}, len(current))
	for _, id := range current {
		have[id] = struct{}{}
	}

	keep := make(map[uint]struct{}, len(want))
	for _, id := range want {
		keep[id] = struct{}{}

		if _, ok := have[id]; !ok {
			add = append(add, id)
		}
	}

	for _, id := range current {
		if _, ok := keep[id]; !ok {
			remove = append(remove, id)
		}
	}

	return add, remove
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}

func ensureExists(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Role{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return pkgerrors.Wrapf(controller.ErrNotFound, "role %d", id)
	}

	return nil
}

func ensureNameFree(tx *gorm.DB, name string, exceptID uint) error {
	var count int64
	if err := tx.Model(&models.Role{}).Where("name = ? AND id <> ?", name, exceptID).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return pkgerrors.Wrapf(controller.ErrDuplicateName, "role %q", name)
	}

	return nil
}

func validateDocuments(dashboard *models.Dashboard, sidebar *models.Sidebar) error {
	if dashboard != nil {
		if err := dashboard.Validate(); err != nil {
			return pkgerrors.Wrapf(controller.ErrInvalidDocument, "dashboard: %v", err)
		}
	}

	if sidebar != nil {
		if err := sidebar.Validate(); err != nil {
			return pkgerrors.Wrapf(controller.ErrInvalidDocument, "sidebar: %v", err)
		}
	}

	return nil
}
