// Package permission provides the permission catalog store.
package permission

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/caredesk/caredesk/internal/db/controller"
	"github.com/caredesk/caredesk/internal/db/models"
)

const (
	nameQueryPattern = "name = ?"
)

// Create adds a permission to the catalog.
func Create(ctx context.Context, db *gorm.DB, name, description string) (*models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, controller.ErrNameEmpty
	}

	p := &models.Permission{
		Name:        name,
		Description: strings.TrimSpace(description),
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Permission{}).Where(nameQueryPattern, name).Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return pkgerrors.Wrapf(controller.ErrDuplicateName, "permission %q", name)
		}

		if err := tx.Create(p).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return pkgerrors.Wrapf(controller.ErrDuplicateName, "permission %q", name)
			}

			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

// List returns the catalog in creation order.
func List(ctx context.Context, db *gorm.DB) ([]models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var perms []models.Permission
	if err := db.WithContext(ctx).Order("id ASC").Find(&perms).Error; err != nil {
		return nil, err
	}

	return perms, nil
}

// Get retrieves a permission by id.
func Get(ctx context.Context, db *gorm.DB, id uint) (*models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var p models.Permission
	if err := db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrapf(controller.ErrNotFound, "permission %d", id)
		}

		return nil, err
	}

	return &p, nil
}

// GetByName retrieves a permission by its unique name.
func GetByName(ctx context.Context, db *gorm.DB, name string) (*models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var p models.Permission
	if err := db.WithContext(ctx).Where(nameQueryPattern, name).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrapf(controller.ErrNotFound, "permission %q", name)
		}

		return nil, err
	}

	return &p, nil
}

// Missing returns the ids from ids that have no permission row.
// The result keeps input order without duplicates.
func Missing(ctx context.Context, db *gorm.DB, ids []uint) ([]uint, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if len(ids) == 0 {
		return nil, nil
	}

	var found []uint
	if err := db.WithContext(ctx).Model(&models.Permission{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error; err != nil {
		return nil, err
	}

	known := make(map[uint]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}

	var missing []uint

	for _, id := range ids {
		if _, ok := known[id]; ok {
			continue
		}

		known[id] = struct{}{} // report each missing id once
		missing = append(missing, id)
	}

	return missing, nil
}

// Delete removes a permission. It refuses while any role references it.
func Delete(ctx context.Context, db *gorm.DB, id uint) error {
	if db == nil {
		return controller.ErrDBNil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.RolePermission{}).Where("permission_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}

		if refs > 0 {
			return pkgerrors.Wrapf(controller.ErrPermissionInUse, "permission %d referenced by %d role(s)", id, refs)
		}

		result := tx.Delete(&models.Permission{}, id)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return pkgerrors.Wrapf(controller.ErrNotFound, "permission %d", id)
		}

		return nil
	})
}
