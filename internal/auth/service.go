package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/caredesk/caredesk/internal/db/models"
)

// Service provides authorization lookups against the database.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// LoadPrincipal reads the user with their role and permissions and builds the
// request's Principal. Nothing is cached between calls.
func (s *Service) LoadPrincipal(ctx context.Context, userID uint64) (*Principal, error) {
	var user models.User

	err := s.db.WithContext(ctx).
		Preload("Role.Permissions").
		First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load principal: %w", err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	return NewPrincipal(user.ID, user.Username, user.Role), nil
}

// GetUserPermissions returns the permission names granted to a user through their role.
func (s *Service) GetUserPermissions(ctx context.Context, userID uint64) ([]string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Select("id").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	permissions := make([]string, 0)

	err := s.db.WithContext(ctx).Table("permissions").
		Select("DISTINCT permissions.name").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN users ON users.role_id = role_permissions.role_id").
		Where("users.id = ?", userID).
		Order("permissions.name").
		Pluck("permissions.name", &permissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}

	return permissions, nil
}
