// Package roleadmin exposes role and permission administration to principals
// holding manage_roles. The capability check runs before any store access and
// store errors are returned unchanged.
package roleadmin

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/caredesk/caredesk/internal/auth"
	"github.com/caredesk/caredesk/internal/db/controller/permission"
	"github.com/caredesk/caredesk/internal/db/controller/role"
	"github.com/caredesk/caredesk/internal/db/models"
)

// CreateRoleInput holds a new role and the ids of the permissions it starts with.
type CreateRoleInput struct {
	role.Input

	PermissionIDs []uint
}

// Service implements the administration operations.
type Service struct {
	db *gorm.DB
}

// NewService creates a new administration service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func authorize(p *auth.Principal) error {
	return p.Require(auth.PermManageRoles)
}

func audit(p *auth.Principal, action string) *zerolog.Event {
	return log.Info().Str("actor", p.Username).Uint64("actor_id", p.UserID).Str("action", action)
}

// ListRoles returns all roles with their permissions.
func (s *Service) ListRoles(ctx context.Context, p *auth.Principal) ([]models.Role, error) {
	if err := authorize(p); err != nil {
		return nil, err
	}

	return role.List(ctx, s.db)
}

// GetRole returns one role with its permissions.
func (s *Service) GetRole(ctx context.Context, p *auth.Principal, id uint) (*models.Role, error) {
	if err := authorize(p); err != nil {
		return nil, err
	}

	return role.Get(ctx, s.db, id)
}

// CreateRole creates a role and attaches its permissions in one transaction.
func (s *Service) CreateRole(ctx context.Context, p *auth.Principal, in CreateRoleInput) (*models.Role, error) {
	if err := authorize(p); err != nil {
		return nil, err
	}

	r, err := role.CreateWithPermissions(ctx, s.db, in.Input, in.PermissionIDs)
	if err != nil {
		return nil, err
	}

	audit(p, "role.create").Uint("role_id", r.ID).Str("role", r.Name).
		Strs("permissions", r.PermissionNames()).Msg("Role created")

	return r, nil
}

// UpdateRole applies a partial update to a role.
func (s *Service) UpdateRole(ctx context.Context, p *auth.Principal, id uint, patch role.Patch) (*models.Role, error) {
	if err := authorize(p); err != nil {
		return nil, err
	}

	r, err := role.Update(ctx, s.db, id, patch)
	if err != nil {
		return nil, err
	}

	audit(p, "role.update").Uint("role_id", r.ID).Str("role", r.Name).Msg("Role updated")

	return r, nil
}

// UpdateRoleDashboard replaces only the dashboard document of a role.
func (s *Service) UpdateRoleDashboard(
	ctx context.Context,
	p *auth.Principal,
	id uint,
	dashboard models.Dashboard,
) (*models.Role, error) {
	if err := authorize(p); err != nil {
		return nil, err
	}

	r, err := role.Update(ctx, s.db, id, role.Patch{Dashboard: &dashboard})
	if err != nil {
		return nil, err
	}

	audit(p, "role.dashboard").Uint("role_id", r.ID).Str("role", r.Name).
		Int("widgets", len(dashboard.Widgets)).Msg("Role dashboard replaced")

	return r, nil
}

// UpdateRoleSidebar replaces only the sidebar document of a role.
func (s *Service) UpdateRoleSidebar(
	ctx context.Context,
	p *auth.Principal,
	id uint,
	sidebar models.Sidebar,
) (*models.Role, error) {
	if err := authorize(p); err != nil {
		return nil, err
	}

	r, err := role.Update(ctx, s.db, id, role.Patch{Sidebar: &sidebar})
	if err != nil {
		return nil, err
	}

	audit(p, "role.sidebar").Uint("role_id", r.ID).Str("role", r.Name).
		Int("items", len(sidebar)).Msg("Role sidebar replaced")

	return r, nil
}

// SetRolePermissions replaces the permission set of a role.
func (s *Service) SetRolePermissions(
	ctx context.Context,
	p *auth.Principal,
	id uint,
	permissionIDs []uint,
) (*models.Role, error) {
	if err := authorize(p); err != nil {
		return nil, err
	}

	r, err := role.SetPermissions(ctx, s.db, id, permissionIDs)
	if err != nil {
		return nil, err
	}

	audit(p, "role.permissions").Uint("role_id", r.ID).Str("role", r.Name).
		Strs("permissions", r.PermissionNames()).Msg("Role permissions replaced")

	return r, nil
}

// DeleteRole removes a role, optionally moving its users to reassignTo first.
func (s *Service) DeleteRole(ctx context.Context, p *auth.Principal, id uint, reassignTo *uint) error {
	if err := authorize(p); err != nil {
		return err
	}

	if err := role.Delete(ctx, s.db, id, reassignTo); err != nil {
		return err
	}

	event := audit(p, "role.delete").Uint("role_id", id)
	if reassignTo != nil {
		event = event.Uint("reassigned_to", *reassignTo)
	}

	event.Msg("Role deleted")

	return nil
}

// ListPermissions returns the permission catalog.
func (s *Service) ListPermissions(ctx context.Context, p *auth.Principal) ([]models.Permission, error) {
	if err := authorize(p); err != nil {
		return nil, err
	}

	return permission.List(ctx, s.db)
}

// CreatePermission adds a permission to the catalog.
func (s *Service) CreatePermission(
	ctx context.Context,
	p *auth.Principal,
	name, description string,
) (*models.Permission, error) {
	if err := authorize(p); err != nil {
		return nil, err
	}

	perm, err := permission.Create(ctx, s.db, name, description)
	if err != nil {
		return nil, err
	}

	audit(p, "permission.create").Uint("permission_id", perm.ID).Str("permission", perm.Name).
		Msg("Permission created")

	return perm, nil
}

// DeletePermission removes an unreferenced permission from the catalog.
func (s *Service) DeletePermission(ctx context.Context, p *auth.Principal, id uint) error {
	if err := authorize(p); err != nil {
		return err
	}

	if err := permission.Delete(ctx, s.db, id); err != nil {
		return err
	}

	audit(p, "permission.delete").Uint("permission_id", id).Msg("Permission deleted")

	return nil
}
