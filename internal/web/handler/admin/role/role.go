// Package role provides the JSON handlers for role administration.
package role

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/caredesk/caredesk/internal/auth"
	"github.com/caredesk/caredesk/internal/config"
	rolestore "github.com/caredesk/caredesk/internal/db/controller/role"
	"github.com/caredesk/caredesk/internal/db/models"
	"github.com/caredesk/caredesk/internal/roleadmin"
	"github.com/caredesk/caredesk/internal/web/handler"
)

const (
	// Path is the base path for role management.
	Path = handler.RootPath + "roles"

	// ReassignQuery names the query parameter moving users off a deleted role.
	ReassignQuery = "reassignTo"
)

type createRequest struct {
	Name            string           `json:"name"            validate:"required,max=100"`
	Description     string           `json:"description"     validate:"max=255"`
	DashboardConfig models.Dashboard `json:"dashboardConfig" validate:"-"`
	SidebarItems    models.Sidebar   `json:"sidebarItems"    validate:"-"`
	PermissionIDs   []uint           `json:"permissionIds"`
}

type updateRequest struct {
	Name            *string           `json:"name"            validate:"omitempty,max=100"`
	Description     *string           `json:"description"     validate:"omitempty,max=255"`
	DashboardConfig *models.Dashboard `json:"dashboardConfig" validate:"-"`
	SidebarItems    *models.Sidebar   `json:"sidebarItems"    validate:"-"`
}

type permissionsRequest struct {
	PermissionIDs []uint `json:"permissionIds" validate:"required"`
}

// Service serves the role endpoints of one or more API generations.
type Service struct {
	handler.Service
	admin *roleadmin.Service
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB) error {
	if router == nil || cfg == nil || db == nil {
		return handler.ErrNilDependency
	}

	s.admin = roleadmin.NewService(db)

	guard := auth.RequirePermission(auth.PermManageRoles)

	router.Route(Path, func(r fiber.Router) {
		r.Get(handler.RootPath, guard, s.List)
		r.Post(handler.RootPath, guard, s.Create)
		r.Get("/:id", guard, s.Get)
		r.Patch("/:id", guard, s.Update)
		r.Delete("/:id", guard, s.Delete)
		r.Put("/:id/permissions", guard, s.SetPermissions)
		r.Put("/:id/dashboard", guard, s.PutDashboard)
		r.Put("/:id/sidebar", guard, s.PutSidebar)
	})

	return nil
}

// List returns all roles.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := s.admin.ListRoles(c.UserContext(), auth.PrincipalFromContext(c))
	if err != nil {
		return err
	}

	return c.JSON(roles)
}

// Get returns one role.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, handler.IDParam)
	if err != nil {
		return err
	}

	r, err := s.admin.GetRole(c.UserContext(), auth.PrincipalFromContext(c), id)
	if err != nil {
		return err
	}

	return c.JSON(r)
}

// Create creates a role with its documents and permissions.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := handler.ParseBody(c, &req); err != nil {
		return err
	}

	r, err := s.admin.CreateRole(c.UserContext(), auth.PrincipalFromContext(c), roleadmin.CreateRoleInput{
		Input: rolestore.Input{
			Name:        req.Name,
			Description: req.Description,
			Dashboard:   req.DashboardConfig,
			Sidebar:     req.SidebarItems,
		},
		PermissionIDs: req.PermissionIDs,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(r)
}

// Update applies a partial update; absent fields are left untouched.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, handler.IDParam)
	if err != nil {
		return err
	}

	var req updateRequest
	if err = handler.ParseBody(c, &req); err != nil {
		return err
	}

	r, err := s.admin.UpdateRole(c.UserContext(), auth.PrincipalFromContext(c), id, rolestore.Patch{
		Name:        req.Name,
		Description: req.Description,
		Dashboard:   req.DashboardConfig,
		Sidebar:     req.SidebarItems,
	})
	if err != nil {
		return err
	}

	return c.JSON(r)
}

// Delete removes a role. Users still holding it need ?reassignTo=<role id>.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, handler.IDParam)
	if err != nil {
		return err
	}

	reassignTo, err := handler.QueryID(c, ReassignQuery)
	if err != nil {
		return err
	}

	if err = s.admin.DeleteRole(c.UserContext(), auth.PrincipalFromContext(c), id, reassignTo); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// SetPermissions replaces the permission set of a role.
func (s *Service) SetPermissions(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, handler.IDParam)
	if err != nil {
		return err
	}

	var req permissionsRequest
	if err = handler.ParseBody(c, &req); err != nil {
		return err
	}

	r, err := s.admin.SetRolePermissions(c.UserContext(), auth.PrincipalFromContext(c), id, req.PermissionIDs)
	if err != nil {
		return err
	}

	return c.JSON(r)
}

// PutDashboard replaces the dashboard document; the body is the document itself.
func (s *Service) PutDashboard(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, handler.IDParam)
	if err != nil {
		return err
	}

	var dashboard models.Dashboard
	if err = handler.DecodeJSON(c, &dashboard); err != nil {
		return err
	}

	r, err := s.admin.UpdateRoleDashboard(c.UserContext(), auth.PrincipalFromContext(c), id, dashboard)
	if err != nil {
		return err
	}

	return c.JSON(r)
}

// PutSidebar replaces the sidebar document; the body is the document itself.
func (s *Service) PutSidebar(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, handler.IDParam)
	if err != nil {
		return err
	}

	var sidebar models.Sidebar
	if err = handler.DecodeJSON(c, &sidebar); err != nil {
		return err
	}

	r, err := s.admin.UpdateRoleSidebar(c.UserContext(), auth.PrincipalFromContext(c), id, sidebar)
	if err != nil {
		return err
	}

	return c.JSON(r)
}
