// Package permission provides the JSON handlers for the permission catalog.
package permission

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/caredesk/caredesk/internal/auth"
	"github.com/caredesk/caredesk/internal/config"
	"github.com/caredesk/caredesk/internal/roleadmin"
	"github.com/caredesk/caredesk/internal/web/handler"
)

// Path is the base path for the permission catalog.
const Path = handler.RootPath + "permissions"

type createRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=255"`
}

// Service serves the permission endpoints.
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

	router.Get(Path, guard, s.List)
	router.Post(Path, guard, s.Create)
	router.Delete(Path+"/:id", guard, s.Delete)

	return nil
}

// List returns the catalog ordered by id.
func (s *Service) List(c *fiber.Ctx) error {
	perms, err := s.admin.ListPermissions(c.UserContext(), auth.PrincipalFromContext(c))
	if err != nil {
		return err
	}

	return c.JSON(perms)
}

// Create adds a permission.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := handler.ParseBody(c, &req); err != nil {
		return err
	}

	perm, err := s.admin.CreatePermission(c.UserContext(), auth.PrincipalFromContext(c), req.Name, req.Description)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(perm)
}

// Delete removes a permission no role references.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, handler.IDParam)
	if err != nil {
		return err
	}

	if err = s.admin.DeletePermission(c.UserContext(), auth.PrincipalFromContext(c), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
