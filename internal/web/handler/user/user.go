// Package user provides the user-facing account endpoints.
package user

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/caredesk/caredesk/internal/auth"
	"github.com/caredesk/caredesk/internal/config"
	"github.com/caredesk/caredesk/internal/web/handler"
)

// Path is the base path for user resources.
const Path = handler.RootPath + "users"

type permissionsResponse struct {
	UserID      uint64   `json:"userId"`
	Permissions []string `json:"permissions"`
}

// Service serves the user endpoints.
type Service struct {
	handler.Service
	authService *auth.Service
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB) error {
	if router == nil || cfg == nil || db == nil {
		return handler.ErrNilDependency
	}

	s.authService = auth.NewService(db)

	router.Get(Path+"/:id/permissions", auth.Require("self_or_admin", SelfOrAdmin), s.Permissions)

	return nil
}

// SelfOrAdmin allows the user named by the id parameter and the admin role.
// A malformed id matches no user, so only admins pass and get the 400.
func SelfOrAdmin(c *fiber.Ctx) auth.Predicate {
	id, err := handler.ParamID(c, handler.IDParam)
	if err != nil {
		return auth.IsRole(auth.RoleAdmin)
	}

	return auth.IsSelfOrRole(uint64(id), auth.RoleAdmin)
}

// Permissions returns the distinct permission names of a user.
func (s *Service) Permissions(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, handler.IDParam)
	if err != nil {
		return err
	}

	perms, err := s.authService.GetUserPermissions(c.UserContext(), uint64(id))
	if err != nil {
		return err
	}

	return c.JSON(permissionsResponse{UserID: uint64(id), Permissions: perms})
}
