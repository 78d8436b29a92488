// Package uiconfig provides the read endpoints for role UI documents.
package uiconfig

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/caredesk/caredesk/internal/auth"
	"github.com/caredesk/caredesk/internal/config"
	"github.com/caredesk/caredesk/internal/uiconfig"
	"github.com/caredesk/caredesk/internal/web/handler"
)

const (
	// Path is the base path for role UI documents.
	Path = handler.RootPath + "ui-config"

	// MePath serves the documents of the caller's own role.
	MePath = handler.RootPath + "me/ui-config"

	// RoleParam is the route parameter carrying the role name.
	RoleParam = "role"

	capabilityRead = "read_ui_config"
)

// Service serves the ui-config endpoints.
type Service struct {
	handler.Service
	config *uiconfig.Service
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB) error {
	if router == nil || cfg == nil || db == nil {
		return handler.ErrNilDependency
	}

	s.config = uiconfig.NewService(db)

	guard := auth.Require(capabilityRead, CanRead)

	router.Get(Path+"/:role", guard, s.Combined)
	router.Get(Path+"/:role/dashboard", guard, s.Dashboard)
	router.Get(Path+"/:role/sidebar", guard, s.Sidebar)
	router.Get(MePath, guard, s.Me)

	return nil
}

// CanRead builds the access rule of a ui-config request: callers read their own
// role's documents, role administrators read any.
func CanRead(c *fiber.Ctx) auth.Predicate {
	manage := auth.Has(auth.PermManageRoles)

	roleName := c.Params(RoleParam)
	if roleName == "" {
		// me/ui-config
		return func(p *auth.Principal) bool { return p.RoleName() != "" }
	}

	return auth.AnyOf(auth.IsRole(roleName), manage)
}

// Combined returns both documents of a role.
func (s *Service) Combined(c *fiber.Ctx) error {
	out, err := s.config.GetCombined(c.UserContext(), c.Params(RoleParam))
	if err != nil {
		return err
	}

	return c.JSON(out)
}

// Dashboard returns the dashboard document of a role.
func (s *Service) Dashboard(c *fiber.Ctx) error {
	out, err := s.config.GetDashboardConfig(c.UserContext(), c.Params(RoleParam))
	if err != nil {
		return err
	}

	return c.JSON(out)
}

// Sidebar returns the sidebar document of a role.
func (s *Service) Sidebar(c *fiber.Ctx) error {
	out, err := s.config.GetSidebarItems(c.UserContext(), c.Params(RoleParam))
	if err != nil {
		return err
	}

	return c.JSON(out)
}

// Me returns both documents of the caller's role.
func (s *Service) Me(c *fiber.Ctx) error {
	out, err := s.config.GetCombined(c.UserContext(), auth.PrincipalFromContext(c).RoleName())
	if err != nil {
		return err
	}

	return c.JSON(out)
}
