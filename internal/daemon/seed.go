package daemon

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/caredesk/caredesk/internal/auth"
	"github.com/caredesk/caredesk/internal/config"
	"github.com/caredesk/caredesk/internal/db/controller/permission"
	"github.com/caredesk/caredesk/internal/db/controller/role"
	"github.com/caredesk/caredesk/internal/db/models"
)

type seedRole struct {
	input       role.Input
	permissions []string // nil grants the whole catalog
}

func widget(typ string) models.Widget {
	return models.Widget{Type: typ, Enabled: models.Bool(true)}
}

func seedRoles() []seedRole {
	return []seedRole{
		{
			input: role.Input{
				Name:        auth.RoleAdmin,
				Description: "Full access to administration",
				IsSystem:    true,
				Dashboard: models.Dashboard{Widgets: []models.Widget{
					widget("clients"), widget("approvals"), widget("reports"),
				}},
				Sidebar: models.Sidebar{
					{Name: "Dashboard", Icon: "home", Target: "/"},
					{Name: "Roles", Icon: "shield", Target: "/admin/roles"},
					{Name: "Users", Icon: "users", Target: "/admin/users"},
					{Name: "Clients", Icon: "user", Target: "/clients"},
					{Name: "Reports", Icon: "chart", Target: "/reports"},
					{Name: "Settings", Icon: "settings", Target: "/settings"},
				},
			},
		},
		{
			input: role.Input{
				Name:        auth.RoleCoordinator,
				Description: "Plans services and budgets for clients",
				Dashboard: models.Dashboard{Widgets: []models.Widget{
					widget("clients"), widget("shifts"), widget("budgets"), widget("approvals"),
				}},
				Sidebar: models.Sidebar{
					{Name: "Dashboard", Icon: "home", Target: "/"},
					{Name: "Clients", Icon: "users", Target: "/clients"},
					{Name: "Shifts", Icon: "calendar", Target: "/shifts"},
					{Name: "Budgets", Icon: "wallet", Target: "/budgets"},
					{Name: "Reports", Icon: "chart", Target: "/reports"},
					{Name: "Messages", Icon: "mail", Target: "/messages"},
				},
			},
			permissions: []string{
				auth.PermManageClients, auth.PermViewClients, auth.PermManageServices,
				auth.PermManageBudgets, auth.PermViewReports, auth.PermSendMessages,
			},
		},
		{
			input: role.Input{
				Name:        auth.RoleSupportWorker,
				Description: "Delivers services to clients",
				Dashboard: models.Dashboard{Widgets: []models.Widget{
					widget("shifts"), widget("messages"), widget("courses"),
				}},
				Sidebar: models.Sidebar{
					{Name: "Dashboard", Icon: "home", Target: "/"},
					{Name: "My Shifts", Icon: "calendar", Target: "/shifts"},
					{Name: "Clients", Icon: "users", Target: "/clients"},
					{Name: "Messages", Icon: "mail", Target: "/messages"},
					{Name: "Training", Icon: "book", Target: "/courses"},
				},
			},
			permissions: []string{auth.PermViewClients, auth.PermSendMessages},
		},
		{
			input: role.Input{
				Name:        auth.RoleClient,
				Description: "Portal access for clients",
				Dashboard: models.Dashboard{Widgets: []models.Widget{
					widget("budgets"), widget("services"), widget("messages"),
				}},
				Sidebar: models.Sidebar{
					{Name: "Home", Icon: "home", Target: "/"},
					{Name: "My Budget", Icon: "wallet", Target: "/budget"},
					{Name: "My Services", Icon: "heart", Target: "/services"},
					{Name: "Messages", Icon: "mail", Target: "/messages"},
				},
			},
			permissions: []string{},
		},
	}
}

// seed fills an empty database with the permission catalog, the default roles and
// the bootstrap admin account. A database that already holds roles is left alone.
func seed(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if !cfg.Seed.Enabled {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.Role{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "count roles")
	}

	if count > 0 {
		log.Debug().Int64("roles", count).Msg("database already seeded")
		return nil
	}

	byName := make(map[string]uint)
	all := make([]uint, 0, len(auth.Catalog()))

	for _, entry := range auth.Catalog() {
		p, err := permission.Create(ctx, db, entry.Name, entry.Description)
		if err != nil {
			return errors.Wrapf(err, "seed permission %q", entry.Name)
		}

		byName[p.Name] = p.ID
		all = append(all, p.ID)
	}

	var adminRoleID uint

	for _, sr := range seedRoles() {
		ids := all
		if sr.permissions != nil {
			ids = make([]uint, 0, len(sr.permissions))
			for _, name := range sr.permissions {
				ids = append(ids, byName[name])
			}
		}

		r, err := role.CreateWithPermissions(ctx, db, sr.input, ids)
		if err != nil {
			return errors.Wrapf(err, "seed role %q", sr.input.Name)
		}

		if r.Name == auth.RoleAdmin {
			adminRoleID = r.ID
		}
	}

	if cfg.Seed.AdminUsername == "" {
		return nil
	}

	_, err := auth.NewLocalProvider(db).CreateUser(ctx, auth.NewUser{
		Username: cfg.Seed.AdminUsername,
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
		RoleID:   adminRoleID,
	})
	if err != nil {
		return errors.Wrap(err, "seed admin user")
	}

	log.Info().Str("username", cfg.Seed.AdminUsername).Msg("seeded default roles and admin account")

	return nil
}
