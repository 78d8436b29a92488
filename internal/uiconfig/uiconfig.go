// Package uiconfig resolves the dashboard and sidebar documents of a role.
//
// Reads are side-effect free. A missing or unreadable document yields an empty
// one; the only error a caller sees for a healthy database is a missing role.
package uiconfig

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/caredesk/caredesk/internal/db/controller/role"
	"github.com/caredesk/caredesk/internal/db/models"
)

// Combined is the UI configuration of one role, read from a single row version.
type Combined struct {
	Role            string           `json:"role"`
	DashboardConfig models.Dashboard `json:"dashboardConfig"`
	SidebarItems    models.Sidebar   `json:"sidebarItems"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// Service serves role UI documents.
type Service struct {
	db *gorm.DB
}

// NewService creates a new configuration resolution service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetDashboardConfig returns the dashboard document of roleName.
func (s *Service) GetDashboardConfig(ctx context.Context, roleName string) (models.Dashboard, error) {
	c, err := s.GetCombined(ctx, roleName)
	if err != nil {
		return models.Dashboard{}, err
	}

	return c.DashboardConfig, nil
}

// GetSidebarItems returns the sidebar document of roleName.
func (s *Service) GetSidebarItems(ctx context.Context, roleName string) (models.Sidebar, error) {
	c, err := s.GetCombined(ctx, roleName)
	if err != nil {
		return nil, err
	}

	return c.SidebarItems, nil
}

// GetCombined returns both documents of roleName from one row fetch.
func (s *Service) GetCombined(ctx context.Context, roleName string) (*Combined, error) {
	r, err := role.GetDocuments(ctx, s.db, roleName)
	if err != nil {
		return nil, err
	}

	return &Combined{
		Role:            r.Name,
		DashboardConfig: r.DashboardConfig,
		SidebarItems:    r.SidebarItems,
		UpdatedAt:       r.UpdatedAt,
	}, nil
}
