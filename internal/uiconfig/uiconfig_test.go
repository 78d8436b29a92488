package uiconfig

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caredesk/caredesk/internal/db/controller"
	"github.com/caredesk/caredesk/internal/db/controller/dbtest"
	"github.com/caredesk/caredesk/internal/db/controller/role"
	"github.com/caredesk/caredesk/internal/db/models"
)

func TestGetters(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	svc := NewService(db)

	dash := models.Dashboard{Widgets: []models.Widget{{Type: "clients", Enabled: models.Bool(true)}}}
	side := models.Sidebar{{Name: "Clients", Icon: "users", Color: "#123456"}}

	_, err := role.Create(ctx, db, role.Input{Name: "coordinator", Dashboard: dash, Sidebar: side})
	require.NoError(t, err)

	gotDash, err := svc.GetDashboardConfig(ctx, "coordinator")
	require.NoError(t, err)
	assert.Equal(t, dash, gotDash)

	gotSide, err := svc.GetSidebarItems(ctx, "coordinator")
	require.NoError(t, err)
	assert.Equal(t, side, gotSide)

	combined, err := svc.GetCombined(ctx, "coordinator")
	require.NoError(t, err)
	assert.Equal(t, "coordinator", combined.Role)
	assert.Equal(t, dash, combined.DashboardConfig)
	assert.Equal(t, side, combined.SidebarItems)
}

func TestMissingDocumentsAreEmpty(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	svc := NewService(db)

	r := dbtest.Role(t, db, "client")
	require.NoError(t, db.Exec("UPDATE roles SET dashboard_config = NULL, sidebar_items = '' WHERE id = ?", r.ID).Error)

	combined, err := svc.GetCombined(ctx, "client")
	require.NoError(t, err)
	assert.True(t, combined.DashboardConfig.IsEmpty())
	assert.Empty(t, combined.SidebarItems)
}

func TestRoleNotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewService(dbtest.Open(t))

	_, err := svc.GetDashboardConfig(ctx, "ghost")
	require.ErrorIs(t, err, controller.ErrNotFound)

	_, err = svc.GetSidebarItems(ctx, "ghost")
	require.ErrorIs(t, err, controller.ErrNotFound)

	_, err = svc.GetCombined(ctx, "ghost")
	require.ErrorIs(t, err, controller.ErrNotFound)
}

func versioned(n int) role.Patch {
	label := fmt.Sprintf("v%d", n)

	return role.Patch{
		Dashboard: &models.Dashboard{Widgets: []models.Widget{{Type: label, Enabled: models.Bool(true)}}},
		Sidebar:   &models.Sidebar{{Name: label, Icon: "tag"}},
	}
}

func TestGetCombined_NoTearingUnderConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	svc := NewService(db)

	r := dbtest.Role(t, db, "coordinator")
	_, err := role.Update(ctx, db, r.ID, versioned(0))
	require.NoError(t, err)

	var wg sync.WaitGroup

	for n := 1; n <= 20; n++ {
		wg.Add(2)

		go func(n int) {
			defer wg.Done()

			_, errUpdate := role.Update(ctx, db, r.ID, versioned(n))
			assert.NoError(t, errUpdate)
		}(n)

		go func() {
			defer wg.Done()

			c, errGet := svc.GetCombined(ctx, "coordinator")
			if !assert.NoError(t, errGet) {
				return
			}

			if assert.Len(t, c.DashboardConfig.Widgets, 1) && assert.Len(t, c.SidebarItems, 1) {
				assert.Equal(t, c.DashboardConfig.Widgets[0].Type, c.SidebarItems[0].Name)
			}
		}()
	}

	wg.Wait()
}
