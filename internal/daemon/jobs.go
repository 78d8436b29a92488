package daemon

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/caredesk/caredesk/internal/db/models"
)

var roleUsers = promauto.NewGaugeVec( //nolint:gochecknoglobals
	prometheus.GaugeOpts{
		Name: "caredesk_role_users",
		Help: "Number of active users holding each role.",
	},
	[]string{"role"},
)

type roleUserCount struct {
	Name  string
	Users int64
}

// recordRoleUsers refreshes the per role user gauge. Roles without users report 0,
// deleted roles disappear.
func recordRoleUsers(ctx context.Context, db *gorm.DB) error {
	var rows []roleUserCount

	err := db.WithContext(ctx).Model(&models.Role{}).
		Select("roles.name AS name, COUNT(users.id) AS users").
		Joins("LEFT JOIN users ON users.role_id = roles.id AND users.active = ?", true).
		Group("roles.name").
		Scan(&rows).Error
	if err != nil {
		return errors.Wrap(err, "count users per role")
	}

	roleUsers.Reset()

	for _, r := range rows {
		roleUsers.WithLabelValues(r.Name).Set(float64(r.Users))
	}

	return nil
}

// scheduleRoleStats registers the gauge refresh and runs it once so /metrics is filled at start.
func scheduleRoleStats(c *cron.Cron, schedule string, db *gorm.DB) error {
	run := func() {
		if err := recordRoleUsers(context.Background(), db); err != nil {
			log.Error().Err(err).Msg("role stats job failed")
		}
	}

	if _, err := c.AddFunc(schedule, run); err != nil {
		return errors.Wrapf(err, "schedule role stats %q", schedule)
	}

	run()

	return nil
}
