package auth

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/caredesk/caredesk/internal/db/models"
)

// Principal is the authenticated actor of one request. It is immutable once built.
type Principal struct {
	UserID   uint64
	Username string
	Role     models.Role

	permissions map[string]struct{}
}

// NewPrincipal builds a principal for user holding role.
// The permission set is taken from role.Permissions.
func NewPrincipal(userID uint64, username string, role models.Role) *Principal {
	set := make(map[string]struct{}, len(role.Permissions))
	for _, p := range role.Permissions {
		set[p.Name] = struct{}{}
	}

	return &Principal{
		UserID:      userID,
		Username:    username,
		Role:        role,
		permissions: set,
	}
}

// RoleName returns the name of the principal's role.
func (p *Principal) RoleName() string {
	if p == nil {
		return ""
	}

	return p.Role.Name
}

// HasPermission reports whether the principal's role grants name.
func (p *Principal) HasPermission(name string) bool {
	if p == nil {
		return false
	}

	_, ok := p.permissions[name]

	return ok
}

// Permissions returns the principal's permission names, sorted.
func (p *Principal) Permissions() []string {
	if p == nil {
		return nil
	}

	out := make([]string, 0, len(p.permissions))
	for name := range p.permissions {
		out = append(out, name)
	}

	sort.Strings(out)

	return out
}

// Require returns ErrUnauthorized unless the principal holds permission.
func (p *Principal) Require(permission string) error {
	if !p.HasPermission(permission) {
		return errors.Wrapf(ErrUnauthorized, "%s required", permission)
	}

	return nil
}
