package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/caredesk/caredesk/internal/db/models"
)

func roleWith(name string, permissions ...string) models.Role {
	r := models.Role{Name: name}
	for i, p := range permissions {
		r.Permissions = append(r.Permissions, models.Permission{ID: uint(i + 1), Name: p})
	}

	return r
}

func TestHasPermission_AdminAndClient(t *testing.T) {
	admin := NewPrincipal(1, "ada", roleWith(RoleAdmin, PermManageUsers, PermManageRoles))
	client := NewPrincipal(2, "cleo", roleWith(RoleClient))

	assert.True(t, admin.HasPermission(PermManageRoles))
	assert.True(t, admin.HasPermission(PermManageUsers))
	assert.False(t, client.HasPermission(PermManageRoles))

	assert.NoError(t, admin.Require(PermManageRoles))
	assert.ErrorIs(t, client.Require(PermManageRoles), ErrUnauthorized)
}

func TestHasPermission_MatchesRoleSetExactly(t *testing.T) {
	granted := []string{PermViewClients, PermSendMessages}
	p := NewPrincipal(3, "sam", roleWith(RoleSupportWorker, granted...))

	for _, entry := range Catalog() {
		want := entry.Name == PermViewClients || entry.Name == PermSendMessages
		assert.Equal(t, want, p.HasPermission(entry.Name), entry.Name)
	}

	assert.Equal(t, []string{PermSendMessages, PermViewClients}, p.Permissions())
}

func TestNilPrincipal(t *testing.T) {
	var p *Principal

	assert.False(t, p.HasPermission(PermManageRoles))
	assert.Empty(t, p.RoleName())
	assert.Nil(t, p.Permissions())
	assert.ErrorIs(t, p.Require(PermManageRoles), ErrUnauthorized)
}

func TestPredicates(t *testing.T) {
	admin := NewPrincipal(1, "ada", roleWith(RoleAdmin, PermManageRoles))
	worker := NewPrincipal(5, "sam", roleWith(RoleSupportWorker, PermViewClients))

	testCases := []struct {
		name      string
		principal *Principal
		predicate Predicate
		expected  bool
	}{
		{"is role match", admin, IsRole(RoleAdmin), true},
		{"is role one of many", worker, IsRole(RoleAdmin, RoleSupportWorker), true},
		{"is role no match", worker, IsRole(RoleAdmin), false},
		{"is role empty list", admin, IsRole(), false},
		{"self", worker, IsSelfOrRole(5, RoleAdmin), true},
		{"other but admin", admin, IsSelfOrRole(5, RoleAdmin), true},
		{"other not admin", worker, IsSelfOrRole(1, RoleAdmin), false},
		{"has", worker, Has(PermViewClients), true},
		{"has not", worker, Has(PermManageRoles), false},
		{"any of", worker, AnyOf(Has(PermManageRoles), IsSelfOrRole(5)), true},
		{"any of none", worker, AnyOf(), false},
		{"all of", admin, AllOf(IsRole(RoleAdmin), Has(PermManageRoles)), true},
		{"all of one fails", worker, AllOf(Has(PermViewClients), Has(PermManageRoles)), false},
		{"all of nil member", admin, AllOf(nil), false},
		{"nil principal", nil, IsSelfOrRole(0), false},
		{"nil predicate", admin, nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Satisfies(tc.principal, tc.predicate))
		})
	}
}

func TestPredicates_ArePure(t *testing.T) {
	p := NewPrincipal(9, "kim", roleWith(RoleCoordinator, PermViewReports))
	pred := AnyOf(IsRole(RoleAdmin), AllOf(Has(PermViewReports), IsSelfOrRole(9)))

	first := Satisfies(p, pred)
	for range 5 {
		assert.Equal(t, first, Satisfies(p, pred))
	}

	assert.Equal(t, []string{PermViewReports}, p.Permissions(), "evaluation must not change the principal")
}
