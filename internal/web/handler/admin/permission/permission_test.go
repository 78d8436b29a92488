package permission

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caredesk/caredesk/internal/auth"
	"github.com/caredesk/caredesk/internal/db/controller/dbtest"
	"github.com/caredesk/caredesk/internal/db/models"
	"github.com/caredesk/caredesk/internal/web/handler/handlertest"
)

func TestPermissions(t *testing.T) {
	db := dbtest.Open(t)
	ids := dbtest.Permissions(t, db, auth.PermManageRoles, auth.PermViewReports)
	dbtest.Role(t, db, auth.RoleCoordinator, ids[1])

	app := handlertest.NewApp(handlertest.Principal(1, auth.RoleAdmin, auth.PermManageRoles))
	require.NoError(t, new(Service).Init(app, handlertest.Config(), db))

	code, body := handlertest.Do(t, app, http.MethodGet, Path, "")
	require.Equal(t, http.StatusOK, code)

	var perms []models.Permission
	require.NoError(t, json.Unmarshal([]byte(body), &perms))
	require.Len(t, perms, 2)
	assert.Equal(t, auth.PermManageRoles, perms[0].Name)

	code, body = handlertest.Do(t, app, http.MethodPost, Path, `{"name":"send_messages","description":"Message clients"}`)
	require.Equal(t, http.StatusCreated, code, body)

	var created models.Permission
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, "send_messages", created.Name)

	code, _ = handlertest.Do(t, app, http.MethodPost, Path, `{"name":"send_messages"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = handlertest.Do(t, app, http.MethodPost, Path, `{"description":"nameless"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = handlertest.Do(t, app, http.MethodDelete, fmt.Sprintf("%s/%d", Path, ids[1]), "")
	assert.Equal(t, http.StatusConflict, code, "still held by coordinator")

	code, _ = handlertest.Do(t, app, http.MethodDelete, fmt.Sprintf("%s/%d", Path, created.ID), "")
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = handlertest.Do(t, app, http.MethodDelete, fmt.Sprintf("%s/%d", Path, created.ID), "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPermissions_Forbidden(t *testing.T) {
	db := dbtest.Open(t)

	app := handlertest.NewApp(handlertest.Principal(2, auth.RoleSupportWorker, auth.PermViewClients))
	require.NoError(t, new(Service).Init(app, handlertest.Config(), db))

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		code, _ := handlertest.Do(t, app, method, Path, `{"name":"x"}`)
		assert.Equal(t, http.StatusForbidden, code, method)
	}
}

func TestInit_NilDependencies(t *testing.T) {
	require.Error(t, new(Service).Init(nil, handlertest.Config(), nil))
}
