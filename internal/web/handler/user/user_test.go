package user

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caredesk/caredesk/internal/auth"
	"github.com/caredesk/caredesk/internal/db/controller/dbtest"
	"github.com/caredesk/caredesk/internal/web/handler/handlertest"
)

func TestPermissions(t *testing.T) {
	db := dbtest.Open(t)
	ids := dbtest.Permissions(t, db, auth.PermViewClients, auth.PermSendMessages)
	worker := dbtest.Role(t, db, auth.RoleSupportWorker, ids...)
	wes := dbtest.User(t, db, "wes", worker.ID)
	other := dbtest.User(t, db, "olly", worker.ID)

	self := handlertest.NewApp(handlertest.Principal(wes.ID, auth.RoleSupportWorker))
	admin := handlertest.NewApp(handlertest.Principal(99, auth.RoleAdmin))

	require.NoError(t, new(Service).Init(self, handlertest.Config(), db))
	require.NoError(t, new(Service).Init(admin, handlertest.Config(), db))

	testCases := []struct {
		name         string
		asAdmin      bool
		target       string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "self",
			target:       fmt.Sprintf("/users/%d/permissions", wes.ID),
			expectedCode: http.StatusOK,
			expectedBody: fmt.Sprintf(`{"userId":%d,"permissions":["send_messages","view_clients"]}`, wes.ID),
		},
		{name: "other user", target: fmt.Sprintf("/users/%d/permissions", other.ID), expectedCode: http.StatusForbidden},
		{name: "malformed id as non admin", target: "/users/x/permissions", expectedCode: http.StatusForbidden},
		{name: "admin reads anyone", asAdmin: true, target: fmt.Sprintf("/users/%d/permissions", other.ID), expectedCode: http.StatusOK},
		{name: "admin unknown user", asAdmin: true, target: "/users/12345/permissions", expectedCode: http.StatusNotFound},
		{name: "admin malformed id", asAdmin: true, target: "/users/x/permissions", expectedCode: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := self
			if tc.asAdmin {
				app = admin
			}

			code, body := handlertest.Do(t, app, http.MethodGet, tc.target, "")
			require.Equal(t, tc.expectedCode, code, body)

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, body)
			}
		})
	}
}
