package handlers_test

import (
	"GluviaAdmin/internal/model"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userBody(email string) map[string]any {
	return map[string]any{"email": email, "password": "longpassword", "firstName": "Amina", "lastName": "Otieno"}
}

func TestUsers_CRUD(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, rootEmail, rootPassword)

	res := ts.do(t, http.MethodPost, "/admin/users", token, userBody("amina@gluvia.io"))
	require.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, "User created successfully", res.Message)
	u := decode[model.User](t, res.Data)
	assert.NotEmpty(t, u.ID)

	res = ts.do(t, http.MethodPost, "/admin/users", token, userBody("Amina@gluvia.io"))
	assert.Equal(t, http.StatusConflict, res.Code)
	if assert.NotNil(t, res.Error) && assert.Len(t, res.Error.Details, 1) {
		assert.Equal(t, "email", res.Error.Details[0].Field)
		assert.Equal(t, "is already taken", res.Error.Details[0].Message)
	}

	res = ts.do(t, http.MethodPost, "/admin/users", token, map[string]any{"email": "bad"})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Equal(t, "Validation failed", res.Error.Message)
	assert.Equal(t, []string{"email", "password", "firstName", "lastName"}, fieldsOf(res))

	res = ts.do(t, http.MethodPut, "/admin/users/"+u.ID, token, map[string]any{"lastName": "Wanjiru"})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "User updated successfully", res.Message)
	assert.Equal(t, "Wanjiru", decode[model.User](t, res.Data).LastName)

	res = ts.do(t, http.MethodPatch, "/admin/users/"+u.ID, token, map[string]any{"isVerified": true})
	require.Equal(t, http.StatusOK, res.Code)
	u = decode[model.User](t, res.Data)
	assert.True(t, u.IsVerified)
	assert.Equal(t, "Wanjiru", u.LastName)

	res = ts.do(t, http.MethodGet, "/admin/users?page=1&limit=10", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	if assert.NotNil(t, res.Pagination) {
		assert.Equal(t, 1, res.Pagination.Total)
		assert.Equal(t, 1, res.Pagination.TotalPages)
		assert.Equal(t, 10, res.Pagination.Limit)
	}

	res = ts.do(t, http.MethodDelete, "/admin/users/"+u.ID, token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "User deleted successfully", res.Message)

	res = ts.do(t, http.MethodDelete, "/admin/users/"+u.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "User not found", res.Error.Message)

	res = ts.do(t, http.MethodGet, "/admin/users", token, nil)
	assert.Equal(t, "[]", string(res.Data), "deleted users are hidden by default")
	assert.Equal(t, 0, res.Pagination.TotalPages)

	res = ts.do(t, http.MethodGet, "/admin/users?status=deleted", token, nil)
	if users := decode[[]model.User](t, res.Data); assert.Len(t, users, 1) {
		assert.True(t, users[0].Deleted)
	}

	res = ts.do(t, http.MethodGet, "/admin/users/"+u.ID, token, nil)
	assert.Equal(t, http.StatusOK, res.Code, "soft-deleted record stays readable")
}

func TestUsers_Pagination(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, rootEmail, rootPassword)
	for _, e := range []string{"a@gluvia.io", "b@gluvia.io", "c@gluvia.io", "d@gluvia.io", "e@gluvia.io"} {
		require.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/admin/users", token, userBody(e)).Code)
	}

	res := ts.do(t, http.MethodGet, "/admin/users?page=3&limit=2", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, 3, res.Pagination.Page)
	assert.Equal(t, 5, res.Pagination.Total)
	assert.Equal(t, 3, res.Pagination.TotalPages)
	assert.Len(t, decode[[]model.User](t, res.Data), 1)

	res = ts.do(t, http.MethodGet, "/admin/users?search=C%40GLUVIA", token, nil)
	if users := decode[[]model.User](t, res.Data); assert.Len(t, users, 1) {
		assert.Equal(t, "c@gluvia.io", users[0].Email)
	}
}

func TestAdmins_OnlySuperAdminMutates(t *testing.T) {
	ts := newTestServer(t)
	root := ts.login(t, rootEmail, rootPassword)

	res := ts.do(t, http.MethodPost, "/admin/admins", root, map[string]any{
		"email": "ops@gluvia.io", "password": "ops-password", "firstName": "Ops", "lastName": "Team",
	})
	require.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, "admin", decode[model.Admin](t, res.Data).Role)

	ops := ts.login(t, "ops@gluvia.io", "ops-password")
	res = ts.do(t, http.MethodGet, "/admin/admins", ops, nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, decode[[]model.Admin](t, res.Data), 2)

	res = ts.do(t, http.MethodPost, "/admin/admins", ops, map[string]any{
		"email": "x@gluvia.io", "password": "x-password", "firstName": "X", "lastName": "Y",
	})
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "Insufficient permissions", res.Error.Message)

	res = ts.do(t, http.MethodPost, "/admin/users", ops, userBody("patient@gluvia.io"))
	assert.Equal(t, http.StatusCreated, res.Code, "admins manage users")
}

func TestRules_AndAudit(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t, rootEmail, rootPassword)

	res := ts.do(t, http.MethodPost, "/rules", token, map[string]any{
		"name": "High GI", "category": "glycemic", "condition": "gi > 70", "message": "Careful", "severity": "warning",
	})
	require.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, "Rule created successfully", res.Message)
	assert.True(t, decode[model.RuleTemplate](t, res.Data).IsActive)

	res = ts.do(t, http.MethodGet, "/admin/audit?action=create&resource=rules", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	if logs := decode[[]model.AuditLog](t, res.Data); assert.Len(t, logs, 1) {
		assert.Equal(t, rootEmail, logs[0].ActorEmail)
		assert.Equal(t, "High GI", logs[0].Details)

		one := ts.do(t, http.MethodGet, "/admin/audit/"+logs[0].ID, token, nil)
		assert.Equal(t, http.StatusOK, one.Code)
	}

	res = ts.do(t, http.MethodDelete, "/admin/audit/whatever", token, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, res.Code, "audit log is read-only")

	res = ts.do(t, http.MethodGet, "/admin/audit/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "Audit log not found", res.Error.Message)
}
