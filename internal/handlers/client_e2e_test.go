package handlers_test

import (
	"GluviaAdmin/internal/cli/api"
	climodel "GluviaAdmin/internal/cli/model"
	"GluviaAdmin/internal/cli/repo"
	"GluviaAdmin/internal/cli/repo/fs"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Клиент админки против настоящего роутера: общий контракт конвертов, токена и 401.
func TestCLIClient_EndToEnd(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.router)
	defer srv.Close()

	tokens := fs.AuthFSStore{TokenFile: filepath.Join(t.TempDir(), "token")}
	expired := 0
	c := api.New(srv.URL, tokens, api.WithUnauthorizedHandler(func() { expired++ }))
	ctx := context.Background()

	_, err := c.Login(ctx, rootEmail, "wrong-password")
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
	assert.Zero(t, expired, "401 from login is not a session expiry")

	lr, err := c.Login(ctx, rootEmail, rootPassword)
	require.NoError(t, err)
	assert.Equal(t, "super_admin", lr.User.Role)
	require.NoError(t, tokens.Save(lr.Token))

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, rootEmail, me.Email)

	created, err := c.Users().Create(ctx, climodel.UserDraft{
		Email: "amina@gluvia.io", Password: "longpassword", FirstName: "Amina", LastName: "Otieno", DiabetesType: "type2",
	})
	require.NoError(t, err)
	assert.Equal(t, "User created successfully", created.Message)

	_, err = c.Users().Create(ctx, climodel.UserDraft{
		Email: "amina@gluvia.io", Password: "longpassword", FirstName: "A", LastName: "O",
	})
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, []api.FieldError{{Field: "email", Message: "is already taken"}}, apiErr.Details)

	updated, err := c.Users().Update(ctx, created.Data.ID, climodel.Patch{"firstName": "Zawadi"})
	require.NoError(t, err)
	assert.Equal(t, "Zawadi", updated.Data.FirstName)

	page, err := c.Users().List(ctx, climodel.ListFilters{Page: 1, Limit: 10, Extra: map[string]string{"diabetesType": "type2"}})
	require.NoError(t, err)
	assert.Equal(t, climodel.Pagination{Page: 1, Limit: 10, Total: 1, TotalPages: 1}, page.Pagination)

	batch, err := c.UploadFoods(ctx, []climodel.FoodDraft{{
		LocalName:     "Ugali",
		CanonicalName: "ugali",
		Category:      "staples",
		Nutrients:     climodel.Nutrients{Calories: 360, Carbs: 79, Protein: 8, Fat: 1, Fibre: 3},
		PortionSizes:  []climodel.PortionSize{{Name: "cup", Grams: 150}},
	}})
	require.NoError(t, err)
	assert.Equal(t, climodel.BatchResult{SuccessCount: 1, TotalCount: 1}, batch.Data)

	foods, err := c.Foods().List(ctx, climodel.ListFilters{})
	require.NoError(t, err)
	if assert.Len(t, foods.Items, 1) {
		assert.Equal(t, "medium", foods.Items[0].Affordability)
		assert.Equal(t, []climodel.PortionSize{{Name: "cup", Grams: 150}}, foods.Items[0].PortionSizes)
	}

	stats, err := c.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalUsers)
	assert.Equal(t, 1, stats.TotalFoods)

	feed, err := c.RecentActivity(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, feed, 3)

	msg, err := c.Users().Delete(ctx, created.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, "User deleted successfully", msg)

	require.NoError(t, c.Logout(ctx))
	_, err = c.Me(ctx)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, 1, expired)
	_, err = tokens.Load()
	assert.ErrorIs(t, err, repo.ErrNoToken, "401 clears the stored token")
}
