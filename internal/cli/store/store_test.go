package store

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"GluviaAdmin/internal/cli/api"
	"GluviaAdmin/internal/cli/model"
	"GluviaAdmin/internal/cli/notify"
	"GluviaAdmin/internal/cli/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Мок удалённой коллекции ---
type mockEndpoint struct {
	mock.Mock
	// probe вызывается до ответа, чтобы проверить IsLoading во время запроса
	probe func()
}

func (m *mockEndpoint) List(ctx context.Context, f model.ListFilters) (model.Page[model.User], error) {
	if m.probe != nil {
		m.probe()
	}
	args := m.Called(ctx, f)
	return args.Get(0).(model.Page[model.User]), args.Error(1)
}
func (m *mockEndpoint) Get(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}
func (m *mockEndpoint) Create(ctx context.Context, draft any) (api.Reply[model.User], error) {
	if m.probe != nil {
		m.probe()
	}
	args := m.Called(ctx, draft)
	return args.Get(0).(api.Reply[model.User]), args.Error(1)
}
func (m *mockEndpoint) Update(ctx context.Context, id string, patch any) (api.Reply[model.User], error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(api.Reply[model.User]), args.Error(1)
}
func (m *mockEndpoint) Delete(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

var _ Endpoint[model.User] = (*mockEndpoint)(nil)

func usersPage(ids ...string) model.Page[model.User] {
	items := make([]model.User, 0, len(ids))
	for _, id := range ids {
		items = append(items, model.User{ID: id, Email: id + "@gluvia.io"})
	}
	return model.Page[model.User]{Items: items, Pagination: model.NewPagination(1, 10, len(ids))}
}

func newUserStore(ep *mockEndpoint, rec *notify.Recorder, opts ...Option) *Store[model.User] {
	return New[model.User](ep, rec, Names{Singular: "User", Plural: "users"}, opts...)
}

func TestStore_List_LoadingFlagAndItems(t *testing.T) {
	ep := &mockEndpoint{}
	rec := &notify.Recorder{}
	s := newUserStore(ep, rec)

	var loadingDuringCall bool
	ep.probe = func() { loadingDuringCall = s.Snapshot().IsLoading }
	f := model.ListFilters{Page: 1, Limit: 10}
	ep.On("List", mock.Anything, f).Return(usersPage("u1", "u2"), nil).Once()

	require.True(t, s.List(context.Background(), f))
	snap := s.Snapshot()
	assert.True(t, loadingDuringCall)
	assert.False(t, snap.IsLoading)
	assert.Len(t, snap.Items, 2)
	assert.Equal(t, 2, snap.Pagination.Total)
	assert.Equal(t, f, snap.Filters)
	assert.Empty(t, rec.Toasts())
	ep.AssertExpectations(t)
}

func TestStore_List_FailureKeepsPreviousItems(t *testing.T) {
	ep := &mockEndpoint{}
	rec := &notify.Recorder{}
	s := newUserStore(ep, rec)
	ctx := context.Background()

	ep.On("List", mock.Anything, mock.Anything).Return(usersPage("u1"), nil).Once()
	require.True(t, s.List(ctx, model.ListFilters{}))

	ep.On("List", mock.Anything, mock.Anything).
		Return(model.Page[model.User]{}, &api.NetworkError{Op: "GET", Err: context.DeadlineExceeded}).Once()
	assert.False(t, s.List(ctx, model.ListFilters{Page: 2}))

	snap := s.Snapshot()
	assert.False(t, snap.IsLoading)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "u1", snap.Items[0].ID)
	assert.Equal(t, []string{notify.NetworkFailureMessage}, rec.Errors())
}

func TestStore_List_Idempotent(t *testing.T) {
	ep := &mockEndpoint{}
	s := newUserStore(ep, &notify.Recorder{})
	f := model.ListFilters{Page: 1, Limit: 10}
	ep.On("List", mock.Anything, f).Return(usersPage("b", "a", "c"), nil).Twice()

	require.True(t, s.List(context.Background(), f))
	first := s.Snapshot().Items
	require.True(t, s.List(context.Background(), f))
	assert.Equal(t, first, s.Snapshot().Items)
}

func TestStore_SnapshotIsImmutable(t *testing.T) {
	ep := &mockEndpoint{}
	s := newUserStore(ep, &notify.Recorder{})
	ep.On("List", mock.Anything, mock.Anything).Return(usersPage("u1"), nil).Once()
	require.True(t, s.List(context.Background(), model.ListFilters{}))

	snap := s.Snapshot()
	snap.Items[0].Email = "changed"
	assert.Equal(t, "u1@gluvia.io", s.Snapshot().Items[0].Email)
}

func TestStore_Create_InvalidEmail(t *testing.T) {
	ep := &mockEndpoint{}
	rec := &notify.Recorder{}
	s := newUserStore(ep, rec, WithRefetch())
	ctx := context.Background()

	ep.On("List", mock.Anything, mock.Anything).Return(usersPage("u1"), nil).Once()
	require.True(t, s.List(ctx, model.ListFilters{}))
	before := s.Snapshot().Items

	var loadingDuringCall bool
	ep.probe = func() { loadingDuringCall = s.Snapshot().IsLoading }
	draft := model.UserDraft{Email: "not-an-email", Password: "secret123"}
	ep.On("Create", mock.Anything, draft).Return(api.Reply[model.User]{}, &api.Error{
		Status:  422,
		Message: "validation failed",
		Details: []api.FieldError{{Field: "email", Message: "must be a valid email"}},
	}).Once()

	assert.False(t, s.Create(ctx, draft))
	snap := s.Snapshot()
	assert.True(t, loadingDuringCall)
	assert.False(t, snap.IsLoading)
	assert.Equal(t, before, snap.Items)
	assert.Equal(t, []string{"email: must be a valid email"}, rec.Errors())
	// никакого повторного запроса списка после ошибки
	ep.AssertNumberOfCalls(t, "List", 1)
}

func TestStore_Create_SuccessRefetches(t *testing.T) {
	ep := &mockEndpoint{}
	rec := &notify.Recorder{}
	s := newUserStore(ep, rec, WithRefetch())
	ctx := context.Background()
	f := model.ListFilters{Page: 1, Limit: 10, Search: "a"}

	ep.On("List", mock.Anything, f).Return(usersPage("u1"), nil).Once()
	require.True(t, s.List(ctx, f))

	ep.On("Create", mock.Anything, mock.Anything).Return(api.Reply[model.User]{Data: model.User{ID: "u2"}}, nil).Once()
	ep.On("List", mock.Anything, f).Return(usersPage("u1", "u2"), nil).Once()

	require.True(t, s.Create(ctx, model.UserDraft{Email: "u2@gluvia.io"}))
	snap := s.Snapshot()
	assert.Len(t, snap.Items, 2)
	assert.Equal(t, "u2", snap.Current.ID)
	assert.Equal(t, []notify.Toast{{Success: true, Message: "User created successfully"}}, rec.Toasts())
	ep.AssertExpectations(t)
}

func TestStore_UpdateDeleteGet(t *testing.T) {
	ep := &mockEndpoint{}
	rec := &notify.Recorder{}
	s := newUserStore(ep, rec)
	ctx := context.Background()

	patch := model.Patch{"firstName": "Amina"}
	ep.On("Update", mock.Anything, "u1", patch).
		Return(api.Reply[model.User]{Data: model.User{ID: "u1", FirstName: "Amina"}, Message: "User updated"}, nil).Once()
	assert.True(t, s.Update(ctx, "u1", patch))

	ep.On("Delete", mock.Anything, "u1").Return("", nil).Once()
	assert.True(t, s.Delete(ctx, "u1"))

	ep.On("Delete", mock.Anything, "u9").Return("", &api.Error{Status: 404, Message: "User not found"}).Once()
	assert.False(t, s.Delete(ctx, "u9"))

	ep.On("Get", mock.Anything, "u1").Return(model.User{ID: "u1", Email: "x@y.z"}, nil).Once()
	assert.True(t, s.GetByID(ctx, "u1"))
	assert.Equal(t, "x@y.z", s.Snapshot().Current.Email)

	ep.On("Get", mock.Anything, "zz").Return(model.User{}, errors.New("boom")).Once()
	assert.False(t, s.GetByID(ctx, "zz"))

	assert.Equal(t, []notify.Toast{
		{Success: true, Message: "User updated"},
		{Success: true, Message: "User deleted successfully"},
		{Message: "User not found"},
		{Message: "Failed to load user"},
	}, rec.Toasts())
	assert.False(t, s.Snapshot().IsLoading)
}

func TestStore_ReadOnly(t *testing.T) {
	ep := &mockEndpoint{}
	rec := &notify.Recorder{}
	s := New[model.User](ep, rec, Names{Singular: "Audit log", Plural: "audit logs"}, ReadOnly())

	assert.False(t, s.Create(context.Background(), struct{}{}))
	assert.False(t, s.Update(context.Background(), "a", nil))
	assert.False(t, s.Delete(context.Background(), "a"))
	assert.Equal(t, []string{"Audit logs are read-only", "Audit logs are read-only", "Audit logs are read-only"}, rec.Errors())
	ep.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStore_SnapshotCurrentIsCopy(t *testing.T) {
	ep := &mockEndpoint{}
	s := newUserStore(ep, &notify.Recorder{})
	ep.On("Get", mock.Anything, "u1").Return(model.User{ID: "u1", Email: "u1@gluvia.io"}, nil).Once()
	require.True(t, s.GetByID(context.Background(), "u1"))

	snap := s.Snapshot()
	snap.Current.Email = "changed"
	assert.Equal(t, "u1@gluvia.io", s.Snapshot().Current.Email)
}

// memTokens — токен в памяти для клиента в тестах.
type memTokens struct{ token string }

func (m *memTokens) Save(token string) error {
	m.token = token
	return nil
}

func (m *memTokens) Clear() error {
	m.token = ""
	return nil
}

func (m *memTokens) Load() (string, error) {
	if m.token == "" {
		return "", repo.ErrNoToken
	}
	return m.token, nil
}

func TestStore_UnauthorizedLeavesToastToClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid or expired token"}}`))
	}))
	defer srv.Close()

	tokens := &memTokens{token: "stale"}
	expired := 0
	c := api.New(srv.URL, tokens, api.WithUnauthorizedHandler(func() { expired++ }))
	rec := &notify.Recorder{}
	ctx := context.Background()

	users := NewUserStore(c, rec)
	assert.False(t, users.List(ctx, model.ListFilters{Page: 1, Limit: 10}))
	assert.False(t, users.Snapshot().IsLoading)
	assert.Equal(t, 1, expired)
	assert.Empty(t, tokens.token)

	tokens.token = "stale"
	foods := NewFoodStore(c, rec)
	_, ok := foods.UploadBatch(ctx, []model.FoodDraft{{LocalName: "Ugali"}})
	assert.False(t, ok)

	tokens.token = "stale"
	assert.False(t, NewDashboardStore(c, rec).Load(ctx, 5))

	assert.Equal(t, 3, expired)
	assert.Empty(t, rec.Errors())
}

func TestStore_UnauthorizedErrorIsNotToasted(t *testing.T) {
	ep := &mockEndpoint{}
	rec := &notify.Recorder{}
	s := newUserStore(ep, rec)
	ep.On("Delete", mock.Anything, "u1").
		Return("", &api.Error{Status: http.StatusUnauthorized, Message: "Invalid or expired token"}).Once()

	assert.False(t, s.Delete(context.Background(), "u1"))
	assert.Empty(t, rec.Toasts())
}
