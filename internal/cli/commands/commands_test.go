package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"GluviaAdmin/internal/cli/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loggedIn prepares an environment with a stored token and returns the token path and a runner.
func loggedIn(t *testing.T, api *fakeAPI) (string, func(args ...string) (string, int)) {
	t.Helper()
	cfg, tokenFile := newTestEnv(t, api)
	require.NoError(t, os.WriteFile(tokenFile, []byte(testToken), 0o600))
	return tokenFile, func(args ...string) (string, int) {
		return run(t, cfg, args...)
	}
}

func TestLogin_WhoamiLogout(t *testing.T) {
	api := &fakeAPI{}
	cfg, tokenFile := newTestEnv(t, api)

	out, code := run(t, cfg, "login", "ops@gluvia.io", "wrong")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Invalid email or password")
	assert.NoFileExists(t, tokenFile)

	out, code = run(t, cfg, "login", "ops@gluvia.io", "secret123")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Logged in as ops@gluvia.io (super_admin)")
	b, err := os.ReadFile(tokenFile)
	require.NoError(t, err)
	assert.Equal(t, testToken, strings.TrimSpace(string(b)))

	out, code = run(t, cfg, "whoami")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "ops@gluvia.io")

	out, code = run(t, cfg, "logout")
	require.Equal(t, 0, code, out)
	assert.NoFileExists(t, tokenFile)

	out, code = run(t, cfg, "whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Not logged in (last login: ops@gluvia.io)")

	_, code = run(t, cfg, "login", "only-email")
	assert.Equal(t, 2, code)
}

func TestUsers_EmptyList(t *testing.T) {
	_, exec := loggedIn(t, &fakeAPI{})
	out, code := exec("users")
	require.Equal(t, 0, code, out)
	assert.Equal(t, 1, strings.Count(out, "No users found."))
	assert.Contains(t, out, "Page 1 of 1 · 0 rows · 0 selected")
}

func TestUsers_RemotePaginationAndView(t *testing.T) {
	api := &fakeAPI{}
	for _, e := range []string{"c@x.io", "a@x.io", "b@x.io", "d@x.io", "e@x.io"} {
		api.users = append(api.users, model.User{ID: "id-" + e[:1], Email: e})
	}
	_, exec := loggedIn(t, api)

	out, code := exec("users", "--page", "2", "--limit", "2", "--sort", "email:desc", "--hide", "name,diabetes", "--select", "id-b")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Page 2 of 3 · 5 rows · 1 selected")
	assert.Contains(t, out, "Email ▼")
	assert.NotContains(t, out, "Diabetes")
	assert.Contains(t, out, "b@x.io")
	assert.NotContains(t, out, "c@x.io", "remote mode renders only the server page")
	assert.Less(t, strings.Index(out, "d@x.io"), strings.Index(out, "b@x.io"))
	assert.Contains(t, api.calls, "list users limit=2&page=2")

	_, code = exec("users", "--sort", "id")
	assert.Equal(t, 1, code, "id is not sortable")

	_, code = exec("users", "extra")
	assert.Equal(t, 2, code)
}

func TestAudit_EmptyList(t *testing.T) {
	_, exec := loggedIn(t, &fakeAPI{})
	out, code := exec("audit")
	require.Equal(t, 0, code, out)
	assert.Equal(t, 1, strings.Count(out, "No audit logs found."))
}

func TestUsers_RemoteInteractiveFailedPage(t *testing.T) {
	api := &fakeAPI{failPage: 2}
	for _, e := range []string{"a@x.io", "b@x.io", "c@x.io", "d@x.io", "e@x.io"} {
		api.users = append(api.users, model.User{ID: "id-" + e[:1], Email: e})
	}
	_, exec := loggedIn(t, api)
	withStdin(t, "n\nq\n")

	out, code := exec("users", "--limit", "2", "--interactive")
	require.Equal(t, 0, code, out)
	assert.Contains(t, api.calls, "list users limit=2&page=2")
	assert.Contains(t, out, "Internal server error")
	// после неудачной загрузки старая страница не выводится повторно
	assert.Equal(t, 1, strings.Count(out, "Page 1 of 3"))
	assert.NotContains(t, out, "Page 2 of 3")
}

func TestUsers_LocalInteractive(t *testing.T) {
	api := &fakeAPI{}
	for _, e := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		api.users = append(api.users, model.User{ID: "id-" + e[:1], Email: e})
	}
	_, exec := loggedIn(t, api)
	withStdin(t, "n\nn\nn\nf c@\nq\n")

	out, code := exec("users", "--local", "--limit", "1", "--interactive")
	require.Equal(t, 0, code, out)
	assert.Contains(t, api.calls, "list users limit=1000&page=1")
	assert.Contains(t, out, "Page 1 of 3 · 3 rows")
	assert.Contains(t, out, "Page 3 of 3 · 3 rows")
	assert.Contains(t, out, "Already on the last page")
	assert.Contains(t, out, "Page 1 of 1 · 1 rows")
}

func TestUserCreate_InvalidEmail(t *testing.T) {
	api := &fakeAPI{users: []model.User{{ID: "u1", Email: "taken@x.io"}}}
	_, exec := loggedIn(t, api)

	// клиентская проверка: запрос на сервер не отправляется
	out, code := exec("user-create", "--email", "nope", "--password", "longpassword", "--first-name", "A", "--last-name", "B")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "× email: must be a valid email")
	assert.NotContains(t, api.calls, "create user")

	// серверная ошибка по полю
	out, code = exec("user-create", "--email", "taken@x.io", "--password", "longpassword", "--first-name", "A", "--last-name", "B")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "× email: is already taken")
	assert.Len(t, api.users, 1)

	out, code = exec("user-create", "--email", "new@x.io", "--password", "longpassword", "--first-name", "A", "--last-name", "B")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "✓ User created")
	// после успешного создания список перезапрашивается
	assert.Equal(t, "list users ", api.calls[len(api.calls)-1])

	_, code = exec("user-create", "--bogus")
	assert.Equal(t, 2, code)
}

func TestUserDelete_NotFound(t *testing.T) {
	_, exec := loggedIn(t, &fakeAPI{})
	out, code := exec("user-delete", "u9")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "× User not found")
}

func TestUnauthorized_ClearsSession(t *testing.T) {
	api := &fakeAPI{expired: true}
	tokenFile, exec := loggedIn(t, api)

	for _, args := range [][]string{{"users"}, {"dashboard"}, {"user-delete", "u1"}} {
		require.NoError(t, os.WriteFile(tokenFile, []byte(testToken), 0o600))
		out, code := exec(args...)
		assert.Equal(t, 1, code, args)
		assert.Contains(t, out, "Session expired, please log in", args)
		assert.NoFileExists(t, tokenFile, args)
	}
}

func TestDashboard(t *testing.T) {
	_, exec := loggedIn(t, &fakeAPI{})
	out, code := exec("dashboard", "--activity", "5")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Users:   3 total, 2 active, 0 new today")
	assert.Contains(t, out, "Foods:   40")
	assert.Contains(t, out, "ops@gluvia.io")
}

const batchFood = `{"localName":"%s","canonicalName":"%s","category":"staples",
 "nutrients":{"calories":1,"carbs":1,"protein":1,"fat":1,"fibre":1},
 "portionSizes":[{"name":"cup","grams":100}]}`

func batchFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "foods.json")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func food(name string) string {
	return strings.NewReplacer("%s", name).Replace(batchFood)
}

func TestFoodsBatch(t *testing.T) {
	api := &fakeAPI{}
	_, exec := loggedIn(t, api)

	// 2 валидных + 1 с ошибкой: загрузка блокируется
	bad := `{"localName":"x","category":"staples","nutrients":{"calories":1,"carbs":1,"protein":1,"fat":1,"fibre":1},"portionSizes":[{"name":"cup","grams":1}]}`
	out, code := exec("foods-batch", batchFile(t, "["+food("ugali")+","+food("chapati")+","+bad+"]"))
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "1 validation error(s)")
	assert.Contains(t, out, "Row 3: canonicalName is required")
	assert.Empty(t, api.batches)

	out, code = exec("foods-batch", batchFile(t, `{"not":"array"}`))
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "must be a JSON array")

	path := batchFile(t, "["+food("ugali")+","+food("chapati")+"]")
	out, code = exec("foods-batch", path)
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Preview: 2 food(s)")
	assert.Contains(t, out, "Re-run with --yes")
	assert.Empty(t, api.batches)

	out, code = exec("foods-batch", "--yes", path)
	require.Equal(t, 0, code, out)
	require.Len(t, api.batches, 1)
	assert.Len(t, api.batches[0], 2)
	assert.Equal(t, "medium", api.batches[0][0].Affordability)
	assert.Contains(t, out, "Uploaded: 1")
	assert.Contains(t, out, "Skipped (duplicates): 1")
	assert.Contains(t, out, "✓ Uploaded 1 of 2 foods (1 skipped as duplicates)")
	assert.NotContains(t, out, "×")
}

func TestFoodsBatch_Stdin(t *testing.T) {
	api := &fakeAPI{}
	_, exec := loggedIn(t, api)
	withStdin(t, "["+food("ugali")+"]")
	out, code := exec("foods-batch", "-")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Preview: 1 food(s)")
}

func TestFoodsTemplate(t *testing.T) {
	_, exec := loggedIn(t, &fakeAPI{})
	out, code := exec("foods-template")
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "["))
	assert.Contains(t, out, `"portionSizes"`)

	p := filepath.Join(t.TempDir(), "tpl.json")
	_, code = exec("foods-template", p)
	require.Equal(t, 0, code)
	assert.FileExists(t, p)
}
