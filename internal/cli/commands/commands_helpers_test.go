package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"GluviaAdmin/internal/cli/model"
	"GluviaAdmin/internal/config"
)

const testToken = "tok-123"

// fakeAPI — минимальная реализация HTTP API для тестов команд.
type fakeAPI struct {
	mu      sync.Mutex
	users   []model.User
	batches [][]model.FoodDraft
	calls   []string
	expired bool
	// failPage — номер страницы списка пользователей, на которой сервер отвечает 500
	failPage int
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string, details ...map[string]string) {
	e := map[string]any{"message": msg}
	if len(details) > 0 {
		e["details"] = details
	}
	writeJSON(w, status, map[string]any{"error": e})
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			expired := f.expired
			f.mu.Unlock()
			if expired || r.Header.Get("Authorization") != "Bearer "+testToken {
				writeErr(w, http.StatusUnauthorized, "Token expired")
				return
			}
			h(w, r)
		}
	}

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret123" {
			writeErr(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"token": testToken,
			"user":  map[string]any{"id": "a1", "email": body["email"], "role": "super_admin"},
		}})
	})
	mux.HandleFunc("GET /auth/me", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"id": "a1", "email": "ops@gluvia.io", "role": "super_admin"}})
	}))
	mux.HandleFunc("POST /auth/logout", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"message": "Logged out"})
	}))
	mux.HandleFunc("GET /admin/users", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls = append(f.calls, "list users "+r.URL.RawQuery)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 10
		}
		if page == f.failPage {
			writeErr(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		from := min((page-1)*limit, len(f.users))
		to := min(from+limit, len(f.users))
		writeJSON(w, http.StatusOK, map[string]any{
			"data":       f.users[from:to],
			"pagination": model.NewPagination(page, limit, len(f.users)),
		})
	}))
	mux.HandleFunc("POST /admin/users", authed(func(w http.ResponseWriter, r *http.Request) {
		var d model.UserDraft
		_ = json.NewDecoder(r.Body).Decode(&d)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls = append(f.calls, "create user")
		for _, u := range f.users {
			if u.Email == d.Email {
				writeErr(w, http.StatusConflict, "Validation failed", map[string]string{"field": "email", "message": "is already taken"})
				return
			}
		}
		u := model.User{ID: fmt.Sprintf("u%d", len(f.users)+1), Email: d.Email, FirstName: d.FirstName, LastName: d.LastName}
		f.users = append(f.users, u)
		writeJSON(w, http.StatusCreated, map[string]any{"data": u, "message": "User created"})
	}))
	mux.HandleFunc("DELETE /admin/users/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusNotFound, "User not found")
	}))
	mux.HandleFunc("POST /foods/batch", authed(func(w http.ResponseWriter, r *http.Request) {
		var foods []model.FoodDraft
		if err := json.NewDecoder(r.Body).Decode(&foods); err != nil {
			t.Errorf("batch body: %v", err)
		}
		f.mu.Lock()
		f.batches = append(f.batches, foods)
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"data": model.BatchResult{
			SuccessCount: len(foods) - 1, SkippedCount: 1, TotalCount: len(foods),
		}})
	}))
	mux.HandleFunc("GET /foods", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": []model.Food{}, "pagination": model.NewPagination(1, 10, 0)})
	}))
	mux.HandleFunc("GET /admin/audit", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": []model.AuditLog{}, "pagination": model.NewPagination(1, 10, 0)})
	}))
	mux.HandleFunc("GET /admin/dashboard/stats", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": model.DashboardStats{TotalUsers: 3, ActiveUsers: 2, TotalFoods: 40}})
	}))
	mux.HandleFunc("GET /admin/dashboard/activity", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": []model.Activity{{Action: "create", Resource: "foods", ActorEmail: "ops@gluvia.io", CreatedAt: time.Now()}}})
	}))
	return mux
}

// newTestEnv поднимает fake API и возвращает конфиг с токеном во временном каталоге.
func newTestEnv(t *testing.T, api *fakeAPI) (*config.Config, string) {
	t.Helper()
	ts := httptest.NewServer(api.handler(t))
	t.Cleanup(ts.Close)
	tokenFile := filepath.Join(t.TempDir(), "auth_token")
	return &config.Config{
		APIURL:         ts.URL,
		TokenFile:      tokenFile,
		RequestTimeout: 5 * time.Second,
		PageSize:       10,
	}, tokenFile
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

func withStdin(t *testing.T, s string) {
	t.Helper()
	old := In
	In = io.NopCloser(strings.NewReader(s))
	t.Cleanup(func() { In = old })
}

// run executes a command line through the dispatcher and returns output and exit code.
func run(t *testing.T, cfg *config.Config, args ...string) (string, int) {
	t.Helper()
	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, args) })
	return out, code
}
