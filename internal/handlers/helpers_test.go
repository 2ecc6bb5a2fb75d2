package handlers_test

import (
	"GluviaAdmin/internal/config"
	"GluviaAdmin/internal/handlers"
	"GluviaAdmin/internal/repo"
	"GluviaAdmin/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	rootEmail    = "root@gluvia.io"
	rootPassword = "root-password"
)

type testServer struct {
	router http.Handler
	cfg    *config.Config
	svc    handlers.Services
}

// newTestServer поднимает роутер поверх отдельной in-memory SQLite и создаёт super_admin.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repo.InitDB("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	logger := zap.NewNop().Sugar()
	cfg := &config.Config{AuthSecret: "test-secret", TokenTTL: time.Hour}

	userRepo := repo.NewUserRepository(db)
	adminRepo := repo.NewAdminRepository(db)
	foodRepo := repo.NewFoodRepository(db)
	ruleRepo := repo.NewRuleRepository(db)
	audit := service.NewAuditService(repo.NewAuditRepository(db), logger)
	svc := handlers.Services{
		Auth:      service.NewAuthService(adminRepo, repo.NewTokenRepository(db), audit, logger),
		Users:     service.NewUserService(userRepo, audit, logger),
		Admins:    service.NewAdminService(adminRepo, audit, logger),
		Foods:     service.NewFoodService(foodRepo, audit, logger),
		Rules:     service.NewRuleService(ruleRepo, audit, logger),
		Audit:     audit,
		Dashboard: service.NewDashboardService(userRepo, adminRepo, foodRepo, ruleRepo, audit),
	}
	_, err = svc.Auth.EnsureSuperAdmin(context.Background(), rootEmail, rootPassword)
	require.NoError(t, err)

	h := handlers.NewHandler(svc, logger, cfg, nil)
	return &testServer{router: h.Router, cfg: cfg, svc: svc}
}

type response struct {
	Code       int
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Pagination *struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	} `json:"pagination"`
	Error *struct {
		Message string `json:"message"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)

	res := response{Code: rr.Code}
	if rr.Body.Len() > 0 && strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res), rr.Body.String())
	}
	return res
}

func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	res := ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, res.Code, res.Error)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func fieldsOf(res response) []string {
	if res.Error == nil {
		return nil
	}
	out := make([]string, 0, len(res.Error.Details))
	for _, d := range res.Error.Details {
		out = append(out, d.Field)
	}
	return out
}
