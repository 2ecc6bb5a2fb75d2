package api

import (
	"context"
	"net/http"
	"strconv"

	"GluviaAdmin/internal/cli/model"
)

// Paths consumed by the admin tool.
const (
	UsersPath             = "/admin/users"
	AdminsPath            = "/admin/admins"
	FoodsPath             = "/foods"
	FoodsBatchPath        = "/foods/batch"
	RulesPath             = "/rules"
	AuditPath             = "/admin/audit"
	DashboardStatsPath    = "/admin/dashboard/stats"
	DashboardActivityPath = "/admin/dashboard/activity"

	LoginPath                = "/auth/login"
	MePath                   = "/auth/me"
	LogoutPath               = "/auth/logout"
	PasswordResetRequestPath = "/auth/password-reset-request"
	PasswordResetPath        = "/auth/password-reset"
)

func (c *Client) Users() *Resource[model.User] { return NewResource[model.User](c, UsersPath) }
func (c *Client) Admins() *Resource[model.Admin] { return NewResource[model.Admin](c, AdminsPath) }
func (c *Client) Foods() *Resource[model.Food] { return NewResource[model.Food](c, FoodsPath) }
func (c *Client) Rules() *Resource[model.RuleTemplate] { return NewResource[model.RuleTemplate](c, RulesPath) }
func (c *Client) AuditLogs() *Resource[model.AuditLog] { return NewResource[model.AuditLog](c, AuditPath) }

// UploadFoods sends the whole validated array in one call.
func (c *Client) UploadFoods(ctx context.Context, foods []model.FoodDraft) (Reply[model.BatchResult], error) {
	var res model.BatchResult
	meta, err := c.Do(ctx, http.MethodPost, FoodsBatchPath, nil, foods, &res)
	return Reply[model.BatchResult]{Data: res, Message: meta.Message}, err
}

// DashboardStats returns the headline counters.
func (c *Client) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	var s model.DashboardStats
	_, err := c.Do(ctx, http.MethodGet, DashboardStatsPath, nil, nil, &s)
	return s, err
}

// RecentActivity returns the latest audit entries in feed form.
func (c *Client) RecentActivity(ctx context.Context, limit int) ([]model.Activity, error) {
	var out []model.Activity
	var q map[string]string
	if limit > 0 {
		q = map[string]string{"limit": strconv.Itoa(limit)}
	}
	_, err := c.Do(ctx, http.MethodGet, DashboardActivityPath, q, nil, &out)
	return out, err
}

// LoginResponse is the data of POST /auth/login.
type LoginResponse struct {
	Token string      `json:"token"`
	User  model.Admin `json:"user"`
}

// Login exchanges credentials for a bearer token. It does not persist anything.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var lr LoginResponse
	body := map[string]string{"email": email, "password": password}
	_, err := c.Do(ctx, http.MethodPost, LoginPath, nil, body, &lr)
	return lr, err
}

// Me returns the account behind the current token.
func (c *Client) Me(ctx context.Context) (model.Admin, error) {
	var a model.Admin
	_, err := c.Do(ctx, http.MethodGet, MePath, nil, nil, &a)
	return a, err
}

// Logout tells the server the token is no longer used.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.Do(ctx, http.MethodPost, LogoutPath, nil, struct{}{}, nil)
	return err
}

// RequestPasswordReset asks the server to issue a reset token for email.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	meta, err := c.Do(ctx, http.MethodPost, PasswordResetRequestPath, nil, map[string]string{"email": email}, nil)
	return meta.Message, err
}

// ResetPassword sets a new password using a reset token.
func (c *Client) ResetPassword(ctx context.Context, token, password string) (string, error) {
	body := map[string]string{"token": token, "password": password}
	meta, err := c.Do(ctx, http.MethodPost, PasswordResetPath, nil, body, nil)
	return meta.Message, err
}
