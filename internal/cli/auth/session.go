// Package auth is the authentication gate of the admin tool: it owns the
// persisted bearer token and reacts to a 401 from any call.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"GluviaAdmin/internal/cli/api"
	"GluviaAdmin/internal/cli/model"
	"GluviaAdmin/internal/cli/repo"

	"go.uber.org/zap"
)

var (
	// ErrNotLoggedIn means no token is stored.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrSessionExpired means the server rejected the stored token.
	ErrSessionExpired = errors.New("session expired, please log in")
	// ErrInvalidCredentials is returned by Login on a 401.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Gateway is the part of the API client the session needs. *api.Client implements it.
type Gateway interface {
	Login(ctx context.Context, email, password string) (api.LoginResponse, error)
	Me(ctx context.Context) (model.Admin, error)
	Logout(ctx context.Context) error
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, password string) (string, error)
}

var _ Gateway = (*api.Client)(nil)

// Session manages the bearer token of the current admin.
type Session struct {
	gw     Gateway
	tokens repo.TokenStore
	users  repo.UserContextStore
	logger *zap.SugaredLogger

	mu      sync.Mutex
	expired bool
}

// NewSession creates a session. users and logger may be nil.
func NewSession(gw Gateway, tokens repo.TokenStore, users repo.UserContextStore, logger *zap.SugaredLogger) *Session {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Session{gw: gw, tokens: tokens, users: users, logger: logger}
}

// Login exchanges credentials for a token and persists it.
func (s *Session) Login(ctx context.Context, email, password string) (model.Admin, error) {
	email = strings.TrimSpace(email)
	resp, err := s.gw.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return model.Admin{}, ErrInvalidCredentials
		}
		return model.Admin{}, err
	}
	if resp.Token == "" {
		return model.Admin{}, errors.New("login: server returned no token")
	}
	if err := s.tokens.Save(resp.Token); err != nil {
		return model.Admin{}, fmt.Errorf("saving token: %w", err)
	}
	if s.users != nil {
		// не критично: используется только как подсказка в whoami
		if err := s.users.SaveLogin(email); err != nil {
			s.logger.Warnw("save last login", "error", err)
		}
	}
	s.mu.Lock()
	s.expired = false
	s.mu.Unlock()
	s.logger.Infow("logged in", "email", email, "role", resp.User.Role)
	return resp.User, nil
}

// IsAuthenticated reports whether a token is stored.
func (s *Session) IsAuthenticated() bool {
	tok, err := s.tokens.Load()
	return err == nil && tok != ""
}

// CurrentUser asks the server who the stored token belongs to.
func (s *Session) CurrentUser(ctx context.Context) (model.Admin, error) {
	if !s.IsAuthenticated() {
		return model.Admin{}, ErrNotLoggedIn
	}
	a, err := s.gw.Me(ctx)
	if errors.Is(err, api.ErrUnauthorized) {
		return model.Admin{}, ErrSessionExpired
	}
	return a, err
}

// Logout notifies the server (best effort) and forgets the token.
func (s *Session) Logout(ctx context.Context) error {
	if s.IsAuthenticated() {
		if err := s.gw.Logout(ctx); err != nil && !errors.Is(err, api.ErrUnauthorized) {
			s.logger.Warnw("server logout failed", "error", err)
		}
	}
	if err := s.tokens.Clear(); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	return nil
}

// RequestPasswordReset asks the server to send a reset token to email.
func (s *Session) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	return s.gw.RequestPasswordReset(ctx, strings.TrimSpace(email))
}

// ResetPassword sets a new password with a reset token.
func (s *Session) ResetPassword(ctx context.Context, token, password string) (string, error) {
	return s.gw.ResetPassword(ctx, strings.TrimSpace(token), password)
}

// HandleUnauthorized is registered as the API client's 401 callback.
// The client has already cleared the token; the session only records that
// the user must log in again.
func (s *Session) HandleUnauthorized() {
	s.mu.Lock()
	s.expired = true
	s.mu.Unlock()
	if err := s.tokens.Clear(); err != nil {
		s.logger.Warnw("clear auth token", "error", err)
	}
}

// NeedsLogin reports whether a 401 was seen since the last successful login.
func (s *Session) NeedsLogin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expired
}

// LastLogin returns the email of the last successful login, if known.
func (s *Session) LastLogin() string {
	if s.users == nil {
		return ""
	}
	email, err := s.users.LoadLogin()
	if err != nil {
		return ""
	}
	return email
}
