package service

import (
	"GluviaAdmin/internal/model"
	"GluviaAdmin/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultResetTTL — время жизни токена сброса пароля.
const DefaultResetTTL = time.Hour

// AuthService аутентифицирует администраторов панели.
type AuthService struct {
	admins   repo.AccountRepository[model.Admin]
	tokens   repo.TokenRepository
	audit    *AuditService
	logger   *zap.SugaredLogger
	resetTTL time.Duration
	now      func() time.Time
}

func NewAuthService(
	admins repo.AccountRepository[model.Admin],
	tokens repo.TokenRepository,
	audit *AuditService,
	logger *zap.SugaredLogger,
) *AuthService {
	return &AuthService{
		admins:   admins,
		tokens:   tokens,
		audit:    audit,
		logger:   logger,
		resetTTL: DefaultResetTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Login проверяет email и пароль. Для неизвестного email, удалённой учётной
// записи и неверного пароля возвращается одна и та же ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.Admin, error) {
	a, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if a.Deleted {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	at := s.now()
	if err := s.admins.TouchLogin(ctx, a.ID, at); err != nil {
		s.logger.Warnw("Login: failed to store last login", "admin_id", a.ID, "error", err)
	} else {
		a.LastLoginAt = &at
	}
	s.audit.Record(ctx, Actor{ID: a.ID, Email: a.Email}, model.ActionLogin, "admins", a.ID, "")
	return a, nil
}

// Me returns the active admin behind a token subject.
func (s *AuthService) Me(ctx context.Context, adminID string) (*model.Admin, error) {
	a, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return nil, notFound(err)
	}
	if a.Deleted {
		return nil, ErrNotFound
	}
	return a, nil
}

// Logout отзывает токен до истечения его срока.
func (s *AuthService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if err := s.tokens.Revoke(ctx, jti, expiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	if err := s.tokens.PurgeExpired(ctx, s.now()); err != nil {
		s.logger.Warnw("Logout: purge expired tokens", "error", err)
	}
	return nil
}

// IsRevoked reports whether a token was logged out. Storage errors count as revoked.
func (s *AuthService) IsRevoked(ctx context.Context, jti string) bool {
	revoked, err := s.tokens.IsRevoked(ctx, jti)
	if err != nil {
		s.logger.Errorw("IsRevoked: storage error", "error", err)
		return true
	}
	return revoked
}

// RequestPasswordReset выдаёт токен сброса. Для неизвестного email возвращается
// пустой токен без ошибки, чтобы ответ не раскрывал наличие учётной записи.
// Письма сервер не отправляет: токен пишется в лог.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	var c checker
	c.email("email", email)
	if err := c.err(); err != nil {
		return "", err
	}
	a, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	if a.Deleted {
		return "", nil
	}
	pr := &model.PasswordReset{Token: uuid.NewString(), AdminID: a.ID, ExpiresAt: s.now().Add(s.resetTTL)}
	if err := s.tokens.CreateReset(ctx, pr); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	s.logger.Infow("password reset requested", "admin_id", a.ID, "token", pr.Token, "expires_at", pr.ExpiresAt)
	return pr.Token, nil
}

// ResetPassword sets a new password with a single-use token.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	var c checker
	c.required("token", token)
	c.password("password", password)
	if err := c.err(); err != nil {
		return err
	}
	pr, err := s.tokens.ConsumeReset(ctx, strings.TrimSpace(token), s.now())
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if err := s.admins.SetPassword(ctx, pr.AdminID, hash); err != nil {
		return notFound(err)
	}
	s.audit.Record(ctx, Actor{ID: pr.AdminID}, model.ActionUpdate, "admins", pr.AdminID, "password reset")
	return nil
}

// EnsureSuperAdmin создаёт super_admin с заданными данными, если учётной записи с таким email ещё нет.
func (s *AuthService) EnsureSuperAdmin(ctx context.Context, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(notFound(err), ErrNotFound) {
		return false, err
	}
	var c checker
	c.email("email", email)
	c.password("password", password)
	if err := c.err(); err != nil {
		return false, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	a := &model.Admin{Email: email, Password: hash, FirstName: "Super", LastName: "Admin", Role: model.RoleSuperAdmin}
	if err := s.admins.Create(ctx, a); err != nil {
		return false, fmt.Errorf("create super admin: %w", err)
	}
	return true, nil
}
