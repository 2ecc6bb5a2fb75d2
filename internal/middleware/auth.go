package middleware

import (
	"GluviaAdmin/internal/model"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type ctxKey int

const claimsKey ctxKey = iota

// Claims — содержимое bearer-токена администратора. Subject хранит id администратора.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IssueToken подписывает HS256-токен для администратора. ID токена (jti) нужен для отзыва при выходе.
func IssueToken(secret string, ttl time.Duration, adminID, email, role string) (string, *Claims, error) {
	now := time.Now().UTC()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   adminID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Role:  role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, claims, nil
}

// ParseToken проверяет подпись и срок действия токена.
func ParseToken(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, errors.New("token has no subject or id")
	}
	return claims, nil
}

// WithAuth кладёт claims в контекст, если запрос несёт валидный неотозванный
// bearer-токен. Запрос без токена проходит дальше анонимным.
func WithAuth(secret string, revoked func(ctx context.Context, jti string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearer(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := ParseToken(secret, raw)
			if err != nil {
				logger.Debugw("WithAuth: invalid token", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if revoked != nil && revoked(r.Context(), claims.ID) {
				logger.Debugw("WithAuth: revoked token", "jti", claims.ID)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}

// GetClaims достаёт claims, положенные WithAuth.
func GetClaims(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok
}

// GetAdminIDFromContext достаёт id администратора из контекста.
func GetAdminIDFromContext(ctx context.Context) (string, bool) {
	c, ok := GetClaims(ctx)
	if !ok {
		return "", false
	}
	return c.Subject, true
}

// RequireAdmin отвечает 401 без валидного токена и 403 для роли, не имеющей доступа к панели.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(model.RoleAdmin, model.RoleSuperAdmin)(next)
}

// RequireRole пропускает только администраторов с одной из ролей.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := GetClaims(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			for _, role := range roles {
				if c.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			logger.Infow("RequireRole: forbidden", "admin_id", c.Subject, "role", c.Role, "path", r.URL.Path)
			writeError(w, http.StatusForbidden, "Insufficient permissions")
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"message": msg}})
}
