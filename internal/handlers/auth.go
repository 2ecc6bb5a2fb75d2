package handlers

import (
	"GluviaAdmin/internal/config"
	"GluviaAdmin/internal/middleware"
	"GluviaAdmin/internal/model"
	"GluviaAdmin/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// AuthHandler обслуживает вход, выход и сброс пароля администраторов.
type AuthHandler struct {
	AuthService *service.AuthService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewAuthHandler создаёт хендлер сессий.
func NewAuthHandler(authService *service.AuthService, logger *zap.SugaredLogger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{AuthService: authService, Logger: logger, Config: cfg}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *model.Admin `json:"user"`
}

// Login выдаёт bearer-токен по email и паролю.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.Logger.Warnw("Login: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	admin, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.Logger.Infow("Login: invalid credentials", "email", req.Email)
		}
		fail(w, h.Logger, "Login", err, "Admin")
		return
	}

	token, _, err := middleware.IssueToken(h.Config.AuthSecret, h.Config.TokenTTL, admin.ID, admin.Email, admin.Role)
	if err != nil {
		h.Logger.Errorw("Login: failed to issue token", "admin_id", admin.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeData(w, http.StatusOK, loginResponse{Token: token, User: admin}, "Login successful")
}

// Me возвращает учётную запись владельца токена.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetAdminIDFromContext(r.Context())
	admin, err := h.AuthService.Me(r.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		// учётная запись удалена после выдачи токена
		writeError(w, http.StatusUnauthorized, "Session is no longer valid")
		return
	}
	if err != nil {
		fail(w, h.Logger, "Me", err, "Admin")
		return
	}
	writeData(w, http.StatusOK, admin, "")
}

// Logout отзывает текущий токен.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	c, _ := middleware.GetClaims(r.Context())
	if err := h.AuthService.Logout(r.Context(), c.ID, c.ExpiresAt.Time); err != nil {
		fail(w, h.Logger, "Logout", err, "Session")
		return
	}
	writeData(w, http.StatusOK, nil, "Logged out successfully")
}

// RequestPasswordReset отвечает одинаково для известных и неизвестных адресов.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, err := h.AuthService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		fail(w, h.Logger, "RequestPasswordReset", err, "Admin")
		return
	}
	writeData(w, http.StatusOK, nil, "If the email is registered, a reset link has been sent")
}

// ResetPassword задаёт новый пароль по токену сброса.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.AuthService.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		fail(w, h.Logger, "ResetPassword", err, "Admin")
		return
	}
	writeData(w, http.StatusOK, nil, "Password has been reset")
}
