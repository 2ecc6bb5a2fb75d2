package handlers

import (
	"GluviaAdmin/internal/config"
	"GluviaAdmin/internal/middleware"
	"GluviaAdmin/internal/model"
	"GluviaAdmin/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// Services — сервисы, которые обслуживает HTTP-слой.
type Services struct {
	Auth      *service.AuthService
	Users     *service.UserService
	Admins    *service.AdminService
	Foods     *service.FoodService
	Rules     *service.RuleService
	Audit     *service.AuditService
	Dashboard *service.DashboardService
}

// NewHandler разводящий для хендлеров. Без metrics создаётся собственный реестр.
func NewHandler(
	svc Services,
	logger *zap.SugaredLogger,
	config *config.Config,
	metrics *middleware.Metrics,
) *Handler {
	if metrics == nil {
		metrics = middleware.NewMetrics(prometheus.NewRegistry())
	}
	r := chi.NewRouter()

	r.Use(metrics.Middleware)
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret, svc.Auth.IsRevoked))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Handlers
	authHandler := NewAuthHandler(svc.Auth, logger, config)
	batchHandler := NewFoodBatchHandler(svc.Foods, logger)
	dashboardHandler := NewDashboardHandler(svc.Dashboard, logger)
	users := NewResourceHandler[model.User](svc.Users, svc.Users, "User", logger)
	admins := NewResourceHandler[model.Admin](svc.Admins, svc.Admins, "Admin", logger)
	foods := NewResourceHandler[model.Food](svc.Foods, svc.Foods, "Food", logger)
	rules := NewResourceHandler[model.RuleTemplate](svc.Rules, svc.Rules, "Rule", logger)
	audit := NewResourceHandler[model.AuditLog](svc.Audit, nil, "Audit log", logger)

	// Public routes
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/password-reset-request", authHandler.RequestPasswordReset)
	r.Post("/auth/password-reset", authHandler.ResetPassword)
	r.Handle("/metrics", metrics.Handler())

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)

		r.Get("/auth/me", authHandler.Me)
		r.Post("/auth/logout", authHandler.Logout)

		r.Route("/admin/users", users.Routes(nil))
		// управлять администраторами может только super_admin
		r.Route("/admin/admins", admins.Routes(middleware.RequireRole(model.RoleSuperAdmin)))
		r.Route("/admin/audit", audit.Routes(nil))
		r.Get("/admin/dashboard/stats", dashboardHandler.Stats)
		r.Get("/admin/dashboard/activity", dashboardHandler.Activity)

		r.Route("/foods", func(r chi.Router) {
			foods.Routes(nil)(r)
			r.Post("/batch", batchHandler.Upload)
		})
		r.Route("/rules", rules.Routes(nil))
	})

	return &Handler{Router: r}
}
