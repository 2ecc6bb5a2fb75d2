package main

import (
	"GluviaAdmin/internal/config"
	"GluviaAdmin/internal/handlers"
	"GluviaAdmin/internal/logging"
	"GluviaAdmin/internal/middleware"
	"GluviaAdmin/internal/repo"
	"GluviaAdmin/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.NewConfig()

	// создаём регистратор zap
	logger, err := logging.NewServer(cfg.LogLevel)
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	adminRepo := repo.NewAdminRepository(gormDB)
	foodRepo := repo.NewFoodRepository(gormDB)
	ruleRepo := repo.NewRuleRepository(gormDB)
	auditService := service.NewAuditService(repo.NewAuditRepository(gormDB), sugar)

	svc := handlers.Services{
		Auth:      service.NewAuthService(adminRepo, repo.NewTokenRepository(gormDB), auditService, sugar),
		Users:     service.NewUserService(userRepo, auditService, sugar),
		Admins:    service.NewAdminService(adminRepo, auditService, sugar),
		Foods:     service.NewFoodService(foodRepo, auditService, sugar),
		Rules:     service.NewRuleService(ruleRepo, auditService, sugar),
		Audit:     auditService,
		Dashboard: service.NewDashboardService(userRepo, adminRepo, foodRepo, ruleRepo, auditService),
	}

	if cfg.SeedAdminPassword != "" {
		created, err := svc.Auth.EnsureSuperAdmin(ctx, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
		if err != nil {
			sugar.Fatalw("failed to create super admin", "email", cfg.SeedAdminEmail, "error", err)
		}
		if created {
			sugar.Infow("Super admin created", "email", cfg.SeedAdminEmail)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	h := handlers.NewHandler(svc, sugar, cfg, middleware.NewMetrics(reg))

	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sugar.Infow("Starting server",
		"addr", cfg.BaseURL,
		"database", dbKind(cfg.DatabaseDSN),
		"token_ttl", cfg.TokenTTL,
	)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Server shutdown failed", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
	sugar.Infow("Server stopped")
}

// dbKind не даёт строке подключения с паролем попасть в лог.
func dbKind(dsn string) string {
	switch {
	case repo.IsPostgresDSN(dsn):
		return "postgres"
	case dsn == "":
		return "sqlite (in-memory)"
	}
	return "sqlite"
}
