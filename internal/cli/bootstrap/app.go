// Package bootstrap wires the API client, the session and every store of the
// admin tool from a Config.
package bootstrap

import (
	"io"

	"GluviaAdmin/internal/cli/api"
	"GluviaAdmin/internal/cli/auth"
	"GluviaAdmin/internal/cli/model"
	"GluviaAdmin/internal/cli/notify"
	"GluviaAdmin/internal/cli/repo"
	fsrepo "GluviaAdmin/internal/cli/repo/fs"
	"GluviaAdmin/internal/cli/store"
	"GluviaAdmin/internal/config"
	"GluviaAdmin/internal/logging"

	"go.uber.org/zap"
)

// App is everything a command needs. Stores are explicit values, not globals.
type App struct {
	Config   *config.Config
	Logger   *zap.SugaredLogger
	Client   *api.Client
	Session  *auth.Session
	Notifier notify.Notifier

	Users     *store.Store[model.User]
	Admins    *store.Store[model.Admin]
	Foods     *store.FoodStore
	Rules     *store.Store[model.RuleTemplate]
	Audit     *store.Store[model.AuditLog]
	Dashboard *store.DashboardStore
}

// Open собирает приложение и возвращает (app, cleanup, error).
// cleanup сбрасывает буфер логгера.
func Open(cfg *config.Config, out io.Writer) (*App, func() error, error) {
	logger, err := logging.NewClient(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	tokens := fsrepo.AuthFSStore{TokenFile: cfg.TokenFile}
	app := Wire(cfg, out, logger, tokens, tokens)
	cleanup := func() error {
		// stderr sync returns EINVAL on some terminals
		_ = logger.Sync()
		return nil
	}
	return app, cleanup, nil
}

// Wire builds an App over explicit token storage; tests use it with in-memory fakes.
func Wire(cfg *config.Config, out io.Writer, logger *zap.SugaredLogger, tokens repo.TokenStore, users repo.UserContextStore) *App {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	client := api.New(cfg.APIURL, tokens,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(logger.Named("api")),
	)
	session := auth.NewSession(client, tokens, users, logger.Named("auth"))
	client.SetUnauthorizedHandler(session.HandleUnauthorized)

	n := notify.NewWriter(out, logger.Named("toast"))
	withLog := store.WithLogger(logger.Named("store"))
	return &App{
		Config:    cfg,
		Logger:    logger,
		Client:    client,
		Session:   session,
		Notifier:  n,
		Users:     store.NewUserStore(client, n, store.WithRefetch(), withLog),
		Admins:    store.NewAdminStore(client, n, store.WithRefetch(), withLog),
		Foods:     store.NewFoodStore(client, n, store.WithRefetch(), withLog),
		Rules:     store.NewRuleStore(client, n, store.WithRefetch(), withLog),
		Audit:     store.NewAuditStore(client, n, withLog),
		Dashboard: store.NewDashboardStore(client, n),
	}
}
