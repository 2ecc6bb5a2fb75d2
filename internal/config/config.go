package config

import (
	"flag"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL        = "localhost:8081"
	DefaultAuthSecret     = "dev-secret-key"
	DefaultRequestTimeout = 30 * time.Second
	DefaultPageSize       = 10
	DefaultTokenTTL       = 24 * time.Hour
	DefaultSeedAdminEmail = "admin@gluvia.local"
)

type Config struct {
	// Server-side settings
	DatabaseDSN string        `env:"DATABASE_URI"`
	AuthSecret  string        `env:"AUTH_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL"`
	// учётная запись super_admin, создаваемая при старте, если задан пароль
	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`
	LogLevel    string `env:"LOG_LEVEL"`

	// Client-side settings
	APIURL         string        `env:"GLUVIA_API_URL"` // полный URL API; если пуст, собирается из BaseURL
	ServerURL      string        `env:"-"`
	TokenFile      string        `env:"TOKEN_FILE"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	PageSize       int           `env:"PAGE_SIZE"`
	Version        bool          `env:"-"` // show client version and exit (flag only)
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

// NewConfig reads .env, the environment and the process flags.
func NewConfig() *Config {
	// flag.CommandLine завершает процесс при ошибке разбора, поэтому err здесь не нужен
	cfg, _ := Parse(flag.CommandLine, os.Args[1:])
	return cfg
}

// Parse fills a Config from .env, the environment and args parsed with fs.
// Flags override environment values.
func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// Server flags
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД (postgres://... или путь к sqlite)")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "lifetime of issued bearer tokens")
	fs.StringVar(&cfg.SeedAdminEmail, "admin-email", cfg.SeedAdminEmail, "email of the super admin created on start")
	fs.StringVar(&cfg.SeedAdminPassword, "admin-password", cfg.SeedAdminPassword, "password of the super admin created on start")
	// Shared flags
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "address of the API server as host:port")
	fs.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "use https scheme for BaseURL (client)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug|info|warn|error")
	// Client flags
	fs.StringVar(&cfg.APIURL, "api", cfg.APIURL, "full API URL, overrides -base-url (client)")
	fs.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to auth token file (client)")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "request timeout (client)")
	fs.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "default rows per page (client)")
	fs.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	err := fs.Parse(args)
	cfg.applyDefaults()
	return cfg, err
}

func (cfg *Config) applyDefaults() {
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = DefaultAuthSecret
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.SeedAdminEmail == "" {
		cfg.SeedAdminEmail = DefaultSeedAdminEmail
	}
	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = cfg.ServerURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
}
