// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/adminpanel/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// MinTokenSecretLen is the shortest token secret accepted in prod.
const MinTokenSecretLen = 32

// appConfigKeys defines the configuration keys for the admin panel.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: ADMINPANEL_MONGO_URI, ADMINPANEL_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "adminpanel", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "adminpanel-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime (e.g., 24h, 90m)"},

	// Sign-in
	{Name: "token_secret", Default: "dev-only-token-secret-0123456789ABCDEF", Desc: "HS256 secret for session tokens (32+ bytes in prod)"},
	{Name: "token_ttl", Default: "24h", Desc: "Session token lifetime"},
	{Name: "admin_email", Default: "admin@example.com", Desc: "Operator sign-in email"},
	{Name: "admin_password", Default: "", Desc: "Operator password (hashed at startup; prefer admin_password_hash)"},
	{Name: "admin_password_hash", Default: "", Desc: "bcrypt hash of the operator password"},

	// List pages
	{Name: "seed_demo_data", Default: false, Desc: "Seed empty collections with demo records"},
	{Name: "default_page_size", Default: 10, Desc: "Default rows per list page"},

	// Desk eviction
	{Name: "desk_idle_timeout", Default: "30m", Desc: "Drop a browser's page state after this long without requests"},
	{Name: "desk_sweep_interval", Default: "1m", Desc: "How often idle desks are swept"},

	// Audit logging
	{Name: "audit_log_auth", Default: "all", Desc: "Audit destination for sign-in events: all, db, log, off"},
	{Name: "audit_log_admin", Default: "all", Desc: "Audit destination for list page mutations: all, db, log, off"},

	// Timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document operations"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list loads and counts"},
	{Name: "timeout_long", Default: "30s", Desc: "Timeout for seeding and schema setup"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, ADMINPANEL_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "ADMINPANEL", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		TokenSecret:       appValues.String("token_secret"),
		TokenTTL:          appValues.Duration("token_ttl", 24*time.Hour),
		AdminEmail:        appValues.String("admin_email"),
		AdminPassword:     appValues.String("admin_password"),
		AdminPasswordHash: appValues.String("admin_password_hash"),

		SeedDemoData:    appValues.Bool("seed_demo_data"),
		DefaultPageSize: appValues.Int("default_page_size"),

		DeskIdleTimeout:   appValues.Duration("desk_idle_timeout", 30*time.Minute),
		DeskSweepInterval: appValues.Duration("desk_sweep_interval", time.Minute),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
		TimeoutLong:   appValues.Duration("timeout_long", 30*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI format is checked here to catch configuration errors
// before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateApp(coreCfg.Env, appCfg)
}

func validateApp(env string, appCfg AppConfig) error {
	var errs []error
	if env == "prod" && len(appCfg.TokenSecret) < MinTokenSecretLen {
		errs = append(errs, fmt.Errorf("token_secret must be at least %d bytes in prod", MinTokenSecretLen))
	}
	if appCfg.TokenSecret == "" {
		errs = append(errs, errors.New("token_secret is required"))
	}
	if appCfg.DefaultPageSize < 1 {
		errs = append(errs, fmt.Errorf("default_page_size must be at least 1, got %d", appCfg.DefaultPageSize))
	}
	if appCfg.AdminEmail == "" {
		errs = append(errs, errors.New("admin_email is required"))
	}
	if appCfg.AdminPassword == "" && appCfg.AdminPasswordHash == "" {
		errs = append(errs, errors.New("admin_password or admin_password_hash is required"))
	}
	if env == "prod" && appCfg.AdminPasswordHash == "" {
		errs = append(errs, errors.New("admin_password_hash is required in prod"))
	}
	if appCfg.DeskSweepInterval <= 0 || appCfg.DeskIdleTimeout <= 0 {
		errs = append(errs, errors.New("desk_sweep_interval and desk_idle_timeout must be positive"))
	}
	for key, mode := range map[string]string{"audit_log_auth": appCfg.AuditLogAuth, "audit_log_admin": appCfg.AuditLogAdmin} {
		if !auditlog.ValidMode(mode) {
			errs = append(errs, fmt.Errorf("%s must be one of all, db, log, off; got %q", key, mode))
		}
	}
	return errors.Join(errs...)
}
