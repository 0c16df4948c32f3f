// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration; ports, TLS, logging level
// and CORS belong to WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session cookie configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: adminpanel-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Sign-in
	TokenSecret       string        // HS256 key for session tokens
	TokenTTL          time.Duration // Session token lifetime
	AdminEmail        string        // The operator account
	AdminPassword     string        // Plain password, hashed at startup (dev only)
	AdminPasswordHash string        // bcrypt hash; wins over AdminPassword

	// List pages
	SeedDemoData    bool // Seed empty collections with generated records
	DefaultPageSize int  // Rows per page when the client does not ask

	// Desk eviction
	DeskIdleTimeout   time.Duration
	DeskSweepInterval time.Duration

	// Audit destinations per category: all, db, log or off
	AuditLogAuth  string
	AuditLogAdmin string

	// Timeouts for remote and Mongo calls
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
