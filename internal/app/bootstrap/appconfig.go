// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). Framework-level settings such
// as ports, TLS, logging and CORS live in WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// ohsome-now stats API
	OhsomeStatsBaseURL string        // e.g., https://stats.now.ohsome.org/api
	OhsomeStatsTimeout time.Duration // per-request HTTP client timeout

	// Target of the "New to mapping?" action on every partner page
	LearnMapURL string

	// bcrypt hash of the bearer token that unlocks partner writes.
	// Empty disables POST/PUT/DELETE on the partner API.
	AdminTokenHash string

	// Failed admin token attempts allowed per client IP within AdminAuthWindow.
	AdminAuthMaxFailures int
	AdminAuthWindow      time.Duration

	// Comma-separated CIDRs of reverse proxies allowed to set X-Forwarded-For.
	// Empty means the TCP peer is always taken as the client.
	TrustedProxies string

	// Request-scoped timeouts; zero keeps the built-in defaults.
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
}
