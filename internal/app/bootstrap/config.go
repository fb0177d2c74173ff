// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/partnerstats/internal/app/features/partners"
	"github.com/dalemusser/partnerstats/internal/app/system/ohsome"
	"github.com/dalemusser/partnerstats/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// appConfigKeys defines the configuration keys for partnerstats.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, ohsome_stats_base_url, etc.
//   - Environment variables: PARTNERSTATS_MONGO_URI, PARTNERSTATS_ADMIN_TOKEN_HASH, etc.
//   - Command-line flags: --mongo_uri, --learn_map_url, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "partnerstats", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},

	// ohsome-now stats
	{Name: "ohsome_stats_base_url", Default: ohsome.DefaultBaseURL, Desc: "Base URL of the ohsome-now stats API"},
	{Name: "ohsome_stats_timeout", Default: "10s", Desc: "HTTP timeout for ohsome-now stats requests"},

	{Name: "learn_map_url", Default: partners.DefaultLearnURL, Desc: "Link target for the 'New to mapping?' action"},

	// Partner API
	{Name: "admin_token_hash", Default: "", Desc: "bcrypt hash of the partner API admin token (blank disables writes)"},
	{Name: "admin_auth_max_failures", Default: 10, Desc: "Failed admin token attempts allowed per IP per window"},
	{Name: "admin_auth_window", Default: "1m", Desc: "Window for counting failed admin token attempts"},
	{Name: "trusted_proxies", Default: "", Desc: "Comma-separated proxy CIDRs whose X-Forwarded-For is honored (blank trusts none)"},

	// Request timeouts
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document lookups"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list and write operations"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, PARTNERSTATS_* for app) and
// command-line flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PARTNERSTATS", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		OhsomeStatsBaseURL: appValues.String("ohsome_stats_base_url"),
		OhsomeStatsTimeout: appValues.Duration("ohsome_stats_timeout", 10*time.Second),

		LearnMapURL:    appValues.String("learn_map_url"),
		AdminTokenHash: appValues.String("admin_token_hash"),

		AdminAuthMaxFailures: appValues.Int("admin_auth_max_failures"),
		AdminAuthWindow:      appValues.Duration("admin_auth_window", time.Minute),
		TrustedProxies:       appValues.String("trusted_proxies"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI, stats API URL and admin token hash are checked here so
// misconfiguration fails at startup rather than on first request.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}

	if !urlutil.IsValidAbsHTTPURL(appCfg.OhsomeStatsBaseURL) {
		return fmt.Errorf("ohsome_stats_base_url must be an absolute http(s) URL, got %q", appCfg.OhsomeStatsBaseURL)
	}

	if appCfg.AdminAuthMaxFailures < 1 || appCfg.AdminAuthWindow <= 0 {
		return fmt.Errorf("admin_auth_max_failures and admin_auth_window must be positive")
	}

	if _, err := ratelimit.ParseProxies(appCfg.TrustedProxies); err != nil {
		return fmt.Errorf("trusted_proxies: %w", err)
	}

	if appCfg.AdminTokenHash != "" {
		if _, err := bcrypt.Cost([]byte(appCfg.AdminTokenHash)); err != nil {
			return fmt.Errorf("admin_token_hash is not a bcrypt hash: %w", err)
		}
	} else {
		logger.Info("admin_token_hash not set; partner API writes are disabled")
	}

	return nil
}
