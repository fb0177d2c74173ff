package bootstrap

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:           "mongodb://localhost:27017",
		MongoDatabase:      "partnerstats",
		OhsomeStatsBaseURL: "https://stats.now.ohsome.org/api",

		AdminAuthMaxFailures: 10,
		AdminAuthWindow:      time.Minute,
	}
}

func TestValidateConfig_Defaults(t *testing.T) {
	if err := ValidateConfig(nil, validAppConfig(), zap.NewNop()); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
}

func TestValidateConfig_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*AppConfig)
		want   string
	}{
		{"bad mongo uri", func(c *AppConfig) { c.MongoURI = "postgres://nope" }, "invalid MongoDB URI"},
		{"empty database", func(c *AppConfig) { c.MongoDatabase = "" }, "mongo_database"},
		{"relative stats url", func(c *AppConfig) { c.OhsomeStatsBaseURL = "/api" }, "ohsome_stats_base_url"},
		{"zero failure budget", func(c *AppConfig) { c.AdminAuthMaxFailures = 0 }, "admin_auth_max_failures"},
		{"plain admin token", func(c *AppConfig) { c.AdminTokenHash = "letmein" }, "admin_token_hash"},
		{"bad proxy cidr", func(c *AppConfig) { c.TrustedProxies = "10.0.0.0/8, lb.internal" }, "trusted_proxies"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validAppConfig()
			tc.mutate(&cfg)
			err := ValidateConfig(nil, cfg, zap.NewNop())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestValidateConfig_AcceptsBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("token"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword: %v", err)
	}
	cfg := validAppConfig()
	cfg.AdminTokenHash = string(hash)
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
}
