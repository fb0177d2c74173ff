// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/partnerstats/internal/app/resources"
	"github.com/dalemusser/partnerstats/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
	})
	active := timeouts.Current()
	logger.Info("request timeouts configured",
		zap.Duration("ping", active.Ping),
		zap.Duration("short", active.Short),
		zap.Duration("medium", active.Medium))

	resources.LoadSharedTemplates()
	return nil
}
