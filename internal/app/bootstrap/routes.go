// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	errorsfeature "github.com/dalemusser/partnerstats/internal/app/features/errors"
	healthfeature "github.com/dalemusser/partnerstats/internal/app/features/health"
	partnerapifeature "github.com/dalemusser/partnerstats/internal/app/features/partnerapi"
	partnersfeature "github.com/dalemusser/partnerstats/internal/app/features/partners"
	"github.com/dalemusser/partnerstats/internal/app/system/ohsome"
	"github.com/dalemusser/partnerstats/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It boots the template engine and mounts
// the partner pages, the partner JSON API, health and static assets.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	statsClient := ohsome.New(appCfg.OhsomeStatsBaseURL, appCfg.OhsomeStatsTimeout, logger)

	r := chi.NewRouter()
	r.NotFound(errorsfeature.NotFound)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, appCfg.OhsomeStatsBaseURL, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Partner dashboards
	partnersHandler := partnersfeature.NewHandler(deps.MongoDatabase, statsClient, appCfg.LearnMapURL, logger)
	r.Mount("/partners", partnersfeature.Routes(partnersHandler))

	// Partner JSON API
	authFailures := ratelimit.New(appCfg.AdminAuthMaxFailures, appCfg.AdminAuthWindow)
	trusted, err := ratelimit.ParseProxies(appCfg.TrustedProxies)
	if err != nil {
		return nil, err
	}
	apiHandler := partnerapifeature.NewHandler(deps.MongoDatabase, appCfg.AdminTokenHash, authFailures, trusted, logger)
	r.Mount("/api/partners", partnerapifeature.Routes(apiHandler))

	return r, nil
}
