// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	consistencyfeature "github.com/UniqBrio/academyhub/internal/app/features/consistency"
	healthfeature "github.com/UniqBrio/academyhub/internal/app/features/health"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// AcademyHub mounts the health endpoint and the consistency ops API. The
// ops endpoints take their tenant from the X-Tenant-ID header; there is no
// session or auth layer here, this service sits behind the main app.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.AcademyHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Consistency engine ops API (cascade, membership, reconcile, rollups)
	consistencyHandler := consistencyfeature.NewHandler(deps.AcademyHubMongoDatabase, logger)
	r.Mount("/", consistencyfeature.Routes(consistencyHandler))

	return r, nil
}
