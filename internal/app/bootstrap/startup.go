// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/UniqBrio/academyhub/internal/app/system/timeouts"
	"github.com/UniqBrio/academyhub/internal/app/system/workers"
)

// sweepWorker is the background roster sweep, started here and stopped in
// Shutdown. Nil when roster_sweep_interval is 0.
var sweepWorker *workers.ReconcileSweep

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It is the
// place to apply config-driven tuning and start background workers.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Long:  appCfg.CascadeTimeout,
		Sweep: appCfg.SweepTimeout,
	})

	if appCfg.RosterSweepInterval > 0 {
		sweepWorker = workers.NewReconcileSweep(deps.AcademyHubMongoDatabase, logger, appCfg.RosterSweepInterval)
		sweepWorker.Start()
	} else {
		logger.Info("background roster sweep disabled (roster_sweep_interval is 0)")
	}

	return nil
}
