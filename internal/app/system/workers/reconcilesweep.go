// internal/app/system/workers/reconcilesweep.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/UniqBrio/academyhub/internal/app/consistency/reconcile"
	cohortstore "github.com/UniqBrio/academyhub/internal/app/store/cohorts"
	"github.com/UniqBrio/academyhub/internal/app/system/timeouts"
)

// ReconcileSweep is a background worker that periodically rebuilds every
// tenant's cohort rosters from the authoritative student records, repairing
// any drift left behind by interrupted membership writes.
type ReconcileSweep struct {
	sweeper  *reconcile.Sweeper
	cohorts  *cohortstore.Store
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewReconcileSweep creates a new roster sweep worker.
//
// Parameters:
//   - db: the application database
//   - logger: zap logger for logging
//   - interval: how often to run the sweep (e.g., 6 hours)
func NewReconcileSweep(db *mongo.Database, logger *zap.Logger, interval time.Duration) *ReconcileSweep {
	return &ReconcileSweep{
		sweeper:  reconcile.New(db, logger),
		cohorts:  cohortstore.New(db),
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *ReconcileSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("roster sweep worker started",
		zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *ReconcileSweep) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("roster sweep worker stopped")
}

func (w *ReconcileSweep) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *ReconcileSweep) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Sweep())
	defer cancel()

	runID := uuid.NewString()
	start := time.Now()

	tenants, err := w.cohorts.Tenants(ctx)
	if err != nil {
		w.log.Error("listing tenants for roster sweep failed",
			zap.String("run_id", runID),
			zap.Error(err))
		return
	}

	var updated int64
	var errCount int
	for _, tenant := range tenants {
		res := w.sweeper.RebuildAllRosters(ctx, tenant)
		updated += res.UpdatedCount
		errCount += len(res.Errors)
		if !res.Success {
			w.log.Warn("roster sweep had errors",
				zap.String("run_id", runID),
				zap.String("tenant_id", tenant),
				zap.Strings("errors", res.Errors))
		}
	}

	w.log.Info("roster sweep run complete",
		zap.String("run_id", runID),
		zap.Int("tenants", len(tenants)),
		zap.Int64("updated", updated),
		zap.Int("errors", errCount),
		zap.String("took", time.Since(start).String()))
}
