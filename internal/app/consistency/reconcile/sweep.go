// internal/app/consistency/reconcile/sweep.go

// Package reconcile repairs drift between the two sides of the student/cohort
// relationship. The student records are authoritative: a sweep re-derives a
// cohort's id roster from them wholesale and overwrites whatever the cohort
// document held. Sweeps are idempotent and safe to repeat.
package reconcile

import (
	"context"
	"fmt"

	"github.com/UniqBrio/academyhub/internal/app/consistency/rostersync"
	cohortstore "github.com/UniqBrio/academyhub/internal/app/store/cohorts"
	studentstore "github.com/UniqBrio/academyhub/internal/app/store/students"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Sweeper rebuilds cohort rosters from the authoritative student records.
type Sweeper struct {
	students *studentstore.Store
	cohorts  *cohortstore.Store
	log      *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		students: studentstore.New(db),
		cohorts:  cohortstore.New(db),
		log:      logger,
	}
}

// RebuildCohortRoster recomputes one cohort's membership from the active
// students whose primary reference or membership set names the cohort, and
// overwrites the cohort's id roster with the result.
//
// The name roster is intentionally not rebuilt here; it is only maintained by
// the add/remove path. A roster rebuilt after drift may need a secondary pass
// to refresh names.
func (s *Sweeper) RebuildCohortRoster(ctx context.Context, cohortID, tenantID string) rostersync.Result {
	if _, err := s.cohorts.GetByCohortID(ctx, tenantID, cohortID); err == mongo.ErrNoDocuments {
		return rostersync.Result{Errors: []string{fmt.Sprintf("cohort %s not found", cohortID)}}
	} else if err != nil {
		return rostersync.Result{Errors: []string{fmt.Sprintf("loading cohort %s: %v", cohortID, err)}}
	}

	memberIDs, err := s.students.AuthoritativeMemberIDs(ctx, tenantID, cohortID)
	if err != nil {
		return rostersync.Result{Errors: []string{fmt.Sprintf("deriving membership of %s: %v", cohortID, err)}}
	}

	n, err := s.cohorts.SetMembers(ctx, tenantID, cohortID, memberIDs)
	if err != nil {
		return rostersync.Result{Errors: []string{fmt.Sprintf("writing roster of %s: %v", cohortID, err)}}
	}

	s.log.Debug("rebuilt cohort roster",
		zap.String("cohort_id", cohortID),
		zap.String("tenant_id", tenantID),
		zap.Int("members", len(memberIDs)))

	return rostersync.Result{Success: true, UpdatedCount: n}
}

// RebuildAllRosters sweeps every active cohort of the tenant sequentially.
// This is O(cohorts) round trips and belongs in an operator or scheduled
// maintenance job, never inside a user-facing request.
func (s *Sweeper) RebuildAllRosters(ctx context.Context, tenantID string) rostersync.Result {
	cohorts, err := s.cohorts.FindActive(ctx, tenantID)
	if err != nil {
		return rostersync.Result{Errors: []string{fmt.Sprintf("listing cohorts: %v", err)}}
	}

	var res rostersync.Result
	res.Success = true
	for _, c := range cohorts {
		r := s.RebuildCohortRoster(ctx, c.CohortID, tenantID)
		res.UpdatedCount += r.UpdatedCount
		if !r.Success {
			res.Success = false
			res.Errors = append(res.Errors, r.Errors...)
		}
	}

	s.log.Info("roster sweep finished",
		zap.String("tenant_id", tenantID),
		zap.Int("cohorts", len(cohorts)),
		zap.Int64("updated", res.UpdatedCount),
		zap.Int("errors", len(res.Errors)))
	return res
}
