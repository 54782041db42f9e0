// internal/app/consistency/rostersync/sync.go

// Package rostersync maintains the two-sided student/cohort membership
// relationship. The cohort side (id roster, name roster, waitlist) and the
// student side (membership set, primary cohort reference) are written by two
// independent calls with no transaction across them; a crash between the two
// leaves the sides disagreeing until a reconciliation sweep repairs them.
// Each single write uses set semantics, so repeating an operation converges.
package rostersync

import (
	"context"
	"fmt"

	cohortstore "github.com/UniqBrio/academyhub/internal/app/store/cohorts"
	studentstore "github.com/UniqBrio/academyhub/internal/app/store/students"
	"github.com/UniqBrio/academyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Result is the outcome of one membership operation. Expected failure modes
// (entity not found, storage errors) are reported here, never panicked or
// returned as Go errors: callers log and continue, because the CRUD operation
// that triggered the sync has already committed.
//
// UpdatedCount counts documents actually modified. On partial success it
// reflects only the side that was applied; callers must not assume
// all-or-nothing.
type Result struct {
	Success      bool     `json:"success"`
	UpdatedCount int64    `json:"updated_count"`
	Errors       []string `json:"errors,omitempty"`
}

func fail(format string, args ...interface{}) Result {
	return Result{Errors: []string{fmt.Sprintf(format, args...)}}
}

// Synchronizer applies membership changes to both sides of the relationship.
type Synchronizer struct {
	students *studentstore.Store
	cohorts  *cohortstore.Store
	log      *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{
		students: studentstore.New(db),
		cohorts:  cohortstore.New(db),
		log:      logger,
	}
}

// AddToCohort enrolls the student into the cohort: the student id joins the
// cohort's id roster, an {id, name} pair joins the name roster (replacing any
// stale pair for the same student), and the cohort becomes the student's
// primary cohort and joins their membership set. Calling it twice leaves the
// same state as calling it once.
func (s *Synchronizer) AddToCohort(ctx context.Context, cohortID, studentID, tenantID string) Result {
	cohort, err := s.cohorts.GetByCohortID(ctx, tenantID, cohortID)
	if err == mongo.ErrNoDocuments {
		return fail("cohort %s not found", cohortID)
	}
	if err != nil {
		return fail("loading cohort %s: %v", cohortID, err)
	}
	return s.addResolved(ctx, tenantID, cohort, studentID)
}

// Enroll is the authoritative assign operation used by student create/update
// flows. It behaves like AddToCohort but also accepts the legacy batch key:
// historical cohort documents may be addressable only by batch_id.
func (s *Synchronizer) Enroll(ctx context.Context, studentID, cohortID, tenantID string) Result {
	cohort, err := s.cohorts.GetByAnyID(ctx, tenantID, cohortID)
	if err == mongo.ErrNoDocuments {
		return fail("cohort %s not found by id or batch key", cohortID)
	}
	if err != nil {
		return fail("loading cohort %s: %v", cohortID, err)
	}
	return s.addResolved(ctx, tenantID, cohort, studentID)
}

// addResolved applies the two-sided add against an already-loaded cohort.
// The cohort-side and student-side writes are independent; an error on one
// side is recorded and the other side is still attempted.
func (s *Synchronizer) addResolved(ctx context.Context, tenantID string, cohort *models.Cohort, studentID string) Result {
	student, err := s.students.GetByStudentID(ctx, tenantID, studentID)
	if err == mongo.ErrNoDocuments {
		return fail("student %s not found", studentID)
	}
	if err != nil {
		return fail("loading student %s: %v", studentID, err)
	}

	var res Result

	n, err := s.cohorts.AddMember(ctx, tenantID, cohort.CohortID, models.MemberRef{
		StudentID: studentID,
		Name:      student.DisplayName(),
	})
	res.UpdatedCount += n
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("cohort roster update: %v", err))
	}

	n, err = s.students.AddMembership(ctx, tenantID, studentID, cohort.CohortID)
	res.UpdatedCount += n
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("student membership update: %v", err))
	}

	res.Success = len(res.Errors) == 0
	if !res.Success {
		s.log.Warn("membership add left sides inconsistent",
			zap.String("cohort_id", cohort.CohortID),
			zap.String("student_id", studentID),
			zap.String("tenant_id", tenantID),
			zap.Strings("errors", res.Errors))
	}
	return res
}

// RemoveFromCohort withdraws the student from the cohort: the student id
// leaves the id roster, name roster, and waitlist, and the cohort leaves the
// student's membership set. If the removed cohort was the student's primary,
// the primary moves to the first remaining membership, or is cleared when
// none remain.
//
// The student record may already be gone (cascade deletion of a student uses
// this operation to strip roster references); in that case only the cohort
// side is written.
func (s *Synchronizer) RemoveFromCohort(ctx context.Context, cohortID, studentID, tenantID string) Result {
	var res Result

	if _, err := s.cohorts.GetByCohortID(ctx, tenantID, cohortID); err == mongo.ErrNoDocuments {
		res.Errors = append(res.Errors, fmt.Sprintf("cohort %s not found", cohortID))
	} else if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("loading cohort %s: %v", cohortID, err))
	} else {
		n, err := s.cohorts.RemoveMember(ctx, tenantID, cohortID, studentID)
		res.UpdatedCount += n
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("cohort roster update: %v", err))
		}
	}

	student, err := s.students.GetByStudentID(ctx, tenantID, studentID)
	if err == mongo.ErrNoDocuments {
		// Deletion flow: nothing left to update on the student side.
		res.Success = len(res.Errors) == 0
		return res
	}
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("loading student %s: %v", studentID, err))
		res.Success = false
		return res
	}

	n, err := s.students.RemoveMembership(ctx, tenantID, studentID, cohortID)
	res.UpdatedCount += n
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("student membership update: %v", err))
	}

	if student.PrimaryCohort == cohortID {
		// Deterministic reassignment: first remaining element of the set.
		next := ""
		for _, id := range student.CohortIDs {
			if id != cohortID {
				next = id
				break
			}
		}
		n, err := s.students.SetPrimaryCohort(ctx, tenantID, studentID, next)
		res.UpdatedCount += n
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("primary cohort reassignment: %v", err))
		}
	}

	res.Success = len(res.Errors) == 0
	if !res.Success {
		s.log.Warn("membership remove left sides inconsistent",
			zap.String("cohort_id", cohortID),
			zap.String("student_id", studentID),
			zap.String("tenant_id", tenantID),
			zap.Strings("errors", res.Errors))
	}
	return res
}

// SetMembership declaratively reconciles the cohort's membership to exactly
// desiredStudentIDs. The current membership is derived from the student
// records, then only the symmetric difference is applied through
// AddToCohort/RemoveFromCohort — overwriting the roster array directly would
// orphan the student-side fields.
func (s *Synchronizer) SetMembership(ctx context.Context, cohortID string, desiredStudentIDs []string, tenantID string) Result {
	if _, err := s.cohorts.GetByCohortID(ctx, tenantID, cohortID); err == mongo.ErrNoDocuments {
		return fail("cohort %s not found", cohortID)
	} else if err != nil {
		return fail("loading cohort %s: %v", cohortID, err)
	}

	current, err := s.students.MemberIDsOf(ctx, tenantID, cohortID)
	if err != nil {
		return fail("deriving current membership of %s: %v", cohortID, err)
	}

	toAdd, toRemove := diff(desiredStudentIDs, current)

	var res Result
	res.Success = true
	for _, studentID := range toAdd {
		r := s.AddToCohort(ctx, cohortID, studentID, tenantID)
		res.UpdatedCount += r.UpdatedCount
		res.Errors = append(res.Errors, r.Errors...)
	}
	for _, studentID := range toRemove {
		r := s.RemoveFromCohort(ctx, cohortID, studentID, tenantID)
		res.UpdatedCount += r.UpdatedCount
		res.Errors = append(res.Errors, r.Errors...)
	}
	res.Success = len(res.Errors) == 0
	return res
}

// diff computes the symmetric difference between the desired and current
// membership: elements to add keep desired order, elements to remove keep
// current order, duplicates collapse.
func diff(desired, current []string) (toAdd, toRemove []string) {
	currentSet := make(map[string]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}
	desiredSet := make(map[string]bool, len(desired))
	for _, id := range desired {
		if desiredSet[id] {
			continue
		}
		desiredSet[id] = true
		if !currentSet[id] {
			toAdd = append(toAdd, id)
		}
	}
	seen := make(map[string]bool, len(current))
	for _, id := range current {
		if seen[id] {
			continue
		}
		seen[id] = true
		if !desiredSet[id] {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}
