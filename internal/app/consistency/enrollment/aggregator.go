// internal/app/consistency/enrollment/aggregator.go

// Package enrollment computes read-only enrollment rollups for reporting. It
// walks cohort and course records and sums roster sizes against declared
// capacities; it writes nothing and carries no consistency obligation beyond
// reading the possibly momentarily stale data the engine maintains.
package enrollment

import (
	"context"

	cohortstore "github.com/UniqBrio/academyhub/internal/app/store/cohorts"
	coursestore "github.com/UniqBrio/academyhub/internal/app/store/courses"
	"go.mongodb.org/mongo-driver/mongo"
)

// CohortFill is one cohort's contribution to a course rollup.
type CohortFill struct {
	CohortID string `json:"cohort_id"`
	Name     string `json:"name"`
	Enrolled int    `json:"enrolled"`
	Capacity int    `json:"capacity"`
}

// Summary is the enrollment rollup for one course.
type Summary struct {
	CourseID      string       `json:"course_id"`
	CourseName    string       `json:"course_name,omitempty"`
	Enrolled      int          `json:"enrolled"`
	Capacity      int          `json:"capacity"`
	Rate          float64      `json:"rate"`
	ActiveCohorts int          `json:"active_cohorts"`
	PerCohort     []CohortFill `json:"per_cohort"`
}

// Aggregator computes enrollment rollups.
type Aggregator struct {
	cohorts *cohortstore.Store
	courses *coursestore.Store
}

func New(db *mongo.Database) *Aggregator {
	return &Aggregator{
		cohorts: cohortstore.New(db),
		courses: coursestore.New(db),
	}
}

// CourseEnrollment sums roster sizes and capacities across the active cohorts
// referencing the course. Rate is enrolled/capacity, zero when no capacity is
// declared.
func (a *Aggregator) CourseEnrollment(ctx context.Context, courseID, tenantID string) (Summary, error) {
	sum := Summary{CourseID: courseID, PerCohort: []CohortFill{}}

	if course, err := a.courses.GetByCourseID(ctx, tenantID, courseID); err == nil {
		sum.CourseName = course.Name
	} else if err != mongo.ErrNoDocuments {
		return Summary{}, err
	}

	cohorts, err := a.cohorts.FindActiveByCourse(ctx, tenantID, courseID)
	if err != nil {
		return Summary{}, err
	}

	for _, c := range cohorts {
		fill := CohortFill{
			CohortID: c.CohortID,
			Name:     c.Name,
			Enrolled: len(c.Members),
			Capacity: c.Capacity,
		}
		sum.Enrolled += fill.Enrolled
		sum.Capacity += fill.Capacity
		sum.PerCohort = append(sum.PerCohort, fill)
	}
	sum.ActiveCohorts = len(cohorts)
	if sum.Capacity > 0 {
		sum.Rate = float64(sum.Enrolled) / float64(sum.Capacity)
	}
	return sum, nil
}

// AllEnrollments discovers every course referenced by an active cohort and
// computes its rollup.
func (a *Aggregator) AllEnrollments(ctx context.Context, tenantID string) ([]Summary, error) {
	courseIDs, err := a.cohorts.DistinctCourseIDs(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(courseIDs))
	for _, id := range courseIDs {
		sum, err := a.CourseEnrollment(ctx, id, tenantID)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, nil
}
