// internal/domain/models/student.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/UniqBrio/academyhub/internal/app/system/names"
)

// Record statuses shared by students and cohorts.
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// Student is the canonical record for a learner.
//
// NOTE:
//   - StudentID is the business key; every cross-collection reference uses it,
//     never the Mongo _id.
//   - CohortIDs is the single logical membership set. The legacy data kept two
//     parallel membership fields; they are collapsed into this one.
//   - PrimaryCohort, when set, must be an element of CohortIDs. The roster
//     synchronizer maintains this; the reconciliation sweep repairs drift.
//   - Name, EnrolledCourseName and ReferringStudentName are denormalized copies
//     that the cascade updater keeps aligned with their canonical sources.
type Student struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID string             `bson:"tenant_id" json:"tenant_id"`

	StudentID  string `bson:"student_id" json:"student_id"`
	FirstName  string `bson:"first_name" json:"first_name"`
	MiddleName string `bson:"middle_name,omitempty" json:"middle_name,omitempty"`
	LastName   string `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Name       string `bson:"name" json:"name"`
	NameCI     string `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped
	Email      string `bson:"email,omitempty" json:"email,omitempty"`
	Category   string `bson:"category,omitempty" json:"category,omitempty"`
	CourseType string `bson:"course_type,omitempty" json:"course_type,omitempty"`

	EnrolledCourse     string `bson:"enrolled_course,omitempty" json:"enrolled_course,omitempty"`
	EnrolledCourseName string `bson:"enrolled_course_name,omitempty" json:"enrolled_course_name,omitempty"`

	ReferringStudentID   string `bson:"referring_student_id,omitempty" json:"referring_student_id,omitempty"`
	ReferringStudentName string `bson:"referring_student_name,omitempty" json:"referring_student_name,omitempty"`

	PrimaryCohort string   `bson:"primary_cohort,omitempty" json:"primary_cohort,omitempty"`
	CohortIDs     []string `bson:"cohort_ids,omitempty" json:"cohort_ids,omitempty"`

	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// DisplayName returns the stored display name, or composes one from the
// name parts when older records never had it materialized.
func (s *Student) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return names.Display(s.FirstName, s.MiddleName, s.LastName)
}
