// internal/domain/models/cohort.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberRef is one entry of a cohort's name roster: the student's business key
// paired with a denormalized copy of their current display name.
type MemberRef struct {
	StudentID string `bson:"student_id" json:"student_id"`
	Name      string `bson:"name" json:"name"`
}

// Cohort is a scheduled class section students are enrolled into.
//
// The roster is stored redundantly: Members holds student ids (set semantics,
// no duplicates) and MemberNames holds {student_id, name} pairs kept in sync
// with it. Both sides of the student/cohort relationship are written by the
// roster synchronizer; the reconciliation sweep re-derives Members from the
// student records when the two sides drift.
//
// BatchID is a legacy alternate key: cohort documents imported from the old
// system may be addressable only by it. Enrollment falls back to it when a
// lookup by CohortID finds nothing.
type Cohort struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID string             `bson:"tenant_id" json:"tenant_id"`

	CohortID string `bson:"cohort_id" json:"cohort_id"`
	BatchID  string `bson:"batch_id,omitempty" json:"batch_id,omitempty"`
	Name     string `bson:"name" json:"name"`
	NameCI   string `bson:"name_ci" json:"name_ci"`

	CourseID   string `bson:"course_id,omitempty" json:"course_id,omitempty"`
	Instructor string `bson:"instructor,omitempty" json:"instructor,omitempty"` // denormalized display name

	Members     []string    `bson:"members,omitempty" json:"members,omitempty"`
	MemberNames []MemberRef `bson:"member_names,omitempty" json:"member_names,omitempty"`
	Waitlist    []string    `bson:"waitlist,omitempty" json:"waitlist,omitempty"`

	Capacity int    `bson:"capacity,omitempty" json:"capacity,omitempty"`
	Status   string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
