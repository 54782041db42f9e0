// internal/domain/models/instructor.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CohortRef pairs a cohort's business key with a denormalized copy of its
// display name. The legacy data kept two comma-joined strings aligned by
// index; structured pairs replace that so a cascade can update one entry
// without re-splitting the whole list.
type CohortRef struct {
	CohortID string `bson:"cohort_id" json:"cohort_id"`
	Name     string `bson:"name" json:"name"`
}

// Instructor is the canonical record for a teaching staff member.
type Instructor struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID string             `bson:"tenant_id" json:"tenant_id"`

	InstructorID string `bson:"instructor_id" json:"instructor_id"`
	FirstName    string `bson:"first_name" json:"first_name"`
	MiddleName   string `bson:"middle_name,omitempty" json:"middle_name,omitempty"`
	LastName     string `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Name         string `bson:"name" json:"name"`
	NameCI       string `bson:"name_ci" json:"name_ci"`
	Email        string `bson:"email,omitempty" json:"email,omitempty"`

	Cohorts []CohortRef `bson:"cohorts,omitempty" json:"cohorts,omitempty"`

	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// NonInstructor is a non-teaching staff member (front desk, accounts, admin).
type NonInstructor struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID string             `bson:"tenant_id" json:"tenant_id"`

	StaffID    string `bson:"staff_id" json:"staff_id"`
	FirstName  string `bson:"first_name" json:"first_name"`
	MiddleName string `bson:"middle_name,omitempty" json:"middle_name,omitempty"`
	LastName   string `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Name       string `bson:"name" json:"name"`
	NameCI     string `bson:"name_ci" json:"name_ci"`
	Role       string `bson:"role,omitempty" json:"role,omitempty"`

	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
