// internal/domain/models/course.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is the canonical course catalog entry. Instructor holds the
// instructor's display name only; course documents never stored the
// instructor's id, so cascade updates match this field by its old value.
type Course struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID string             `bson:"tenant_id" json:"tenant_id"`

	CourseID   string `bson:"course_id" json:"course_id"`
	Name       string `bson:"name" json:"name"`
	NameCI     string `bson:"name_ci" json:"name_ci"`
	Instructor string `bson:"instructor,omitempty" json:"instructor,omitempty"`
	Capacity   int    `bson:"capacity,omitempty" json:"capacity,omitempty"`
	Status     string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
