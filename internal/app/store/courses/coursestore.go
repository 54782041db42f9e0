// internal/app/store/courses/coursestore.go
package coursestore

import (
	"context"

	"github.com/UniqBrio/academyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("courses")}
}

// GetByCourseID loads a course by business key within a tenant.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByCourseID(ctx context.Context, tenantID, courseID string) (*models.Course, error) {
	var c models.Course
	if err := s.c.FindOne(ctx, bson.M{"tenant_id": tenantID, "course_id": courseID}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
