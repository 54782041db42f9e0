// internal/app/store/students/studentstore.go
package studentstore

// Terminology: Student Identifiers
//   - StudentID / student_id: the business key carried on every dependent row
//   - _id: the MongoDB ObjectID, never referenced across collections

import (
	"context"

	"time"

	"github.com/UniqBrio/academyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("students")}
}

// GetByStudentID loads a student by business key within a tenant.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByStudentID(ctx context.Context, tenantID, studentID string) (*models.Student, error) {
	var st models.Student
	if err := s.c.FindOne(ctx, bson.M{"tenant_id": tenantID, "student_id": studentID}).Decode(&st); err != nil {
		return nil, err
	}
	return &st, nil
}

// AddMembership adds cohortID to the student's membership set and makes it the
// primary cohort. $addToSet keeps the set free of duplicates on repeat calls.
func (s *Store) AddMembership(ctx context.Context, tenantID, studentID, cohortID string) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"tenant_id": tenantID, "student_id": studentID},
		bson.M{
			"$addToSet": bson.M{"cohort_ids": cohortID},
			"$set":      bson.M{"primary_cohort": cohortID, "updated_at": time.Now().UTC()},
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// RemoveMembership removes cohortID from the student's membership set.
// The primary cohort reference is not touched here; callers reassign it
// separately when the removed cohort was the primary.
func (s *Store) RemoveMembership(ctx context.Context, tenantID, studentID, cohortID string) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"tenant_id": tenantID, "student_id": studentID},
		bson.M{
			"$pull": bson.M{"cohort_ids": cohortID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// SetPrimaryCohort sets the student's primary cohort reference, or clears it
// when cohortID is empty.
func (s *Store) SetPrimaryCohort(ctx context.Context, tenantID, studentID, cohortID string) (int64, error) {
	update := bson.M{"$set": bson.M{"primary_cohort": cohortID, "updated_at": time.Now().UTC()}}
	if cohortID == "" {
		update = bson.M{
			"$unset": bson.M{"primary_cohort": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		}
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"tenant_id": tenantID, "student_id": studentID}, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// MemberIDsOf returns the ids of students whose membership set contains
// cohortID. This is the derived current membership used by declarative
// roster reconciliation.
func (s *Store) MemberIDsOf(ctx context.Context, tenantID, cohortID string) ([]string, error) {
	return s.projectIDs(ctx, bson.M{"tenant_id": tenantID, "cohort_ids": cohortID})
}

// AuthoritativeMemberIDs returns the ids of active students who belong to
// cohortID either by primary reference or by membership set. This query is
// the authoritative roster a reconciliation sweep rebuilds from.
func (s *Store) AuthoritativeMemberIDs(ctx context.Context, tenantID, cohortID string) ([]string, error) {
	return s.projectIDs(ctx, bson.M{
		"tenant_id": tenantID,
		"status":    bson.M{"$ne": models.StatusDeleted},
		"$or": bson.A{
			bson.M{"primary_cohort": cohortID},
			bson.M{"cohort_ids": cohortID},
		},
	})
}

func (s *Store) projectIDs(ctx context.Context, filter bson.M) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"student_id": 1})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var row struct {
			StudentID string `bson:"student_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.StudentID)
	}
	return ids, cur.Err()
}
