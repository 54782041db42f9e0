// internal/app/store/cohorts/cohortstore.go
package cohortstore

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
	return &Store{c: db.Collection("cohorts")}
}

// GetByCohortID loads a cohort by its canonical business key within a tenant.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByCohortID(ctx context.Context, tenantID, cohortID string) (*models.Cohort, error) {
	var c models.Cohort
	if err := s.c.FindOne(ctx, bson.M{"tenant_id": tenantID, "cohort_id": cohortID}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByAnyID loads a cohort by canonical id, falling back to the legacy
// batch key. Historical documents may only be addressable by batch_id.
func (s *Store) GetByAnyID(ctx context.Context, tenantID, id string) (*models.Cohort, error) {
	c, err := s.GetByCohortID(ctx, tenantID, id)
	if err == nil {
		return c, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}
	var legacy models.Cohort
	if err := s.c.FindOne(ctx, bson.M{"tenant_id": tenantID, "batch_id": id}).Decode(&legacy); err != nil {
		return nil, err
	}
	return &legacy, nil
}

// AddMember inserts the student into the id roster (set semantics) and the
// name roster. Any existing name-roster pair for the same student is removed
// first so repeated adds never produce duplicate pairs.
//
// The pull and the push are two writes: Mongo rejects $pull and $push on the
// same array field within one update document.
func (s *Store) AddMember(ctx context.Context, tenantID, cohortID string, ref models.MemberRef) (int64, error) {
	filter := bson.M{"tenant_id": tenantID, "cohort_id": cohortID}

	res1, err := s.c.UpdateOne(ctx, filter, bson.M{
		"$pull": bson.M{"member_names": bson.M{"student_id": ref.StudentID}},
	})
	if err != nil {
		return 0, err
	}

	res2, err := s.c.UpdateOne(ctx, filter, bson.M{
		"$addToSet": bson.M{"members": ref.StudentID},
		"$push":     bson.M{"member_names": ref},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return res1.ModifiedCount, err
	}
	return res1.ModifiedCount + res2.ModifiedCount, nil
}

// RemoveMember strips the student from the id roster, the name roster, and
// the waitlist in one write.
func (s *Store) RemoveMember(ctx context.Context, tenantID, cohortID, studentID string) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"tenant_id": tenantID, "cohort_id": cohortID},
		bson.M{
			"$pull": bson.M{
				"members":      studentID,
				"member_names": bson.M{"student_id": studentID},
				"waitlist":     studentID,
			},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// SetMembers wholesale-overwrites the id roster. Reconciliation only; every
// other path must go through AddMember/RemoveMember so the student-side
// fields stay paired.
func (s *Store) SetMembers(ctx context.Context, tenantID, cohortID string, memberIDs []string) (int64, error) {
	if memberIDs == nil {
		memberIDs = []string{}
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"tenant_id": tenantID, "cohort_id": cohortID},
		bson.M{"$set": bson.M{"members": memberIDs, "updated_at": time.Now().UTC()}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// FindActive returns the active cohorts of a tenant, projected to the fields
// sweeps and rollups read.
func (s *Store) FindActive(ctx context.Context, tenantID string) ([]models.Cohort, error) {
	return s.find(ctx, bson.M{"tenant_id": tenantID, "status": models.StatusActive})
}

// FindActiveByCourse returns the active cohorts referencing courseID.
func (s *Store) FindActiveByCourse(ctx context.Context, tenantID, courseID string) ([]models.Cohort, error) {
	return s.find(ctx, bson.M{"tenant_id": tenantID, "status": models.StatusActive, "course_id": courseID})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Cohort, error) {
	opts := options.Find().SetProjection(bson.M{
		"cohort_id": 1, "name": 1, "course_id": 1, "members": 1, "capacity": 1, "status": 1, "tenant_id": 1,
	})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Cohort
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tenants returns the distinct tenant ids that have cohorts. Used by the
// scheduled sweep to iterate tenants.
func (s *Store) Tenants(ctx context.Context) ([]string, error) {
	vals, err := s.c.Distinct(ctx, "tenant_id", bson.M{"tenant_id": bson.M{"$nin": bson.A{"", nil}}})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(vals))
	for _, v := range vals {
		if id, ok := v.(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// DistinctCourseIDs returns the distinct non-empty course ids referenced by
// any active cohort of the tenant.
func (s *Store) DistinctCourseIDs(ctx context.Context, tenantID string) ([]string, error) {
	vals, err := s.c.Distinct(ctx, "course_id", bson.M{
		"tenant_id": tenantID,
		"status":    models.StatusActive,
		"course_id": bson.M{"$nin": bson.A{"", nil}},
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(vals))
	for _, v := range vals {
		if id, ok := v.(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
