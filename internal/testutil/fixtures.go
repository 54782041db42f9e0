package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/UniqBrio/academyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateStudent creates an active student with no cohort memberships.
func (f *Fixtures) CreateStudent(ctx context.Context, tenantID, studentID, name string) models.Student {
	return f.CreateStudentInCohorts(ctx, tenantID, studentID, name, "", nil)
}

// CreateStudentInCohorts creates an active student with the given primary
// cohort and membership set.
func (f *Fixtures) CreateStudentInCohorts(ctx context.Context, tenantID, studentID, name, primary string, cohortIDs []string) models.Student {
	f.t.Helper()

	now := time.Now().UTC()
	s := models.Student{
		ID:            primitive.NewObjectID(),
		TenantID:      tenantID,
		StudentID:     studentID,
		FirstName:     name,
		Name:          name,
		NameCI:        text.Fold(name),
		PrimaryCohort: primary,
		CohortIDs:     cohortIDs,
		Status:        models.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("students").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test student: %v", err)
	}
	return s
}

// CreateCohort creates an active cohort with an empty roster.
func (f *Fixtures) CreateCohort(ctx context.Context, tenantID, cohortID, name, courseID string) models.Cohort {
	return f.createCohort(ctx, tenantID, cohortID, "", name, courseID, 0)
}

// CreateCohortWithCapacity creates an active cohort with a declared capacity.
func (f *Fixtures) CreateCohortWithCapacity(ctx context.Context, tenantID, cohortID, name, courseID string, capacity int) models.Cohort {
	return f.createCohort(ctx, tenantID, cohortID, "", name, courseID, capacity)
}

// CreateLegacyCohort creates a cohort that also carries the legacy batch key,
// for exercising the enrollment fallback lookup.
func (f *Fixtures) CreateLegacyCohort(ctx context.Context, tenantID, cohortID, batchID, name string) models.Cohort {
	return f.createCohort(ctx, tenantID, cohortID, batchID, name, "", 0)
}

func (f *Fixtures) createCohort(ctx context.Context, tenantID, cohortID, batchID, name, courseID string, capacity int) models.Cohort {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Cohort{
		ID:        primitive.NewObjectID(),
		TenantID:  tenantID,
		CohortID:  cohortID,
		BatchID:   batchID,
		Name:      name,
		NameCI:    text.Fold(name),
		CourseID:  courseID,
		Capacity:  capacity,
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("cohorts").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test cohort: %v", err)
	}
	return c
}

// CreateCourse creates an active course.
func (f *Fixtures) CreateCourse(ctx context.Context, tenantID, courseID, name, instructor string) models.Course {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Course{
		ID:         primitive.NewObjectID(),
		TenantID:   tenantID,
		CourseID:   courseID,
		Name:       name,
		NameCI:     text.Fold(name),
		Instructor: instructor,
		Status:     models.StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("courses").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test course: %v", err)
	}
	return c
}

// CreateInstructor creates an active instructor with the given cohort refs.
func (f *Fixtures) CreateInstructor(ctx context.Context, tenantID, instructorID, name string, cohorts []models.CohortRef) models.Instructor {
	f.t.Helper()

	now := time.Now().UTC()
	i := models.Instructor{
		ID:           primitive.NewObjectID(),
		TenantID:     tenantID,
		InstructorID: instructorID,
		FirstName:    name,
		Name:         name,
		NameCI:       text.Fold(name),
		Cohorts:      cohorts,
		Status:       models.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("instructors").InsertOne(ctx, i); err != nil {
		f.t.Fatalf("failed to create test instructor: %v", err)
	}
	return i
}

// CreateNonInstructor creates an active non-teaching staff member.
func (f *Fixtures) CreateNonInstructor(ctx context.Context, tenantID, staffID, name string) models.NonInstructor {
	f.t.Helper()

	now := time.Now().UTC()
	n := models.NonInstructor{
		ID:        primitive.NewObjectID(),
		TenantID:  tenantID,
		StaffID:   staffID,
		FirstName: name,
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    models.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("noninstructors").InsertOne(ctx, n); err != nil {
		f.t.Fatalf("failed to create test staff member: %v", err)
	}
	return n
}

// SeedRow inserts one raw document into the named collection. Used by cascade
// tests to lay out dependent rows without a typed fixture per collection.
func (f *Fixtures) SeedRow(ctx context.Context, collection string, doc bson.M) {
	f.t.Helper()
	if _, err := f.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to seed %s row: %v", collection, err)
	}
}

// Count returns the number of documents in collection matching filter.
func (f *Fixtures) Count(ctx context.Context, collection string, filter bson.M) int64 {
	f.t.Helper()
	n, err := f.db.Collection(collection).CountDocuments(ctx, filter)
	if err != nil {
		f.t.Fatalf("CountDocuments on %s failed: %v", collection, err)
	}
	return n
}
