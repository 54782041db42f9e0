package rostersync_test

import (
	"reflect"
	"sort"
	"testing"

	"github.com/UniqBrio/academyhub/internal/app/consistency/rostersync"
	"github.com/UniqBrio/academyhub/internal/domain/models"
	"github.com/UniqBrio/academyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func loadCohort(t *testing.T, db *mongo.Database, tenantID, cohortID string) models.Cohort {
	t.Helper()
	var c models.Cohort
	if err := db.Collection("cohorts").FindOne(t.Context(), bson.M{"tenant_id": tenantID, "cohort_id": cohortID}).Decode(&c); err != nil {
		t.Fatalf("loading cohort %s: %v", cohortID, err)
	}
	return c
}

func loadStudent(t *testing.T, db *mongo.Database, tenantID, studentID string) models.Student {
	t.Helper()
	var s models.Student
	if err := db.Collection("students").FindOne(t.Context(), bson.M{"tenant_id": tenantID, "student_id": studentID}).Decode(&s); err != nil {
		t.Fatalf("loading student %s: %v", studentID, err)
	}
	return s
}

func TestAddToCohort(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCohort(ctx, "t1", "B1", "Piano Morning", "CR1")
	fixtures.CreateStudent(ctx, "t1", "S1", "Amy Lee")

	sync := rostersync.New(db, zap.NewNop())
	res := sync.AddToCohort(ctx, "B1", "S1", "t1")
	if !res.Success {
		t.Fatalf("AddToCohort failed: %v", res.Errors)
	}

	cohort := loadCohort(t, db, "t1", "B1")
	if !reflect.DeepEqual(cohort.Members, []string{"S1"}) {
		t.Errorf("members = %v, want [S1]", cohort.Members)
	}
	if len(cohort.MemberNames) != 1 || cohort.MemberNames[0] != (models.MemberRef{StudentID: "S1", Name: "Amy Lee"}) {
		t.Errorf("member_names = %v", cohort.MemberNames)
	}

	student := loadStudent(t, db, "t1", "S1")
	if student.PrimaryCohort != "B1" {
		t.Errorf("primary_cohort = %q, want B1", student.PrimaryCohort)
	}
	if !reflect.DeepEqual(student.CohortIDs, []string{"B1"}) {
		t.Errorf("cohort_ids = %v, want [B1]", student.CohortIDs)
	}
}

func TestAddToCohort_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCohort(ctx, "t1", "B1", "Piano Morning", "CR1")
	fixtures.CreateStudent(ctx, "t1", "S1", "Amy Lee")

	sync := rostersync.New(db, zap.NewNop())
	for i := 0; i < 2; i++ {
		if res := sync.AddToCohort(ctx, "B1", "S1", "t1"); !res.Success {
			t.Fatalf("AddToCohort call %d failed: %v", i+1, res.Errors)
		}
	}

	cohort := loadCohort(t, db, "t1", "B1")
	if !reflect.DeepEqual(cohort.Members, []string{"S1"}) {
		t.Errorf("members = %v, want exactly [S1]", cohort.Members)
	}
	if len(cohort.MemberNames) != 1 {
		t.Errorf("member_names has %d entries, want exactly 1: %v", len(cohort.MemberNames), cohort.MemberNames)
	}

	student := loadStudent(t, db, "t1", "S1")
	if !reflect.DeepEqual(student.CohortIDs, []string{"B1"}) {
		t.Errorf("cohort_ids = %v, want exactly [B1]", student.CohortIDs)
	}
}

func TestAddToCohort_RefreshesStaleNamePair(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCohort(ctx, "t1", "B1", "Piano Morning", "CR1")
	fixtures.CreateStudent(ctx, "t1", "S1", "Amy Lee")

	sync := rostersync.New(db, zap.NewNop())
	if res := sync.AddToCohort(ctx, "B1", "S1", "t1"); !res.Success {
		t.Fatalf("first add failed: %v", res.Errors)
	}

	// The student is renamed between the two adds; the second add must
	// replace the stale pair instead of stacking a second one.
	if _, err := db.Collection("students").UpdateOne(ctx,
		bson.M{"tenant_id": "t1", "student_id": "S1"},
		bson.M{"$set": bson.M{"name": "Amy Chen"}}); err != nil {
		t.Fatalf("renaming student: %v", err)
	}
	if res := sync.AddToCohort(ctx, "B1", "S1", "t1"); !res.Success {
		t.Fatalf("second add failed: %v", res.Errors)
	}

	cohort := loadCohort(t, db, "t1", "B1")
	if len(cohort.MemberNames) != 1 || cohort.MemberNames[0].Name != "Amy Chen" {
		t.Errorf("member_names = %v, want single pair with refreshed name", cohort.MemberNames)
	}
}

func TestAddToCohort_NotFoundReported(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCohort(ctx, "t1", "B1", "Piano Morning", "CR1")

	sync := rostersync.New(db, zap.NewNop())

	if res := sync.AddToCohort(ctx, "B1", "ghost", "t1"); res.Success {
		t.Error("expected failure for unknown student")
	}
	if res := sync.AddToCohort(ctx, "ghost", "S1", "t1"); res.Success {
		t.Error("expected failure for unknown cohort")
	}
}

func TestAddToCohort_TenantIsolation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Identical ids in two tenants.
	fixtures.CreateCohort(ctx, "t1", "B1", "Piano Morning", "CR1")
	fixtures.CreateStudent(ctx, "t1", "S1", "Amy Lee")
	fixtures.CreateCohort(ctx, "t2", "B1", "Piano Morning", "CR1")
	fixtures.CreateStudent(ctx, "t2", "S1", "Amy Lee")

	sync := rostersync.New(db, zap.NewNop())
	if res := sync.AddToCohort(ctx, "B1", "S1", "t1"); !res.Success {
		t.Fatalf("AddToCohort failed: %v", res.Errors)
	}

	other := loadCohort(t, db, "t2", "B1")
	if len(other.Members) != 0 {
		t.Errorf("tenant t2 roster was touched: %v", other.Members)
	}
	otherStudent := loadStudent(t, db, "t2", "S1")
	if otherStudent.PrimaryCohort != "" || len(otherStudent.CohortIDs) != 0 {
		t.Errorf("tenant t2 student was touched: %+v", otherStudent)
	}
}

func TestRemoveFromCohort_PrimaryReassigned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCohort(ctx, "t1", "B1", "Piano Morning", "CR1")
	fixtures.CreateCohort(ctx, "t1", "B2", "Piano Evening", "CR1")
	fixtures.CreateStudent(ctx, "t1", "S1", "Amy Lee")

	sync := rostersync.New(db, zap.NewNop())
	// Join B2 first so B1, added last, is the primary.
	if res := sync.AddToCohort(ctx, "B2", "S1", "t1"); !res.Success {
		t.Fatalf("add to B2 failed: %v", res.Errors)
	}
	if res := sync.AddToCohort(ctx, "B1", "S1", "t1"); !res.Success {
		t.Fatalf("add to B1 failed: %v", res.Errors)
	}

	if res := sync.RemoveFromCohort(ctx, "B1", "S1", "t1"); !res.Success {
		t.Fatalf("RemoveFromCohort failed: %v", res.Errors)
	}

	student := loadStudent(t, db, "t1", "S1")
	if student.PrimaryCohort != "B2" {
		t.Errorf("primary_cohort = %q, want B2", student.PrimaryCohort)
	}
	if !reflect.DeepEqual(student.CohortIDs, []string{"B2"}) {
		t.Errorf("cohort_ids = %v, want [B2]", student.CohortIDs)
	}

	b1 := loadCohort(t, db, "t1", "B1")
	if len(b1.Members) != 0 || len(b1.MemberNames) != 0 {
		t.Errorf("B1 roster not emptied: %v / %v", b1.Members, b1.MemberNames)
	}
	b2 := loadCohort(t, db, "t1", "B2")
	if !reflect.DeepEqual(b2.Members, []string{"S1"}) {
		t.Errorf("B2 roster affected: %v", b2.Members)
	}
}

func TestRemoveFromCohort_LastCohortClearsPrimary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCohort(ctx, "t1", "B1", "Piano Morning", "CR1")
	fixtures.CreateStudent(ctx, "t1", "S1", "Amy Lee")

	sync := rostersync.New(db, zap.NewNop())
	if res := sync.AddToCohort(ctx, "B1", "S1", "t1"); !res.Success {
		t.Fatalf("add failed: %v", res.Errors)
	}
	if res := sync.RemoveFromCohort(ctx, "B1", "S1", "t1"); !res.Success {
		t.Fatalf("remove failed: %v", res.Errors)
	}

	student := loadStudent(t, db, "t1", "S1")
	if student.PrimaryCohort != "" {
		t.Errorf("primary_cohort = %q, want cleared", student.PrimaryCohort)
	}
	if len(student.CohortIDs) != 0 {
		t.Errorf("cohort_ids = %v, want empty", student.CohortIDs)
	}
}

func TestRemoveFromCohort_StripsWaitlist(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCohort(ctx, "t1", "B1", "Piano Morning", "CR1")
	fixtures.CreateStudent(ctx, "t1", "S1", "Amy Lee")
	if _, err := db.Collection("cohorts").UpdateOne(ctx,
		bson.M{"tenant_id": "t1", "cohort_id": "B1"},
		bson.M{"$set": bson.M{"waitlist": []string{"S1", "S2"}}}); err != nil {
		t.Fatalf("seeding waitlist: %v", err)
	}

	sync := rostersync.New(db, zap.NewNop())
	if res := sync.RemoveFromCohort(ctx, "B1", "S1", "t1"); !res.Success {
		t.Fatalf("remove failed: %v", res.Errors)
	}

	cohort := loadCohort(t, db, "t1", "B1")
	if !reflect.DeepEqual(cohort.Waitlist, []string{"S2"}) {
		t.Errorf("waitlist = %v, want [S2]", cohort.Waitlist)
	}
}

func TestRemoveFromCohort_DeletedStudent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCohort(ctx, "t1", "B1", "Piano Morning", "CR1")
	if _, err := db.Collection("cohorts").UpdateOne(ctx,
		bson.M{"tenant_id": "t1", "cohort_id": "B1"},
		bson.M{"$set": bson.M{
			"members":      []string{"S1"},
			"member_names": []bson.M{{"student_id": "S1", "name": "Amy Lee"}},
		}}); err != nil {
		t.Fatalf("seeding roster: %v", err)
	}

	// No student document exists: the cascade-deletion flow still strips
	// the roster references.
	sync := rostersync.New(db, zap.NewNop())
	res := sync.RemoveFromCohort(ctx, "B1", "S1", "t1")
	if !res.Success {
		t.Fatalf("remove failed: %v", res.Errors)
	}

	cohort := loadCohort(t, db, "t1", "B1")
	if len(cohort.Members) != 0 || len(cohort.MemberNames) != 0 {
		t.Errorf("roster not stripped: %v / %v", cohort.Members, cohort.MemberNames)
	}
}

func TestEnroll_LegacyBatchKeyFallback(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateLegacyCohort(ctx, "t1", "B7", "LEGACY-07", "Guitar Evening")
	fixtures.CreateStudent(ctx, "t1", "S1", "Amy Lee")

	sync := rostersync.New(db, zap.NewNop())
	res := sync.Enroll(ctx, "S1", "LEGACY-07", "t1")
	if !res.Success {
		t.Fatalf("Enroll via batch key failed: %v", res.Errors)
	}

	// Membership is recorded under the canonical cohort id.
	cohort := loadCohort(t, db, "t1", "B7")
	if !reflect.DeepEqual(cohort.Members, []string{"S1"}) {
		t.Errorf("members = %v, want [S1]", cohort.Members)
	}
	student := loadStudent(t, db, "t1", "S1")
	if student.PrimaryCohort != "B7" {
		t.Errorf("primary_cohort = %q, want B7", student.PrimaryCohort)
	}
}

func TestSetMembership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCohort(ctx, "t1", "B1", "Piano Morning", "CR1")
	for _, id := range []string{"a", "b", "c", "d"} {
		fixtures.CreateStudent(ctx, "t1", id, "Student "+id)
	}

	sync := rostersync.New(db, zap.NewNop())
	for _, id := range []string{"a", "d"} {
		if res := sync.AddToCohort(ctx, "B1", id, "t1"); !res.Success {
			t.Fatalf("seeding member %s failed: %v", id, res.Errors)
		}
	}

	res := sync.SetMembership(ctx, "B1", []string{"a", "b", "c"}, "t1")
	if !res.Success {
		t.Fatalf("SetMembership failed: %v", res.Errors)
	}

	cohort := loadCohort(t, db, "t1", "B1")
	got := append([]string(nil), cohort.Members...)
	sort.Strings(got)
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("members = %v, want {a,b,c}", cohort.Members)
	}

	// d's student-side fields were cleaned up, a's untouched.
	d := loadStudent(t, db, "t1", "d")
	if len(d.CohortIDs) != 0 || d.PrimaryCohort != "" {
		t.Errorf("removed student still references cohort: %+v", d)
	}
	a := loadStudent(t, db, "t1", "a")
	if !reflect.DeepEqual(a.CohortIDs, []string{"B1"}) {
		t.Errorf("kept student's membership changed: %v", a.CohortIDs)
	}
}

func TestSetMembership_NoChanges(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCohort(ctx, "t1", "B1", "Piano Morning", "CR1")
	fixtures.CreateStudent(ctx, "t1", "S1", "Amy Lee")

	sync := rostersync.New(db, zap.NewNop())
	if res := sync.AddToCohort(ctx, "B1", "S1", "t1"); !res.Success {
		t.Fatalf("add failed: %v", res.Errors)
	}

	res := sync.SetMembership(ctx, "B1", []string{"S1"}, "t1")
	if !res.Success {
		t.Fatalf("SetMembership failed: %v", res.Errors)
	}
	if res.UpdatedCount != 0 {
		t.Errorf("UpdatedCount = %d, want 0 when membership already matches", res.UpdatedCount)
	}
}
