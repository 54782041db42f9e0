package cohortstore_test

import (
	"reflect"
	"sort"
	"testing"

	cohortstore "github.com/UniqBrio/academyhub/internal/app/store/cohorts"
	"github.com/UniqBrio/academyhub/internal/domain/models"
	"github.com/UniqBrio/academyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_AddMember_NoDuplicatePairs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := cohortstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCohort(ctx, "t1", "B1", "Piano Morning", "CR1")

	ref := models.MemberRef{StudentID: "S1", Name: "Amy Lee"}
	if _, err := store.AddMember(ctx, "t1", "B1", ref); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if _, err := store.AddMember(ctx, "t1", "B1", ref); err != nil {
		t.Fatalf("second AddMember failed: %v", err)
	}

	c, err := store.GetByCohortID(ctx, "t1", "B1")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reflect.DeepEqual(c.Members, []string{"S1"}) {
		t.Errorf("members = %v, want exactly [S1]", c.Members)
	}
	if len(c.MemberNames) != 1 {
		t.Errorf("member_names = %v, want exactly one pair", c.MemberNames)
	}
}

func TestStore_RemoveMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := cohortstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCohort(ctx, "t1", "B1", "Piano Morning", "CR1")
	for _, ref := range []models.MemberRef{
		{StudentID: "S1", Name: "Amy Lee"},
		{StudentID: "S2", Name: "Bob Ray"},
	} {
		if _, err := store.AddMember(ctx, "t1", "B1", ref); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
	}

	if _, err := store.RemoveMember(ctx, "t1", "B1", "S1"); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}

	c, err := store.GetByCohortID(ctx, "t1", "B1")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reflect.DeepEqual(c.Members, []string{"S2"}) {
		t.Errorf("members = %v, want [S2]", c.Members)
	}
	if len(c.MemberNames) != 1 || c.MemberNames[0].StudentID != "S2" {
		t.Errorf("member_names = %v, want only S2's pair", c.MemberNames)
	}
}

func TestStore_SetMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := cohortstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCohort(ctx, "t1", "B1", "Piano Morning", "CR1")
	if _, err := store.AddMember(ctx, "t1", "B1", models.MemberRef{StudentID: "S9", Name: "Old"}); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	if _, err := store.SetMembers(ctx, "t1", "B1", []string{"S1", "S2"}); err != nil {
		t.Fatalf("SetMembers failed: %v", err)
	}
	c, err := store.GetByCohortID(ctx, "t1", "B1")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reflect.DeepEqual(c.Members, []string{"S1", "S2"}) {
		t.Errorf("members = %v, want [S1 S2]", c.Members)
	}

	// nil collapses to an empty roster, not a missing field.
	if _, err := store.SetMembers(ctx, "t1", "B1", nil); err != nil {
		t.Fatalf("SetMembers(nil) failed: %v", err)
	}
	c, err = store.GetByCohortID(ctx, "t1", "B1")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if c.Members == nil || len(c.Members) != 0 {
		t.Errorf("members = %v, want empty slice", c.Members)
	}
}

func TestStore_GetByAnyID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := cohortstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateLegacyCohort(ctx, "t1", "B7", "LEGACY-07", "Guitar Evening")

	byCanonical, err := store.GetByAnyID(ctx, "t1", "B7")
	if err != nil {
		t.Fatalf("lookup by canonical id failed: %v", err)
	}
	byLegacy, err := store.GetByAnyID(ctx, "t1", "LEGACY-07")
	if err != nil {
		t.Fatalf("lookup by batch key failed: %v", err)
	}
	if byCanonical.ID != byLegacy.ID {
		t.Error("canonical and legacy lookups resolved different documents")
	}

	if _, err := store.GetByAnyID(ctx, "t1", "ghost"); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_DistinctCourseIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := cohortstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateCohort(ctx, "t1", "B1", "Piano Morning", "CR1")
	fixtures.CreateCohort(ctx, "t1", "B2", "Piano Evening", "CR1")
	fixtures.CreateCohort(ctx, "t1", "B3", "Violin Morning", "CR2")
	fixtures.CreateCohort(ctx, "t1", "B4", "Open Practice", "")
	fixtures.CreateCohort(ctx, "t2", "B5", "Drums", "CR9")

	ids, err := store.DistinctCourseIDs(ctx, "t1")
	if err != nil {
		t.Fatalf("DistinctCourseIDs failed: %v", err)
	}
	sort.Strings(ids)
	if !reflect.DeepEqual(ids, []string{"CR1", "CR2"}) {
		t.Errorf("course ids = %v, want [CR1 CR2]", ids)
	}
}
