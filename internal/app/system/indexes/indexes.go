// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/UniqBrio/academyhub/internal/app/consistency/registry"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureStudents(ctx, db); err != nil {
		problems = append(problems, "students: "+err.Error())
	}
	if err := ensureCohorts(ctx, db); err != nil {
		problems = append(problems, "cohorts: "+err.Error())
	}
	if err := ensureCourses(ctx, db); err != nil {
		problems = append(problems, "courses: "+err.Error())
	}
	if err := ensureInstructors(ctx, db); err != nil {
		problems = append(problems, "instructors: "+err.Error())
	}
	if err := ensureNonInstructors(ctx, db); err != nil {
		problems = append(problems, "noninstructors: "+err.Error())
	}
	if err := ensureCascadeLookups(ctx, db); err != nil {
		problems = append(problems, "cascade lookups: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			if m.Options.Unique != nil {
				desiredUnique = m.Options.Unique
			}
		}
		desiredSig := keySig(m.Keys.(bson.D))

		start := time.Now()

		// Load existing indexes keyed by their key signature.
		existing := map[string]existingIndex{}
		cur, err := coll.Indexes().List(ctx)
		if err == nil {
			for cur.Next(ctx) {
				var idx existingIndex
				if err := cur.Decode(&idx); err != nil {
					zap.L().Warn("failed to decode existing index",
						zap.String("collection", coll.Name()),
						zap.Error(err))
					continue
				}
				existing[keySig(idx.Key)] = idx
			}
			cur.Close(ctx)
		}

		if ex, ok := existing[desiredSig]; ok {
			if sameBoolPtr(desiredUnique, ex.Unique) {
				continue
			}

			// Options mismatch (e.g., upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				zap.L().Warn("drop existing index failed",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
					errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
				} else {
					errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				}
				continue
			}
			zap.L().Info("index dropped and recreated",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()))
			continue
		}

		// No existing index with the same keys: create it.
		if created, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				// A same-keys index showed up under another name between our
				// List and CreateOne. Reuse it.
				zap.L().Info("reusing existing index (post-conflict)",
					zap.String("collection", coll.Name()),
					zap.String("keys", desiredSig))
				continue
			}
			if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
				continue
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		} else {
			zap.L().Info("index ensured",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("created_name", created),
				zap.String("keys", desiredSig),
				zap.Bool("unique", desiredUnique != nil && *desiredUnique),
				zap.String("took", time.Since(start).String()))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureStudents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("students")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// 1) Business key is unique per tenant.
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "student_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_students_tenant_sid"),
		},

		// 2) Roster rebuilds scan by set membership (multikey on cohort_ids).
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "cohort_ids", Value: 1}},
			Options: options.Index().SetName("idx_students_tenant_cohortids"),
		},
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "primary_cohort", Value: 1}},
			Options: options.Index().SetName("idx_students_tenant_primary"),
		},

		// 3) Status filter used by roster rebuilds and listings.
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_students_tenant_status"),
		},

		// 4) Name prefix search (case/diacritics folded)
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("idx_students_tenant_nameci"),
		},
	})
}

func ensureCohorts(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("cohorts")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Canonical business key, unique per tenant.
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "cohort_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_cohorts_tenant_cid"),
		},

		// Legacy alternate key used by the enrollment fallback lookup.
		// Sparse: older rows carry it, new rows don't.
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "batch_id", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("idx_cohorts_tenant_batchid"),
		},

		// Enrollment rollups group active cohorts by course.
		{
			Keys: bson.D{
				{Key: "tenant_id", Value: 1},
				{Key: "course_id", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("idx_cohorts_tenant_course_status"),
		},

		// Reverse membership lookup (multikey on members).
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "members", Value: 1}},
			Options: options.Index().SetName("idx_cohorts_tenant_members"),
		},
	})
}

func ensureCourses(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("courses")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "course_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_courses_tenant_cid"),
		},
	})
}

func ensureInstructors(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("instructors")
	// The (tenant_id, cohorts.cohort_id) lookup used by cohort rename
	// cascades comes from ensureCascadeLookups.
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "instructor_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_instructors_tenant_iid"),
		},
	})
}

func ensureNonInstructors(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("noninstructors")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "staff_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_noninstructors_tenant_sid"),
		},
	})
}

// ensureCascadeLookups creates a (tenant_id, match_field) index for every
// dependent (collection, match field) the cascade registry addresses, so a
// rename pass never collection-scans. Derived from the registry so the two
// can't drift apart.
func ensureCascadeLookups(ctx context.Context, db *mongo.Database) error {
	type target struct {
		collection string
		field      string
	}

	seen := map[target]bool{}
	var problems []string

	for _, r := range registry.All() {
		t := target{collection: r.Collection, field: r.MatchField}
		if seen[t] {
			continue
		}
		seen[t] = true

		name := "idx_" + t.collection + "_tenant_" + strings.ReplaceAll(t.field, ".", "_")
		err := ensureIndexSet(ctx, db.Collection(t.collection), []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: t.field, Value: 1}},
				Options: options.Index().SetName(name),
			},
		})
		if err != nil {
			problems = append(problems, t.collection+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
