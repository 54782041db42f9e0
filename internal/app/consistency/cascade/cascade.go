// internal/app/consistency/cascade/cascade.go

// Package cascade propagates a canonical entity's display-name change to every
// collection the registry says holds a cached copy. Each dependent collection
// is updated independently: one failure is recorded and the remaining updates
// still run. Nothing is rolled back on partial failure; the result reports
// exactly what was applied and what was not.
package cascade

import (
	"fmt"
	"sync"

	"context"

	"github.com/UniqBrio/academyhub/internal/app/consistency/registry"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// CollectionCount reports how many rows one dependent collection had rewritten.
type CollectionCount struct {
	Collection string `json:"collection"`
	Count      int64  `json:"count"`
}

// Result is the outcome of one cascade pass. Success is true only when every
// registry row for the entity was applied without error. Callers are expected
// to log a non-success result and continue; the triggering request must not
// fail because a dependent copy could not be rewritten.
type Result struct {
	Success bool              `json:"success"`
	Updated []CollectionCount `json:"updated"`
	Errors  []string          `json:"errors,omitempty"`
}

// Cascader issues the dependent-collection updates for display-name changes.
// The rule table is fixed at construction; absence of a dependent collection
// is a configuration decision, not a runtime probe.
type Cascader struct {
	db    *mongo.Database
	log   *zap.Logger
	rules []registry.Rule
}

func New(db *mongo.Database, logger *zap.Logger) *Cascader {
	return &Cascader{db: db, log: logger, rules: registry.All()}
}

// NewWithRules builds a Cascader over an explicit rule table. Used by tests
// and by deployments that disable some dependent collections.
func NewWithRules(db *mongo.Database, logger *zap.Logger, rules []registry.Rule) *Cascader {
	return &Cascader{db: db, log: logger, rules: rules}
}

// rowOutcome is the per-rule result before aggregation.
type rowOutcome struct {
	collection string
	count      int64
	err        error
}

// Cascade rewrites every cached copy of the entity's display name from
// oldValue to newValue, scoped to tenantID. Updates for independent
// collections are issued concurrently; error isolation per collection is
// preserved and already-applied updates are kept on partial failure.
func (c *Cascader) Cascade(ctx context.Context, entity registry.Entity, entityID, oldValue, newValue, tenantID string) Result {
	if !registry.Valid(entity) {
		return Result{Errors: []string{fmt.Sprintf("unknown entity type %q", entity)}}
	}
	if tenantID == "" {
		return Result{Errors: []string{"tenant id is required"}}
	}

	var matched []registry.Rule
	for _, r := range c.rules {
		if r.Entity == entity {
			matched = append(matched, r)
		}
	}

	outcomes := make([]rowOutcome, len(matched))
	var wg sync.WaitGroup
	for i, rule := range matched {
		wg.Add(1)
		go func(i int, rule registry.Rule) {
			defer wg.Done()
			count, err := c.apply(ctx, rule, entityID, oldValue, newValue, tenantID)
			outcomes[i] = rowOutcome{collection: rule.Collection, count: count, err: err}
		}(i, rule)
	}
	wg.Wait()

	res := collect(outcomes)
	if !res.Success {
		c.log.Warn("cascade completed with errors",
			zap.String("entity", string(entity)),
			zap.String("entity_id", entityID),
			zap.String("tenant_id", tenantID),
			zap.Strings("errors", res.Errors))
	}
	return res
}

// apply runs one registry row as a single bulk update.
func (c *Cascader) apply(ctx context.Context, rule registry.Rule, entityID, oldValue, newValue, tenantID string) (int64, error) {
	filter := bson.M{"tenant_id": tenantID}
	update := bson.M{"$set": bson.M{rule.TargetField: newValue}}
	var opts []*options.UpdateOptions

	switch rule.Kind {
	case registry.MatchID:
		filter[rule.MatchField] = entityID
	case registry.MatchValue:
		// Dependent rows with no foreign id: match the stale string itself.
		filter[rule.MatchField] = oldValue
	case registry.MatchPair:
		filter[rule.MatchField] = entityID
		opts = append(opts, options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"ref." + rule.PairKey: entityID}},
		}))
	}

	res, err := c.db.Collection(rule.Collection).UpdateMany(ctx, filter, update, opts...)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// collect aggregates per-row outcomes into a Result. Successful rows keep
// their counts (zero is a valid count); failed rows become error strings.
func collect(outcomes []rowOutcome) Result {
	res := Result{
		Success: true,
		Updated: make([]CollectionCount, 0, len(outcomes)),
	}
	for _, o := range outcomes {
		if o.err != nil {
			res.Success = false
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", o.collection, o.err))
			continue
		}
		res.Updated = append(res.Updated, CollectionCount{Collection: o.collection, Count: o.count})
	}
	return res
}
