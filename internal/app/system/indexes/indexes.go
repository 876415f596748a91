// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll is called at startup. Every collection set is reconciled even
// if an earlier one fails; problems are joined so startup can fail fast
// with the whole picture.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string
	for _, c := range desired() {
		if err := ensureIndexSet(ctx, db.Collection(c.collection), c.models); err != nil {
			problems = append(problems, c.collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

func idx(name string, unique bool, keys bson.D) mongo.IndexModel {
	opts := options.Index().SetName(name)
	if unique {
		opts.SetUnique(true)
	}
	return mongo.IndexModel{Keys: keys, Options: opts}
}

// rosterIndexes serves both the sorted full listing and the created_at
// keyset pages of a fleet collection. The value index is unique so two
// concurrent adds of the same value cannot both land.
func rosterIndexes(coll, field string) collectionIndexes {
	return collectionIndexes{coll, []mongo.IndexModel{
		idx("uniq_"+coll+"_org_"+field, true, bson.D{{Key: "org_id", Value: 1}, {Key: field, Value: 1}}),
		idx("idx_"+coll+"_org_created", false, bson.D{
			{Key: "org_id", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1},
		}),
	}}
}

func desired() []collectionIndexes {
	return []collectionIndexes{
		{"organizations", []mongo.IndexModel{
			idx("uniq_organizations_slug", true, bson.D{{Key: "slug", Value: 1}}),
			idx("idx_organizations_created", false, bson.D{{Key: "created_at", Value: -1}}),
		}},
		{"members", []mongo.IndexModel{
			idx("idx_members_org_created", false, bson.D{{Key: "org_id", Value: 1}, {Key: "created_at", Value: -1}}),
			idx("idx_members_email", false, bson.D{{Key: "email", Value: 1}}),
		}},
		rosterIndexes("drivers", "name"),
		rosterIndexes("vehicles", "registration"),
		{"inspections", []mongo.IndexModel{
			idx("idx_inspections_org_submitted", false, bson.D{
				{Key: "org_id", Value: 1}, {Key: "submitted_at", Value: -1}, {Key: "_id", Value: -1},
			}),
			idx("idx_inspections_org_verdict", false, bson.D{{Key: "org_id", Value: 1}, {Key: "final_verdict", Value: 1}}),
		}},
		{"audit_events", []mongo.IndexModel{
			idx("idx_audit_org_time", false, bson.D{{Key: "org_id", Value: 1}, {Key: "timestamp", Value: -1}}),
			idx("idx_audit_category_time", false, bson.D{{Key: "category", Value: 1}, {Key: "timestamp", Value: -1}}),
		}},
	}
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
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

func isUnique(b *bool) bool { return b != nil && *b }

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	out := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		// Collection may not exist yet; CreateOne will create it.
		return out
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var ex existingIndex
		if err := cur.Decode(&ex); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(ex.Key)] = ex
	}
	return out
}

// recreate drops the index named old and creates m in its place.
func recreate(ctx context.Context, coll *mongo.Collection, old string, m mongo.IndexModel) error {
	if _, err := coll.Indexes().DropOne(ctx, old); err != nil {
		return fmt.Errorf("drop %s: %w", old, err)
	}
	if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return errors.New("cannot create unique index (duplicates present)")
		}
		return err
	}
	return nil
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		name := *m.Options.Name
		unique := isUnique(m.Options.Unique)
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique))

		ex, found := listExisting(ctx, coll)[sig]
		switch {
		case found && isUnique(ex.Unique) == unique && ex.Name == name:
			log.Info("reusing existing index", zap.Duration("took", time.Since(start)))

		case found:
			// Same keys under another name or with other options.
			if err := recreate(ctx, coll, ex.Name, m); err != nil {
				log.Warn("index recreate failed", zap.String("existing", ex.Name), zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
				continue
			}
			log.Info("index recreated", zap.String("from", ex.Name), zap.Duration("took", time.Since(start)))

		default:
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				if wafflemongo.IsDup(err) && unique {
					err = errors.New("cannot create unique index (duplicates present)")
				}
				log.Warn("index ensure failed", zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
				continue
			}
			log.Info("index ensured", zap.Duration("took", time.Since(start)))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
