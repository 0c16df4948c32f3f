// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/adminpanel/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup for the list collections. It is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
The sessions and audit_events collections own their indexes (EnsureIndexes
on their stores).
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, name := range models.ListCollections {
		if err := ensureIndexSet(ctx, db.Collection(name), recordIndexes(name)); err != nil {
			problems = append(problems, name+": "+err.Error())
		}
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

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{} // sig -> index
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
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
	return existing
}

// ensureIndexSet creates each index in models. An index with the same keys
// is reused when its uniqueness matches and its name is aligned; otherwise
// it is dropped and recreated.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	existing := listExisting(ctx, coll)

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			desiredName = derefString(m.Options.Name)
			desiredUnique = m.Options.Unique
		}
		desiredSig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[desiredSig]; ok {
			if sameBoolPtr(desiredUnique, ex.Unique) && (desiredName == "" || ex.Name == desiredName) {
				zap.L().Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig))
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				zap.L().Warn("drop existing index failed",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

// recordIndexes returns the indexes of one list collection. Every list is
// read back in insertion order; the status index serves counts.
func recordIndexes(name string) []mongo.IndexModel {
	set := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "created_at", Value: 1},
				{Key: "seq", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_" + name + "_order"),
		},
		{
			Keys:    bson.D{{Key: "fields.status", Value: 1}},
			Options: options.Index().SetName("idx_" + name + "_status"),
		},
	}

	switch name {
	case models.CollUsers:
		set = append(set, mongo.IndexModel{
			Keys:    bson.D{{Key: "fields.email", Value: 1}},
			Options: options.Index().SetName("idx_users_email"),
		})
	case models.CollReports:
		// delete-post and post-status touch every report of one post
		set = append(set, mongo.IndexModel{
			Keys:    bson.D{{Key: "fields.post.id", Value: 1}},
			Options: options.Index().SetName("idx_reports_post"),
		})
	case models.CollWaitlist:
		set = append(set, mongo.IndexModel{
			Keys:    bson.D{{Key: "fields.rank", Value: 1}},
			Options: options.Index().SetName("idx_waitlist_rank"),
		})
	}
	return set
}
