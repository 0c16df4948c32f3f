// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/adminpanel/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	// List page collections
	ensure(models.CollUsers, recordSchema(usersFields()))
	ensure(models.CollPosts, recordSchema(postsFields()))
	ensure(models.CollReports, recordSchema(reportsFields()))
	ensure(models.CollContacts, recordSchema(contactsFields()))
	ensure(models.CollDeletions, recordSchema(deletionsFields()))
	ensure(models.CollWaitlist, recordSchema(waitlistFields()))

	// The session ledger holds revocation markers with sparse fields.
	ensure(models.CollSessions, nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Debug("collection exists", zap.String("collection", name))
		return false, nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func commandCode(err error) (int32, string, bool) {
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return ce.Code, strings.ToLower(ce.Message), true
	}
	return 0, "", false
}

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	if code, msg, ok := commandCode(err); ok && (code == 48 || strings.Contains(msg, "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	if code, msg, ok := commandCode(err); ok && (code == 59 || strings.Contains(msg, "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	if code, msg, ok := commandCode(err); ok && (code == 115 ||
		strings.Contains(msg, "not implemented") ||
		strings.Contains(msg, "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

// fieldsSchema describes the embedded fields document of one domain.
type fieldsSchema struct {
	required   []string
	properties bson.M
}

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func enum(values []string) bson.M {
	a := make(bson.A, len(values))
	for i, v := range values {
		a[i] = v
	}
	return bson.M{"enum": a}
}

func required(names ...string) bson.A {
	a := make(bson.A, len(names))
	for i, n := range names {
		a[i] = n
	}
	return a
}

// recordSchema wraps a domain's fields schema in the record envelope.
func recordSchema(f fieldsSchema) bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": required("_id", "seq", "fields", "created_at"),
			"properties": bson.M{
				"_id":        nonBlank,
				"seq":        bson.M{"bsonType": bson.A{"long", "int"}},
				"created_at": bson.M{"bsonType": "date"},
				"updated_at": bson.M{"bsonType": "date"},
				"fields": bson.M{
					"bsonType":   "object",
					"required":   required(f.required...),
					"properties": f.properties,
				},
			},
		},
	}
}

func usersFields() fieldsSchema {
	return fieldsSchema{
		required: []string{"name", "email", "role", "status"},
		properties: bson.M{
			"name":   nonBlank,
			"email":  nonBlank,
			"role":   enum(models.UserRoles),
			"status": enum(models.UserStatuses),
		},
	}
}

func postsFields() fieldsSchema {
	return fieldsSchema{
		required: []string{"title", "category", "status"},
		properties: bson.M{
			"title":    nonBlank,
			"category": nonBlank,
			"status":   enum(models.PostStatuses),
			"likes":    bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
			"comments": bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
		},
	}
}

func reportsFields() fieldsSchema {
	return fieldsSchema{
		required: []string{"report_id", "post", "reason", "status"},
		properties: bson.M{
			"report_id": nonBlank,
			"reason":    nonBlank,
			"status":    enum(models.ReportStatuses),
			"post": bson.M{
				"bsonType": "object",
				"required": required("id", "status"),
				"properties": bson.M{
					"status": enum(models.ReportedPostStatuses),
				},
			},
		},
	}
}

func contactsFields() fieldsSchema {
	return fieldsSchema{
		required: []string{"name", "email", "status"},
		properties: bson.M{
			"name":    nonBlank,
			"email":   nonBlank,
			"status":  enum(models.ContactStatuses),
			"starred": bson.M{"bsonType": "bool"},
		},
	}
}

func deletionsFields() fieldsSchema {
	return fieldsSchema{
		required: []string{"request_id", "email", "type", "status"},
		properties: bson.M{
			"request_id": nonBlank,
			"email":      nonBlank,
			"type":       enum(models.DeletionTypes),
			"status":     enum(models.DeletionStatuses),
		},
	}
}

func waitlistFields() fieldsSchema {
	return fieldsSchema{
		required: []string{"name", "email", "status", "rank"},
		properties: bson.M{
			"name":   nonBlank,
			"email":  nonBlank,
			"status": enum(models.WaitlistStatuses),
			"rank":   bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 1},
		},
	}
}
