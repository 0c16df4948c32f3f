// Package records persists list-page collections in MongoDB and serves as
// the remote collaborator behind each page's local store.
//
// Each collection keeps one document per record:
//
//	{ _id: <record id>, seq: <insertion order>, fields: {...},
//	  created_at: <time>, updated_at: <time> }
package records

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/adminpanel/internal/app/system/collection"
	"github.com/dalemusser/adminpanel/internal/app/system/remote"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type document[F any] struct {
	ID        string    `bson:"_id"`
	Seq       int64     `bson:"seq"`
	Fields    F         `bson:"fields"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Store is a Mongo-backed remote.Client for one collection.
type Store[F any] struct {
	c   *mongo.Collection
	now func() time.Time
}

// New returns the store for the named collection.
func New[F any](db *mongo.Database, name string) *Store[F] {
	return &Store[F]{
		c:   db.Collection(name),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Name returns the collection name.
func (s *Store[F]) Name() string { return s.c.Name() }

// List returns every record in insertion order.
func (s *Store[F]) List(ctx context.Context) ([]collection.Record[F], error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: 1},
		{Key: "seq", Value: 1},
		{Key: "_id", Value: 1},
	})
	cur, err := s.c.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, classify(err)
	}
	defer cur.Close(ctx)

	var docs []document[F]
	if err := cur.All(ctx, &docs); err != nil {
		return nil, classify(err)
	}
	out := make([]collection.Record[F], len(docs))
	for i, d := range docs {
		out[i] = collection.Record[F]{ID: d.ID, Seq: d.Seq, Fields: d.Fields}
	}
	return out, nil
}

// Create inserts rec under its locally assigned id.
func (s *Store[F]) Create(ctx context.Context, rec collection.Record[F]) error {
	now := s.now()
	_, err := s.c.InsertOne(ctx, document[F]{
		ID:        rec.ID,
		Seq:       rec.Seq,
		Fields:    rec.Fields,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

// Update replaces the stored fields of rec.
func (s *Store[F]) Update(ctx context.Context, rec collection.Record[F]) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": rec.ID},
		bson.M{"$set": bson.M{"fields": rec.Fields, "updated_at": s.now()}},
	)
	if err != nil {
		return classify(err)
	}
	if res.MatchedCount == 0 {
		return remote.FromStatus(http.StatusNotFound, "record not found")
	}
	return nil
}

// Delete removes the record with id.
func (s *Store[F]) Delete(ctx context.Context, id string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return classify(err)
	}
	if res.DeletedCount == 0 {
		return remote.FromStatus(http.StatusNotFound, "record not found")
	}
	return nil
}

// Count returns the number of stored records.
func (s *Store[F]) Count(ctx context.Context) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, classify(err)
	}
	return n, nil
}

// SeedIfEmpty inserts recs when the collection has no documents. It
// returns how many were inserted.
func (s *Store[F]) SeedIfEmpty(ctx context.Context, recs []collection.Record[F]) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 || len(recs) == 0 {
		return 0, nil
	}

	now := s.now()
	docs := make([]any, len(recs))
	for i, r := range recs {
		docs[i] = document[F]{ID: r.ID, Seq: r.Seq, Fields: r.Fields, CreatedAt: now, UpdatedAt: now}
	}
	res, err := s.c.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		return 0, classify(err)
	}
	return len(res.InsertedIDs), nil
}

// classify maps driver errors onto the remote taxonomy.
func classify(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		mongo.IsNetworkError(err),
		mongo.IsTimeout(err):
		return remote.Network(err)
	case isValidationFailure(err):
		return &remote.Error{Kind: remote.KindValidation, Status: http.StatusUnprocessableEntity, Message: "the record does not satisfy the collection schema", Err: err}
	case mongo.IsDuplicateKeyError(err):
		return &remote.Error{Kind: remote.KindValidation, Status: http.StatusUnprocessableEntity, Message: "a record with this id already exists", Err: err}
	default:
		return &remote.Error{Kind: remote.KindServer, Status: http.StatusInternalServerError, Message: "database error", Err: err}
	}
}

// documentValidationFailure is the server code for a rejected $jsonSchema.
const documentValidationFailure = 121

func isValidationFailure(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == documentValidationFailure {
				return true
			}
		}
	}
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, e := range bwe.WriteErrors {
			if e.Code == documentValidationFailure {
				return true
			}
		}
	}
	var ce mongo.CommandError
	return errors.As(err, &ce) && ce.Code == documentValidationFailure
}

var _ remote.Client[struct{}] = (*Store[struct{}])(nil)
