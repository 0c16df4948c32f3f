// internal/app/store/sessions/store.go
package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/adminpanel/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// End reasons.
const (
	EndLogout   = "logout"
	EndInactive = "inactive"
)

// Session is one signed-in period of an operator. The id is the token id
// carried by the session token.
type Session struct {
	ID    string `bson:"_id"`
	Email string `bson:"email"`

	LoginAt      time.Time  `bson:"login_at"`
	LastActiveAt time.Time  `bson:"last_active_at"`
	LogoutAt     *time.Time `bson:"logout_at,omitempty"`
	ExpiresAt    time.Time  `bson:"expires_at"`

	EndReason string `bson:"end_reason,omitempty"`

	IP        string `bson:"ip,omitempty"`
	UserAgent string `bson:"user_agent,omitempty"`
}

// Open reports whether the session has not ended.
func (s Session) Open() bool { return s.LogoutAt == nil }

// Store is the session ledger. It doubles as the token revocation list:
// a token whose session has ended is rejected.
type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

// New creates a new sessions Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(models.CollSessions), now: func() time.Time { return time.Now().UTC() }}
}

// EnsureIndexes creates necessary indexes for efficient querying.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Open sessions, most recently active first
		{
			Keys:    bson.D{{Key: "logout_at", Value: 1}, {Key: "last_active_at", Value: -1}},
			Options: options.Index().SetName("idx_sessions_active"),
		},
		// Session history per operator
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "login_at", Value: -1}},
			Options: options.Index().SetName("idx_sessions_email"),
		},
		// Expired tokens need no ledger entry
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("idx_sessions_ttl").SetExpireAfterSeconds(0),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create records a new session.
func (s *Store) Create(ctx context.Context, id, email string, expiresAt time.Time, ip, userAgent string) (Session, error) {
	now := s.now()
	sess := Session{
		ID:           id,
		Email:        email,
		LoginAt:      now,
		LastActiveAt: now,
		ExpiresAt:    expiresAt.UTC(),
		IP:           ip,
		UserAgent:    userAgent,
	}
	if _, err := s.c.InsertOne(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Close ends an open session with the given reason. Closing an unknown or
// already closed session is not an error.
func (s *Store) Close(ctx context.Context, id, reason string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "logout_at": nil},
		bson.M{"$set": bson.M{"logout_at": s.now(), "end_reason": reason}},
	)
	return err
}

// Revoke ends the session so its token is no longer accepted. A session
// missing from the ledger is recorded as ended until its token expires.
func (s *Store) Revoke(ctx context.Context, id string, until time.Time) error {
	now := s.now()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$set": bson.M{"logout_at": now, "end_reason": EndLogout},
			"$setOnInsert": bson.M{
				"login_at":       now,
				"last_active_at": now,
				"expires_at":     until.UTC(),
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// IsRevoked reports whether the session has ended.
func (s *Store) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id, "logout_at": bson.M{"$ne": nil}}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Touch marks an open session as active now. It reports whether a
// session was updated.
func (s *Store) Touch(ctx context.Context, id string) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "logout_at": nil},
		bson.M{"$set": bson.M{"last_active_at": s.now()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// GetByID retrieves a session by its ID.
func (s *Store) GetByID(ctx context.Context, id string) (Session, error) {
	var sess Session
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Session{}, ErrNotFound
	}
	return sess, err
}

// ListOpenByEmail returns the operator's open sessions, newest first.
func (s *Store) ListOpenByEmail(ctx context.Context, email string) ([]Session, error) {
	opts := options.Find().SetSort(bson.D{{Key: "login_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"email": email, "logout_at": nil}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Session
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CloseInactive ends open sessions idle for longer than threshold.
func (s *Store) CloseInactive(ctx context.Context, threshold time.Duration) (int64, error) {
	now := s.now()
	res, err := s.c.UpdateMany(ctx,
		bson.M{
			"logout_at":      nil,
			"last_active_at": bson.M{"$lt": now.Add(-threshold)},
		},
		bson.M{"$set": bson.M{"logout_at": now, "end_reason": EndInactive}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ErrNotFound is returned when a session id is not in the ledger.
var ErrNotFound = errors.New("session not found")
