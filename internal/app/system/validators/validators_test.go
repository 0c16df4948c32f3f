package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/adminpanel/internal/app/system/validators"
	"github.com/dalemusser/adminpanel/internal/domain/models"
	"github.com/dalemusser/adminpanel/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames: %v", err)
	}
	have := map[string]bool{}
	for _, n := range names {
		have[n] = true
	}
	for _, want := range append(models.ListCollections, models.CollSessions) {
		if !have[want] {
			t.Errorf("collection %s not created", want)
		}
	}
}

func envelope(id string, fields bson.M) bson.M {
	return bson.M{"_id": id, "seq": int64(1), "fields": fields, "created_at": time.Now()}
}

func TestRecordValidators(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	tests := []struct {
		name    string
		coll    string
		doc     bson.M
		wantErr bool
	}{
		{"valid user", models.CollUsers, envelope("u1", bson.M{
			"name": "Ada", "email": "ada@example.com", "role": "Admin", "status": "Active",
		}), false},
		{"user bad role", models.CollUsers, envelope("u2", bson.M{
			"name": "Ada", "email": "ada@example.com", "role": "Owner", "status": "Active",
		}), true},
		{"user missing fields", models.CollUsers, bson.M{"_id": "u3", "seq": int64(1)}, true},
		{"post bad status", models.CollPosts, envelope("p1", bson.M{
			"title": "T", "category": "Travel", "status": "Live",
		}), true},
		{"valid report", models.CollReports, envelope("r1", bson.M{
			"report_id": "REP-1000", "reason": "Spam", "status": "Pending",
			"post": bson.M{"id": 200, "status": "Hidden"},
		}), false},
		{"report bad post status", models.CollReports, envelope("r2", bson.M{
			"report_id": "REP-1001", "reason": "Spam", "status": "Pending",
			"post": bson.M{"id": 200, "status": "Gone"},
		}), true},
		{"deletion bad type", models.CollDeletions, envelope("d1", bson.M{
			"request_id": "DEL-2000", "email": "a@b.co", "type": "PARTIAL", "status": "Pending",
		}), true},
		{"waitlist rank zero", models.CollWaitlist, envelope("w1", bson.M{
			"name": "E", "email": "e@x.co", "status": "Pending", "rank": 0,
		}), true},
		{"valid contact", models.CollContacts, envelope("c1", bson.M{
			"name": "C", "email": "c@x.co", "status": "Unread", "starred": false,
		}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Collection(tt.coll).InsertOne(ctx, tt.doc)
			if (err != nil) != tt.wantErr {
				t.Errorf("InsertOne err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
