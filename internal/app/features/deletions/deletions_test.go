package deletions_test

import (
	"context"
	"math/rand/v2"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/adminpanel/internal/app/features/deletions"
	uierrors "github.com/dalemusser/adminpanel/internal/app/features/errors"
	"github.com/dalemusser/adminpanel/internal/app/features/shared/listpage"
	"github.com/dalemusser/adminpanel/internal/app/system/collection"
	"github.com/dalemusser/adminpanel/internal/app/system/notify"
	"github.com/dalemusser/adminpanel/internal/app/system/remote"
	"github.com/dalemusser/adminpanel/internal/app/system/workspace"
	"github.com/dalemusser/adminpanel/internal/domain/models"
	"github.com/dalemusser/adminpanel/internal/testutil"
	"go.uber.org/zap"
)

func request(id string, seq int64, status, typ string) collection.Record[models.DeletionRequest] {
	return collection.Record[models.DeletionRequest]{ID: id, Seq: seq, Fields: models.DeletionRequest{
		RequestID: "DEL-" + id,
		Name:      "User " + id,
		Email:     id + "@example.com",
		Type:      typ,
		Status:    status,
	}}
}

func seedRecords() []collection.Record[models.DeletionRequest] {
	return []collection.Record[models.DeletionRequest]{
		request("1", 1, models.DeletionPending, models.DeletionFull),
		request("2", 2, models.DeletionPending, models.DeletionDataOnly),
		request("3", 3, models.DeletionCompleted, models.DeletionFull),
	}
}

func newPage(t *testing.T) (*listpage.Page[models.DeletionRequest], *notify.Queue) {
	t.Helper()
	q := notify.NewQueue(zap.NewNop())
	p := listpage.New(deletions.Domain(), remote.NewMemory(seedRecords()...), q, 10, zap.NewNop())
	if err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return p, q
}

func TestSeed(t *testing.T) {
	seed := deletions.Seed(rand.New(rand.NewPCG(9, 10)), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if len(seed) != deletions.SeedCount {
		t.Fatalf("seed len = %d", len(seed))
	}
	if seed[0].RequestID != "DEL-2000" || seed[19].RequestID != "DEL-2019" {
		t.Errorf("request ids = %s..%s", seed[0].RequestID, seed[19].RequestID)
	}
	for _, d := range seed {
		if err := deletions.Schema().Check(d); err != nil {
			t.Errorf("seed request %s invalid: %v", d.RequestID, err)
		}
	}
}

func TestDefaultView_ShowsPending(t *testing.T) {
	p, _ := newPage(t)
	if got := p.Params().Filter("status"); got != models.DeletionPending {
		t.Errorf("status filter = %s", got)
	}
	if v := p.View(); v.Total != 2 {
		t.Errorf("pending total = %d", v.Total)
	}
}

func TestSetActiveStatus_ClosesOnlyWhenCompleted(t *testing.T) {
	p, q := newPage(t)
	ctx := context.Background()

	if _, err := p.Open(ctx, "1"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := p.SetActiveStatus(ctx, models.DeletionProcessing); err != nil {
		t.Fatalf("Processing: %v", err)
	}
	if _, ok := p.Active(); !ok {
		t.Error("detail closed after Processing")
	}

	rec, err := p.SetActiveStatus(ctx, models.DeletionCompleted)
	if err != nil {
		t.Fatalf("Completed: %v", err)
	}
	if rec.Fields.Status != models.DeletionCompleted {
		t.Errorf("status = %s", rec.Fields.Status)
	}
	if _, ok := p.Active(); ok {
		t.Error("detail still open after Completed")
	}

	got := q.Drain()
	if len(got) != 2 || got[1].Title != "Request Completed" || got[1].Description != "DEL-1 for User 1 is now Completed." {
		t.Errorf("notices = %+v", got)
	}
}

func TestRoutes_ActiveDeleteIsConfirmed(t *testing.T) {
	logger := zap.NewNop()
	sm := testutil.NewSessionManager(t)
	desks := workspace.NewRegistry(logger)
	mem := remote.NewMemory(seedRecords()...)
	h := deletions.NewHandler(mem, sm, desks, 10, uierrors.NewErrorLogger(logger), logger)
	router := deletions.Routes(h, sm)
	id := testutil.AdminIdentity()

	do := func(method, target string, body any) *testutil.ResponseRecorder {
		rec := testutil.NewRecorder()
		router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(t, method, target, body, id))
		return rec
	}

	do(http.MethodPost, "/active/delete", nil).AssertStatus(t, http.StatusConflict)

	do(http.MethodGet, "/2", nil).AssertStatus(t, http.StatusOK)
	rec := do(http.MethodPost, "/active/delete", nil)
	rec.AssertStatus(t, http.StatusAccepted)
	rec.AssertContains(t, "CRITICAL ACTION")

	rec = do(http.MethodPost, "/confirm", nil)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "User deleted")
	var st listpage.State[models.DeletionRequest]
	rec.DecodeJSON(t, &st)
	if st.Active != nil || st.View.Total != 1 {
		t.Errorf("active=%v pending total=%d", st.Active, st.View.Total)
	}
	if n, _ := mem.Count(context.Background()); n != 2 {
		t.Errorf("remote count = %d", n)
	}

	rec = do(http.MethodGet, "/?status=All&type=FULL_DELETION", nil)
	st = listpage.State[models.DeletionRequest]{}
	rec.DecodeJSON(t, &st)
	if st.View.Total != 2 {
		t.Errorf("full deletion total = %d", st.View.Total)
	}
}
