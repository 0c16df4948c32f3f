// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"
	"time"

	uierrors "github.com/dalemusser/adminpanel/internal/app/features/errors"
	"github.com/dalemusser/adminpanel/internal/app/features/shared/listpage"
	metricsstore "github.com/dalemusser/adminpanel/internal/app/store/metrics"
	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"github.com/dalemusser/adminpanel/internal/app/system/collection"
	"github.com/dalemusser/adminpanel/internal/app/system/notify"
	"github.com/dalemusser/adminpanel/internal/app/system/remote"
	"github.com/dalemusser/adminpanel/internal/app/system/timeouts"
	"github.com/dalemusser/adminpanel/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves the dashboard.
type Handler struct {
	Users    remote.Client[models.User]
	Posts    remote.Client[models.Post]
	Counts   metricsstore.Sources
	Sessions *auth.SessionManager
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger

	// Now is the clock used for the default range.
	Now func() time.Time
}

// NewHandler constructs a dashboard Handler.
func NewHandler(users remote.Client[models.User], posts remote.Client[models.Post], counts metricsstore.Sources, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		Posts:    posts,
		Counts:   counts,
		Sessions: sm,
		Log:      logger,
		ErrLog:   errLog,
		Now:      time.Now,
	}
}

// RangeJSON is the requested range echoed back to the client.
type RangeJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Response is the dashboard's JSON body.
type Response struct {
	Range  RangeJSON           `json:"range"`
	Series []Point             `json:"series"`
	Users  SeriesStats         `json:"users"`
	Posts  SeriesStats         `json:"posts"`
	Counts metricsstore.Counts `json:"counts"`
}

// ServeDashboard returns the activity series and summary cards for the
// requested date range.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	rng, err := ParseRange(r, h.Now())
	if err != nil {
		uierrors.Write(w, http.StatusBadRequest, "invalid date range", []notify.Notice{{
			Severity:    notify.SeverityError,
			Title:       "Invalid date range",
			Description: "Dates must be YYYY-MM-DD, with from on or before to.",
		}})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard")
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	posts, err := h.Posts.List(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	series := DailySeries(
		dates(users, func(u models.User) time.Time { return u.Joined }),
		dates(posts, func(p models.Post) time.Time { return p.PublishedAt }),
		rng,
	)
	userCounts := make([]int, len(series))
	postCounts := make([]int, len(series))
	for i, p := range series {
		userCounts[i] = p.Users
		postCounts[i] = p.Posts
	}

	resp := Response{
		Range:  RangeJSON{From: rng.From.Format(dateLayout), To: rng.To.Format(dateLayout)},
		Series: series,
		Users:  Summarize(userCounts),
		Posts:  Summarize(postCounts),
		Counts: metricsstore.FetchDashboardCounts(ctx, h.Counts, h.Log),
	}

	h.Log.Debug("dashboard served", zap.Int("days", rng.Days()))
	uierrors.WriteJSON(w, http.StatusOK, resp)
}

func dates[F any](recs []collection.Record[F], at func(F) time.Time) []time.Time {
	out := make([]time.Time, 0, len(recs))
	for _, r := range recs {
		out = append(out, at(r.Fields))
	}
	return out
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	notices := []notify.Notice{notify.FromError(err)}
	if remote.IsAuth(err) {
		if h.Sessions != nil {
			if lerr := h.Sessions.ForceLogout(w, r, "remote authentication failed"); lerr != nil {
				h.Log.Warn("force logout failed", zap.Error(lerr))
			}
		}
		uierrors.WriteJSON(w, http.StatusUnauthorized, uierrors.Body{Error: "unauthorized", Redirect: "/login", Notices: notices})
		return
	}
	status, msg := listpage.StatusFor(err)
	if status == http.StatusInternalServerError {
		h.ErrLog.ServerError(w, r, "dashboard load failed", err)
		return
	}
	uierrors.Write(w, status, msg, notices)
}
