// internal/app/features/shared/listpage/handler.go
package listpage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	uierrors "github.com/dalemusser/adminpanel/internal/app/features/errors"
	"github.com/dalemusser/adminpanel/internal/app/system/auditlog"
	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"github.com/dalemusser/adminpanel/internal/app/system/collection"
	"github.com/dalemusser/adminpanel/internal/app/system/limits"
	"github.com/dalemusser/adminpanel/internal/app/system/notify"
	"github.com/dalemusser/adminpanel/internal/app/system/paging"
	"github.com/dalemusser/adminpanel/internal/app/system/remote"
	"github.com/dalemusser/adminpanel/internal/app/system/selection"
	"github.com/dalemusser/adminpanel/internal/app/system/timeouts"
	"github.com/dalemusser/adminpanel/internal/app/system/workspace"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves one domain's list page for every signed-in desk.
type Handler[F any] struct {
	Domain   Domain[F]
	Remote   remote.Client[F]
	Sessions *auth.SessionManager
	PageSize int
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger

	// Audit, when set, records every per-record mutation outcome.
	Audit *auditlog.Logger
}

// NewHandler constructs a list page Handler.
func NewHandler[F any](dom Domain[F], client remote.Client[F], sm *auth.SessionManager, pageSize int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler[F] {
	return &Handler[F]{
		Domain:   dom,
		Remote:   client,
		Sessions: sm,
		PageSize: pageSize,
		Log:      logger,
		ErrLog:   errLog,
	}
}

// State is the JSON body of every successful list page response.
type State[F any] struct {
	Domain  string                `json:"domain"`
	View    paging.View[F]        `json:"view"`
	Params  paging.Params         `json:"params"`
	Active  *collection.Record[F] `json:"active,omitempty"`
	Pending *Pending              `json:"pending,omitempty"`
	Notices []notify.Notice       `json:"notices"`
}

// Mount registers the standard list page routes on r. r must already carry
// the sign-in and desk middleware.
func (h *Handler[F]) Mount(r chi.Router) {
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Post("/refresh", h.HandleRefresh)
	r.Post("/close", h.HandleClose)
	r.Post("/confirm", h.HandleConfirm)
	r.Post("/cancel", h.HandleCancel)
	r.Post("/active/status", h.HandleActiveStatus)
	r.Post("/active/delete", h.HandleActiveDelete)
	r.Get("/{id}", h.ServeDetail)
	r.Patch("/{id}", h.HandleUpdate)
	r.Post("/{id}/status", h.HandleStatus)
	r.Post("/{id}/delete", h.HandleRequestDelete)
}

// PageFor returns the desk's page for this domain, loading it from the
// remote on first use. On failure the response has been written and ok
// is false.
func (h *Handler[F]) PageFor(w http.ResponseWriter, r *http.Request) (*Page[F], bool) {
	ws, ok := workspace.FromContext(r.Context())
	if !ok {
		auth.RedirectToSignIn(w, r)
		return nil, false
	}

	p, err := workspace.Page(ws, h.Domain.Schema.Name, func() (*Page[F], error) {
		p := New(h.Domain, h.Remote, ws.Notices, h.PageSize, h.Log)
		if h.Audit != nil {
			actor := auth.Identity{Email: ws.Email, SessionID: ws.SessionID}
			p.OnMutation(func(m Mutation) {
				ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
				defer cancel()
				h.Audit.Mutation(ctx, actor, m.Domain, m.Op, m.RecordID, m.Outcome, m.Err)
			})
		}
		if err := p.Load(r.Context()); err != nil && remote.IsAuth(err) {
			return nil, err
		}
		return p, nil
	})
	if err != nil {
		h.Fail(w, r, ws, err)
		return nil, false
	}
	return p, true
}

// Respond writes the page state with the desk's pending notices.
func (h *Handler[F]) Respond(w http.ResponseWriter, r *http.Request, p *Page[F], status int) {
	ws, _ := workspace.FromContext(r.Context())
	st := State[F]{
		Domain: p.Name(),
		View:   p.View(),
		Params: p.Params(),
	}
	if rec, ok := p.Active(); ok {
		st.Active = &rec
	}
	if pend, ok := p.Pending(); ok {
		st.Pending = &pend
	}
	if ws != nil {
		st.Notices = ws.Notices.Drain()
	} else {
		st.Notices = []notify.Notice{}
	}
	uierrors.WriteJSON(w, status, st)
}

// Fail writes the response for a failed page operation. An authentication
// failure ends the session and sends the client to sign in.
func (h *Handler[F]) Fail(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace, err error) {
	var notices []notify.Notice
	if ws != nil {
		notices = ws.Notices.Drain()
	}

	if remote.IsAuth(err) {
		if h.Sessions != nil {
			if lerr := h.Sessions.ForceLogout(w, r, "remote authentication failed"); lerr != nil {
				h.Log.Warn("force logout failed", zap.Error(lerr))
			}
		}
		if len(notices) == 0 {
			notices = []notify.Notice{notify.FromError(err)}
		}
		uierrors.WriteJSON(w, http.StatusUnauthorized, uierrors.Body{
			Error:    "unauthorized",
			Redirect: "/login",
			Notices:  notices,
		})
		return
	}

	status, msg := StatusFor(err)
	if errors.Is(err, errBadBody) && len(notices) == 0 {
		notices = []notify.Notice{{
			Severity:    notify.SeverityError,
			Title:       "Bad Request",
			Description: "The request body could not be read.",
		}}
	}
	if status == http.StatusInternalServerError {
		h.ErrLog.ServerError(w, r, "list page operation failed", err)
		return
	}
	uierrors.Write(w, status, msg, notices)
}

// StatusFor maps a page error to an HTTP status and short message.
func StatusFor(err error) (int, string) {
	var fe *collection.FieldError
	var re *remote.Error
	switch {
	case errors.Is(err, selection.ErrNoActiveSelection):
		return http.StatusConflict, "no record is open"
	case errors.Is(err, collection.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, collection.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, "invalid status"
	case errors.As(err, &fe):
		return http.StatusUnprocessableEntity, "validation failed"
	case errors.Is(err, errBadBody):
		return http.StatusBadRequest, "bad request"
	case errors.As(err, &re):
		switch re.Kind {
		case remote.KindPermission:
			return http.StatusForbidden, "forbidden"
		case remote.KindNotFound:
			return http.StatusNotFound, "not found"
		case remote.KindValidation:
			return http.StatusUnprocessableEntity, "validation failed"
		case remote.KindNetwork:
			return http.StatusServiceUnavailable, "remote unavailable"
		default:
			return http.StatusBadGateway, "remote error"
		}
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

var errBadBody = errors.New("malformed request body")

// DecodeBody decodes a JSON request body into v. An empty body leaves v
// unchanged.
func DecodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, limits.MaxRecordBody))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errors.Join(errBadBody, err)
	}
	return nil
}

// Run resolves the page, runs op, and writes either the updated state or
// the failure.
func (h *Handler[F]) Run(w http.ResponseWriter, r *http.Request, status int, op func(p *Page[F]) error) {
	p, ok := h.PageFor(w, r)
	if !ok {
		return
	}
	if err := op(p); err != nil {
		ws, _ := workspace.FromContext(r.Context())
		h.Fail(w, r, ws, err)
		return
	}
	h.Respond(w, r, p, status)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Routes                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeList applies the query string to the page's parameters and returns
// the current view.
func (h *Handler[F]) ServeList(w http.ResponseWriter, r *http.Request) {
	h.Run(w, r, http.StatusOK, func(p *Page[F]) error {
		names := h.Domain.Schema.FilterNames()
		p.UpdateParams(func(cur paging.Params) paging.Params {
			return paging.Apply(r, cur, names)
		})
		return nil
	})
}

// HandleRefresh reloads the page from the remote.
func (h *Handler[F]) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	h.Run(w, r, http.StatusOK, func(p *Page[F]) error {
		return p.Load(r.Context())
	})
}

// HandleCreate stores a new record from the JSON body.
func (h *Handler[F]) HandleCreate(w http.ResponseWriter, r *http.Request) {
	h.Run(w, r, http.StatusCreated, func(p *Page[F]) error {
		var fields F
		if err := DecodeBody(r, &fields); err != nil {
			return err
		}
		_, err := p.Create(r.Context(), fields)
		return err
	})
}

// HandleUpdate merges the JSON body into the record's fields. Keys absent
// from the body keep their current values.
func (h *Handler[F]) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var raw json.RawMessage
	if err := DecodeBody(r, &raw); err != nil {
		ws, _ := workspace.FromContext(r.Context())
		h.Fail(w, r, ws, err)
		return
	}
	h.Run(w, r, http.StatusOK, func(p *Page[F]) error {
		_, err := p.Update(r.Context(), id, MergeJSON[F](raw))
		return err
	})
}

// MergeJSON returns a patch that overlays a JSON object onto fields.
func MergeJSON[F any](raw json.RawMessage) func(*F) error {
	return func(f *F) error {
		if len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, f); err != nil {
			return errors.Join(errBadBody, err)
		}
		return nil
	}
}

type statusBody struct {
	Status string `json:"status"`
}

// HandleStatus sets a record's status.
func (h *Handler[F]) HandleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.Run(w, r, http.StatusOK, func(p *Page[F]) error {
		var body statusBody
		if err := DecodeBody(r, &body); err != nil {
			return err
		}
		_, err := p.SetStatus(r.Context(), id, body.Status)
		return err
	})
}

// ServeDetail opens a record in the detail view.
func (h *Handler[F]) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.Run(w, r, http.StatusOK, func(p *Page[F]) error {
		_, err := p.Open(r.Context(), id)
		return err
	})
}

// HandleClose closes the detail view.
func (h *Handler[F]) HandleClose(w http.ResponseWriter, r *http.Request) {
	h.Run(w, r, http.StatusOK, func(p *Page[F]) error {
		p.Close()
		return nil
	})
}

// HandleActiveStatus sets the open record's status.
func (h *Handler[F]) HandleActiveStatus(w http.ResponseWriter, r *http.Request) {
	h.Run(w, r, http.StatusOK, func(p *Page[F]) error {
		var body statusBody
		if err := DecodeBody(r, &body); err != nil {
			return err
		}
		_, err := p.SetActiveStatus(r.Context(), body.Status)
		return err
	})
}

// HandleActiveDelete asks for confirmation to delete the open record.
func (h *Handler[F]) HandleActiveDelete(w http.ResponseWriter, r *http.Request) {
	h.Run(w, r, http.StatusAccepted, func(p *Page[F]) error {
		_, err := p.RequestActiveDelete()
		return err
	})
}

// HandleRequestDelete asks for confirmation to delete a record.
func (h *Handler[F]) HandleRequestDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.Run(w, r, http.StatusAccepted, func(p *Page[F]) error {
		_, err := p.RequestDelete(id)
		return err
	})
}

// HandleConfirm runs the pending action. Confirming with nothing pending
// succeeds without changes.
func (h *Handler[F]) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	h.Run(w, r, http.StatusOK, func(p *Page[F]) error {
		_, err := p.Confirm(r.Context())
		return err
	})
}

// HandleCancel discards the pending action.
func (h *Handler[F]) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.Run(w, r, http.StatusOK, func(p *Page[F]) error {
		p.Cancel()
		return nil
	})
}
