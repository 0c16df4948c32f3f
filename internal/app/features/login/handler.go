// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/adminpanel/internal/app/features/errors"
	"github.com/dalemusser/adminpanel/internal/app/store/sessions"
	"github.com/dalemusser/adminpanel/internal/app/system/auditlog"
	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"github.com/dalemusser/adminpanel/internal/app/system/limits"
	"github.com/dalemusser/adminpanel/internal/app/system/navigation"
	"github.com/dalemusser/adminpanel/internal/app/system/normalize"
	"github.com/dalemusser/adminpanel/internal/app/system/notify"
	"github.com/dalemusser/adminpanel/internal/app/system/ratelimit"
	"github.com/dalemusser/adminpanel/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// SessionRecorder records signed-in sessions for auditing.
type SessionRecorder interface {
	Create(ctx context.Context, id, email string, expiresAt time.Time, ip, userAgent string) (sessions.Session, error)
}

type Handler struct {
	SessionMgr *auth.SessionManager
	Creds      Credentials
	Limiter    *ratelimit.LoginLimiter
	Sessions   SessionRecorder // optional
	Audit      *auditlog.Logger
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
}

func NewHandler(sm *auth.SessionManager, creds Credentials, recorder SessionRecorder, auditLog *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		SessionMgr: sm,
		Creds:      creds,
		Limiter:    ratelimit.NewLoginLimiter(),
		Sessions:   recorder,
		Audit:      auditLog,
		Log:        logger,
		ErrLog:     errLog,
	}
}

type loginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Return   string `json:"return"`
}

// UserJSON is the signed-in operator as returned to the client.
type UserJSON struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Success is the body of a successful sign-in.
type Success struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserJSON  `json:"user"`
	Redirect  string    `json:"redirect"`
}

// ServeLogin describes the sign-in form. Signed-in operators never reach
// it; RedirectIfSignedIn sends them to /admin.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	uierrors.WriteJSON(w, http.StatusOK, map[string]any{
		"fields": []string{"email", "password"},
		"return": navigation.SafeReturn(query.Get(r, "return"), navigation.AdminReturn),
	})
}

func decodeForm(r *http.Request) (loginForm, error) {
	var f loginForm
	if r.Header.Get("Content-Type") == "application/x-www-form-urlencoded" {
		r.Body = http.MaxBytesReader(nil, r.Body, limits.MaxLoginBody)
		if err := r.ParseForm(); err != nil {
			return f, err
		}
		f.Email = r.PostForm.Get("email")
		f.Password = r.PostForm.Get("password")
		f.Return = r.PostForm.Get("return")
		return f, nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, limits.MaxLoginBody)).Decode(&f)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	return f, err
}

func fail(w http.ResponseWriter, status int, title, msg string) {
	uierrors.Write(w, status, msg, []notify.Notice{{
		Severity:    notify.SeverityError,
		Title:       title,
		Description: msg,
	}})
}

// HandleLoginPost checks the operator credentials and starts a session.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	form, err := decodeForm(r)
	if err != nil {
		fail(w, http.StatusBadRequest, "Bad Request", "The sign-in form could not be read.")
		return
	}
	email := normalize.Email(form.Email)

	if ok, msg := h.Limiter.Check(r, email); !ok {
		h.Log.Warn("login rate limited", zap.String("email", email), zap.String("ip", ratelimit.ClientIP(r)))
		h.Audit.LoginFailedRateLimit(r.Context(), r, email)
		fail(w, http.StatusTooManyRequests, "Too Many Attempts", msg)
		return
	}

	if email == "" || form.Password == "" {
		fail(w, http.StatusUnauthorized, "Login failed", "Email and password are required.")
		return
	}
	if !h.Creds.Check(email, form.Password) {
		h.Log.Info("login failed", zap.String("email", email), zap.String("ip", ratelimit.ClientIP(r)))
		h.Audit.LoginFailedWrongPassword(r.Context(), r, email)
		fail(w, http.StatusUnauthorized, "Login failed", "Invalid email or password.")
		return
	}

	token, id, err := h.SessionMgr.SignIn(w, r, email)
	if err != nil {
		h.ErrLog.ServerError(w, r, "sign in failed", err)
		return
	}
	h.Limiter.ResetEmail(email)
	h.Audit.LoginSuccess(r.Context(), r, id)

	if h.Sessions != nil {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()
		if _, err := h.Sessions.Create(ctx, id.SessionID, email, id.ExpiresAt, ratelimit.ClientIP(r), r.UserAgent()); err != nil {
			h.Log.Warn("failed to record session", zap.Error(err), zap.String("session_id", id.SessionID))
		}
	}

	uierrors.WriteJSON(w, http.StatusOK, Success{
		Token:     token,
		ExpiresAt: id.ExpiresAt,
		User:      UserJSON{Email: id.Email, Role: id.Role()},
		Redirect:  navigation.SafeReturn(form.Return, navigation.AdminReturn),
	})
}
