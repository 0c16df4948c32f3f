// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	auditfeature "github.com/dalemusser/adminpanel/internal/app/features/auditlog"
	contactfeature "github.com/dalemusser/adminpanel/internal/app/features/contact"
	dashboardfeature "github.com/dalemusser/adminpanel/internal/app/features/dashboard"
	deletionsfeature "github.com/dalemusser/adminpanel/internal/app/features/deletions"
	errorsfeature "github.com/dalemusser/adminpanel/internal/app/features/errors"
	healthfeature "github.com/dalemusser/adminpanel/internal/app/features/health"
	heartbeatfeature "github.com/dalemusser/adminpanel/internal/app/features/heartbeat"
	loginfeature "github.com/dalemusser/adminpanel/internal/app/features/login"
	logoutfeature "github.com/dalemusser/adminpanel/internal/app/features/logout"
	mefeature "github.com/dalemusser/adminpanel/internal/app/features/me"
	postsfeature "github.com/dalemusser/adminpanel/internal/app/features/posts"
	reportsfeature "github.com/dalemusser/adminpanel/internal/app/features/reports"
	usersfeature "github.com/dalemusser/adminpanel/internal/app/features/users"
	waitlistfeature "github.com/dalemusser/adminpanel/internal/app/features/waitlist"
	metricsstore "github.com/dalemusser/adminpanel/internal/app/store/metrics"
	"github.com/dalemusser/adminpanel/internal/app/store/records"
	"github.com/dalemusser/adminpanel/internal/app/system/auditlog"
	"github.com/dalemusser/adminpanel/internal/app/system/auth"
	"github.com/dalemusser/adminpanel/internal/app/system/metrics"
	"github.com/dalemusser/adminpanel/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. The router loads the session identity
// on every request, mounts the public auth endpoints, and mounts each admin
// list page under /admin behind RequireSignedIn.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	rt := deps.Runtime

	tokens, err := auth.NewTokens(appCfg.TokenSecret, appCfg.TokenTTL)
	if err != nil {
		logger.Error("token service init failed", zap.Error(err))
		return nil, err
	}

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, tokens, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	sessionMgr.SetRevoker(rt.Sessions)
	sessionMgr.OnSessionEnd(func(sessionID string) { rt.Desks.Drop(sessionID) })

	creds, err := loginfeature.NewCredentials(appCfg.AdminEmail, appCfg.AdminPassword, appCfg.AdminPasswordHash)
	if err != nil {
		logger.Error("admin credentials invalid", zap.Error(err))
		return nil, err
	}

	auditLog := auditlog.New(rt.Audit, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health and metrics stay outside the session middleware.
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(sr chi.Router) {
		// Loads the identity into context if the request carries a valid token.
		sr.Use(sessionMgr.LoadSessionUser)

		loginHandler := loginfeature.NewHandler(sessionMgr, creds, rt.Sessions, auditLog, errLog, logger)
		sr.Mount("/login", loginfeature.Routes(loginHandler, sessionMgr))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, rt.Sessions, auditLog, logger)
		sr.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

		sr.Mount("/admin", adminRoutes(appCfg, deps, sessionMgr, auditLog, errLog, logger))
	})

	return r, nil
}

func adminRoutes(appCfg AppConfig, deps DBDeps, sm *auth.SessionManager, auditLog *auditlog.Logger, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) chi.Router {
	db := deps.MongoDatabase
	desks := deps.Runtime.Desks
	pageSize := appCfg.DefaultPageSize

	userStore := records.New[models.User](db, models.CollUsers)
	postStore := records.New[models.Post](db, models.CollPosts)
	reportStore := records.New[models.Report](db, models.CollReports)
	contactStore := records.New[models.Contact](db, models.CollContacts)
	deletionStore := records.New[models.DeletionRequest](db, models.CollDeletions)
	waitlistStore := records.New[models.WaitlistEntry](db, models.CollWaitlist)

	r := chi.NewRouter()

	counts := metricsstore.Sources{
		Waitlist:  waitlistStore,
		Contacts:  contactStore,
		Reports:   reportStore,
		Deletions: deletionStore,
	}
	dashboardHandler := dashboardfeature.NewHandler(userStore, postStore, counts, sm, errLog, logger)
	r.Mount("/", dashboardfeature.Routes(dashboardHandler, sm))

	r.Mount("/me", mefeature.Routes(mefeature.NewHandler(), sm))

	heartbeatHandler := heartbeatfeature.NewHandler(deps.Runtime.Sessions, desks, logger)
	r.Mount("/heartbeat", heartbeatfeature.Routes(heartbeatHandler, sm))

	usersHandler := usersfeature.NewHandler(userStore, sm, desks, pageSize, errLog, logger)
	usersHandler.List.Audit = auditLog
	r.Mount("/users", usersfeature.Routes(usersHandler, sm))

	postsHandler := postsfeature.NewHandler(postStore, sm, desks, pageSize, errLog, logger)
	postsHandler.List.Audit = auditLog
	r.Mount("/posts", postsfeature.Routes(postsHandler, sm))

	reportsHandler := reportsfeature.NewHandler(reportStore, sm, desks, pageSize, errLog, logger)
	reportsHandler.List.Audit = auditLog
	r.Mount("/reports", reportsfeature.Routes(reportsHandler, sm))

	contactHandler := contactfeature.NewHandler(contactStore, sm, desks, pageSize, errLog, logger)
	contactHandler.List.Audit = auditLog
	r.Mount("/contacts", contactfeature.Routes(contactHandler, sm))

	deletionsHandler := deletionsfeature.NewHandler(deletionStore, sm, desks, pageSize, errLog, logger)
	deletionsHandler.List.Audit = auditLog
	r.Mount("/deletions", deletionsfeature.Routes(deletionsHandler, sm))

	waitlistHandler := waitlistfeature.NewHandler(waitlistStore, sm, desks, pageSize, errLog, logger)
	waitlistHandler.List.Audit = auditLog
	r.Mount("/waitlist", waitlistfeature.Routes(waitlistHandler, sm))

	auditHandler := auditfeature.NewHandler(deps.Runtime.Audit, errLog, logger)
	r.Mount("/audit", auditfeature.Routes(auditHandler, sm))

	return r
}
