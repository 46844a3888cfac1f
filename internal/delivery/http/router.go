package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/carewell-health/carewell/internal/delivery/http/handler"
	"github.com/carewell-health/carewell/internal/delivery/http/middleware"
)

type Router struct {
	router            *mux.Router
	userHandler       *handler.UserHandler
	auditLogHandler   *handler.AuditLogHandler
	pageHandler       *handler.PageHandler
	accessMiddleware  *middleware.AccessMiddleware
	sessionMiddleware *middleware.SessionMiddleware
	corsMiddleware    *middleware.CORSMiddleware
}

func NewRouter(
	userHandler *handler.UserHandler,
	auditLogHandler *handler.AuditLogHandler,
	pageHandler *handler.PageHandler,
	accessMiddleware *middleware.AccessMiddleware,
	sessionMiddleware *middleware.SessionMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		userHandler:       userHandler,
		auditLogHandler:   auditLogHandler,
		pageHandler:       pageHandler,
		accessMiddleware:  accessMiddleware,
		sessionMiddleware: sessionMiddleware,
		corsMiddleware:    corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning. The whole /api prefix is excluded from the page
	// gate; these routes authenticate explicitly.
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Admin routes (protected - session required)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.sessionMiddleware.Authenticate)

	// Role metadata for the management UI
	admin.HandleFunc("/roles", r.userHandler.GetRoles).Methods(http.MethodGet)
	admin.HandleFunc("/roles/assignable", r.userHandler.GetAssignableRoles).Methods(http.MethodGet)

	// User directory and role changes (manage_users permission)
	users := admin.PathPrefix("/users").Subrouter()
	users.Use(middleware.RequireManageUsers)
	users.HandleFunc("", r.userHandler.GetUsers).Methods(http.MethodGet)
	users.HandleFunc("/{id}/role", r.userHandler.ChangeRole).Methods(http.MethodPut)

	// Audit trail (admin roles only)
	auditLogs := admin.PathPrefix("/audit-logs").Subrouter()
	auditLogs.Use(middleware.RequireAdmin)
	auditLogs.HandleFunc("", r.auditLogHandler.GetAuditLogs).Methods(http.MethodGet)
	auditLogs.HandleFunc("/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Every site page goes through the access gate before rendering.
	pages := r.router.PathPrefix("/").Subrouter()
	pages.Use(r.accessMiddleware.Gate)
	pages.PathPrefix("/").HandlerFunc(r.pageHandler.Shell)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
