package ui

import (
	"context"
	"encoding/json"
	"net/http"

	"hrdash/domain/snapshot"
	"hrdash/internal"
	"hrdash/internal/errors"
	"hrdash/internal/watch"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Reloader is the part of the dashboard the admin router drives
type Reloader interface {
	Reload(ctx context.Context) (snapshot.Info, error)
	Snapshot(ctx context.Context) (snapshot.Info, error)
}

// Admin is the operator-facing router: health, manual reload, watcher stats
// and pprof. It listens on the profiling port, away from the public API.
type Admin struct {
	router   *chi.Mux
	reloader Reloader
	watcher  *watch.FileWatcher
	logger   *internal.Logger
}

// NewAdmin creates the admin router. watcher may be nil.
func NewAdmin(reloader Reloader, watcher *watch.FileWatcher, logger *internal.Logger) *Admin {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	a := &Admin{
		router:   chi.NewRouter(),
		reloader: reloader,
		watcher:  watcher,
		logger:   logger.WithComponent("Admin"),
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *Admin) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
}

// setupRoutes configures the admin routes
func (a *Admin) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)
	a.router.Post("/reload", a.handleReload)
	a.router.Get("/watch", a.handleWatch)
	a.router.Mount("/debug", middleware.Profiler())
}

// Handler exposes the router for http.Server and tests
func (a *Admin) Handler() http.Handler { return a.router }

func (a *Admin) handleHealth(w http.ResponseWriter, r *http.Request) {
	info, err := a.reloader.Snapshot(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "snapshot": info})
}

func (a *Admin) handleReload(w http.ResponseWriter, r *http.Request) {
	info, err := a.reloader.Reload(r.Context())
	if err != nil {
		writeJSON(w, StatusFor(err), map[string]interface{}{"error": err.Error(), "code": errors.GetCode(err)})
		return
	}
	a.logger.Info("reloaded via admin: snapshot %s (%d rows)", info.ID, info.Rows)
	writeJSON(w, http.StatusOK, map[string]interface{}{"snapshot": info})
}

func (a *Admin) handleWatch(w http.ResponseWriter, r *http.Request) {
	if a.watcher == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"enabled": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"enabled": true, "stats": a.watcher.Stats()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
