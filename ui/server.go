package ui

import (
	"context"
	"net/http"

	"hrdash/app"
	"hrdash/domain/snapshot"
	"hrdash/internal"
	"hrdash/internal/errors"
	"hrdash/internal/filter"
	"hrdash/internal/profiling"
	"hrdash/internal/views"

	"github.com/gin-gonic/gin"
)

// Dashboard is what the API serves. app.DashboardService implements it.
type Dashboard interface {
	Overview(ctx context.Context) (*app.Overview, error)
	Options(ctx context.Context) ([]app.FilterOption, error)
	View(ctx context.Context, spec filter.Spec, req views.Request) (views.Result, error)
	RenderTab(ctx context.Context, spec filter.Spec, key string) (*app.RenderedTab, error)
	RenderAll(ctx context.Context, spec filter.Spec) ([]app.RenderedTab, error)
	Columns(ctx context.Context, spec filter.Spec) ([]profiling.ColumnProfile, error)
	Reload(ctx context.Context) (snapshot.Info, error)
	Snapshot(ctx context.Context) (snapshot.Info, error)
}

// Server is the public JSON API
type Server struct {
	router    *gin.Engine
	dashboard Dashboard
	logger    *internal.Logger
}

// ViewRequest is the body of POST /api/views. A filter column mapped to an
// empty list selects no rows.
type ViewRequest struct {
	Filters filter.Spec   `json:"filters"`
	View    views.Request `json:"view"`
}

// NewServer creates the API server and registers its routes
func NewServer(dashboard Dashboard, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	s := &Server{
		router:    gin.Default(),
		dashboard: dashboard,
		logger:    logger.WithComponent("API"),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/dashboard", s.handleDashboard)
	api.GET("/filters", s.handleFilters)
	api.GET("/columns", s.handleColumns)
	api.GET("/tabs", s.handleTabs)
	api.GET("/tabs/:key", s.handleTab)
	api.POST("/views", s.handleView)
	api.POST("/reload", s.handleReload)
}

// Handler exposes the router for http.Server and tests
func (s *Server) Handler() http.Handler { return s.router }

// handleHealth reports liveness and, once loaded, the current snapshot
func (s *Server) handleHealth(c *gin.Context) {
	info, err := s.dashboard.Snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "snapshot": info})
}

func (s *Server) handleDashboard(c *gin.Context) {
	overview, err := s.dashboard.Overview(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (s *Server) handleFilters(c *gin.Context) {
	options, err := s.dashboard.Options(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"filters": options})
}

// handleColumns profiles the columns under the query-string selection
func (s *Server) handleColumns(c *gin.Context) {
	columns, err := s.dashboard.Columns(c.Request.Context(), filtersFromQuery(c.Request.URL.Query()))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

// handleTabs renders every tab under the query-string selection
func (s *Server) handleTabs(c *gin.Context) {
	tabs, err := s.dashboard.RenderAll(c.Request.Context(), filtersFromQuery(c.Request.URL.Query()))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tabs": tabs})
}

func (s *Server) handleTab(c *gin.Context) {
	tab, err := s.dashboard.RenderTab(c.Request.Context(), filtersFromQuery(c.Request.URL.Query()), c.Param("key"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tab)
}

func (s *Server) handleView(c *gin.Context) {
	var req ViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	res, err := s.dashboard.View(c.Request.Context(), req.Filters, req.View)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleReload(c *gin.Context) {
	info, err := s.dashboard.Reload(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.logger.Info("reloaded via API: snapshot %s (%d rows)", info.ID, info.Rows)
	c.JSON(http.StatusOK, gin.H{"snapshot": info})
}

// respondError writes {error, code} with the status matching the error code
func (s *Server) respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	code := errors.GetCode(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		s.logger.Debug("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

// StatusFor maps an error code to an HTTP status
func StatusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidColumn, errors.CodeUnknownColumn, errors.CodeTypeMismatch, errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
