// Package server exposes the TalentFlow hiring API over HTTP, with the chaos
// boundary in front of every route.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/talentflow/talentflow/internal/chaos"
	"github.com/talentflow/talentflow/internal/metrics"
	"github.com/talentflow/talentflow/internal/models"
)

// Store is the persistence surface the handlers need. *db.Client implements
// it; tests substitute a fake.
type Store interface {
	CreateJob(ctx context.Context, input models.JobInput) (*models.Job, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	UpdateJob(ctx context.Context, id string, patch models.JobPatch) (*models.Job, error)
	ListJobs(ctx context.Context, filter models.JobFilter) (models.JobPage, error)
	ReorderJob(ctx context.Context, jobID string, toOrder int) error

	CreateCandidate(ctx context.Context, input models.CandidateInput) (*models.Candidate, error)
	GetCandidate(ctx context.Context, id string) (*models.Candidate, error)
	ListCandidates(ctx context.Context, filter models.CandidateFilter) (models.CandidateList, error)
	TransitionStage(ctx context.Context, id string, newStage models.Stage) (*models.Candidate, error)
	Timeline(ctx context.Context, candidateID string) ([]models.TimelineEvent, error)

	GetOrCreateAssessment(ctx context.Context, jobID string) (*models.AssessmentStructure, error)
	PutAssessment(ctx context.Context, jobID string, structure models.AssessmentStructure) error
	SubmitResponse(ctx context.Context, jobID string, sub models.Submission) error
}

// Server wires the gin engine, the store and the chaos boundary together.
type Server struct {
	store    Store
	engine   *gin.Engine
	http     *http.Server
	logger   *slog.Logger
	stats    *metrics.Collector
	promHTTP *metrics.HTTPMetrics
}

// New builds a Server. The injector may be nil, in which case no chaos
// middleware is installed at all (direct-store test setups).
func New(addr string, store Store, injector *chaos.Injector, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	reg := prometheus.NewRegistry()
	s := &Server{
		store:    store,
		engine:   engine,
		logger:   logger,
		stats:    metrics.NewCollector(),
		promHTTP: metrics.NewHTTPMetrics(reg),
	}

	engine.Use(s.loggingMiddleware())

	// Operational routes sit outside the chaos boundary; a flaky /healthz
	// helps nobody.
	engine.GET("/healthz", s.handleHealthz)
	engine.GET("/stats", s.handleStats)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	api := engine.Group("/")
	if injector != nil {
		injector.SetFaultHook(func() {
			s.stats.RecordChaosFault()
			s.promHTTP.ChaosFaults.Inc()
		})
		api.Use(injector.Middleware())
	}

	api.GET("/jobs", s.handleListJobs)
	api.POST("/jobs", s.handleCreateJob)
	api.GET("/jobs/:id", s.handleGetJob)
	api.PATCH("/jobs/:id", s.handleUpdateJob)
	api.PATCH("/jobs/:id/reorder", s.handleReorderJob)

	api.GET("/candidates", s.handleListCandidates)
	api.POST("/candidates", s.handleCreateCandidate)
	api.GET("/candidates/:id", s.handleGetCandidate)
	api.PATCH("/candidates/:id", s.handleTransitionStage)
	api.GET("/candidates/:id/timeline", s.handleTimeline)

	api.GET("/assessments/:jobId", s.handleGetAssessment)
	api.PUT("/assessments/:jobId", s.handlePutAssessment)
	api.POST("/assessments/:jobId/submit", s.handleSubmitResponse)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler, for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Stats returns the in-memory operation statistics collector.
func (s *Server) Stats() *metrics.Collector {
	return s.stats
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.stats.Snapshot())
}
