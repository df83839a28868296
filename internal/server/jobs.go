package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talentflow/talentflow/internal/db"
	"github.com/talentflow/talentflow/internal/metrics"
	"github.com/talentflow/talentflow/internal/models"
)

// respondStoreError maps store sentinels onto the HTTP error contract.
func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, db.ErrNotActive):
		// Reorder aborted mid-transaction; the caller's rollback path owns recovery.
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	case errors.Is(err, db.ErrInvalidStage):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
	case errors.Is(err, db.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, models.ErrInvalidStructure):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
	}
}

// recordWrite times one store mutation under the shared store_write op.
// Every mutating endpoint funnels its persistence call through this, so
// /stats exposes write latency and failure counts across the whole API.
func (s *Server) recordWrite(start time.Time, err error) {
	if err != nil {
		s.stats.RecordFailure(metrics.OpStoreWrite, time.Since(start))
		return
	}
	s.stats.RecordTiming(metrics.OpStoreWrite, time.Since(start))
}

// GET /jobs?search=&status=&page=&pageSize=&sort=
func (s *Server) handleListJobs(c *gin.Context) {
	start := time.Now()

	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize"))

	filter := models.JobFilter{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
		Sort:     c.DefaultQuery("sort", "order"),
	}

	result, err := s.store.ListJobs(c.Request.Context(), filter)
	if err != nil {
		s.logger.Error("list jobs failed", "error", err)
		respondStoreError(c, err)
		return
	}

	s.stats.RecordTiming(metrics.OpJobsList, time.Since(start))
	c.JSON(http.StatusOK, result)
}

// POST /jobs
func (s *Server) handleCreateJob(c *gin.Context) {
	var input models.JobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if input.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Title is required"})
		return
	}

	writeStart := time.Now()
	job, err := s.store.CreateJob(c.Request.Context(), input)
	s.recordWrite(writeStart, err)
	if err != nil {
		s.logger.Error("create job failed", "error", err)
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// GET /jobs/:id
func (s *Server) handleGetJob(c *gin.Context) {
	job, err := s.store.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// PATCH /jobs/:id
func (s *Server) handleUpdateJob(c *gin.Context) {
	var patch models.JobPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	writeStart := time.Now()
	job, err := s.store.UpdateJob(c.Request.Context(), c.Param("id"), patch)
	s.recordWrite(writeStart, err)
	if err != nil {
		s.logger.Error("update job failed", "error", err, "id", c.Param("id"))
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// reorderRequest carries the 1-based source and destination ranks. Pointers
// distinguish "absent" from zero: both parameters are required.
type reorderRequest struct {
	FromOrder *int `json:"fromOrder"`
	ToOrder   *int `json:"toOrder"`
}

// PATCH /jobs/:id/reorder
func (s *Server) handleReorderJob(c *gin.Context) {
	start := time.Now()

	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing order parameters"})
		return
	}
	if req.FromOrder == nil || req.ToOrder == nil || *req.FromOrder < 1 || *req.ToOrder < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing order parameters"})
		return
	}

	writeStart := time.Now()
	err := s.store.ReorderJob(c.Request.Context(), c.Param("id"), *req.ToOrder)
	s.recordWrite(writeStart, err)
	if err != nil {
		s.logger.Error("reorder failed", "error", err, "id", c.Param("id"),
			"from", *req.FromOrder, "to", *req.ToOrder)
		s.stats.RecordFailure(metrics.OpJobReorder, time.Since(start))
		respondStoreError(c, err)
		return
	}

	s.stats.RecordTiming(metrics.OpJobReorder, time.Since(start))
	c.JSON(http.StatusOK, gin.H{"message": "Reorder successful"})
}
