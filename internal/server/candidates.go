package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talentflow/talentflow/internal/metrics"
	"github.com/talentflow/talentflow/internal/models"
)

// GET /candidates?search=&stage=&jobId=
func (s *Server) handleListCandidates(c *gin.Context) {
	start := time.Now()

	filter := models.CandidateFilter{
		Search: c.Query("search"),
		Stage:  models.Stage(c.Query("stage")),
		JobID:  c.Query("jobId"),
	}

	result, err := s.store.ListCandidates(c.Request.Context(), filter)
	if err != nil {
		s.logger.Error("list candidates failed", "error", err)
		respondStoreError(c, err)
		return
	}

	s.stats.RecordTiming(metrics.OpCandidateList, time.Since(start))
	c.JSON(http.StatusOK, result)
}

// POST /candidates
func (s *Server) handleCreateCandidate(c *gin.Context) {
	var input models.CandidateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if input.JobID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "jobId is required"})
		return
	}

	writeStart := time.Now()
	candidate, err := s.store.CreateCandidate(c.Request.Context(), input)
	s.recordWrite(writeStart, err)
	if err != nil {
		s.logger.Error("create candidate failed", "error", err)
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, candidate)
}

// GET /candidates/:id
func (s *Server) handleGetCandidate(c *gin.Context) {
	candidate, err := s.store.GetCandidate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, candidate)
}

// stageRequest is the PATCH /candidates/:id payload.
type stageRequest struct {
	Stage models.Stage `json:"stage"`
}

// PATCH /candidates/:id
func (s *Server) handleTransitionStage(c *gin.Context) {
	start := time.Now()

	var req stageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	writeStart := time.Now()
	candidate, err := s.store.TransitionStage(c.Request.Context(), c.Param("id"), req.Stage)
	s.recordWrite(writeStart, err)
	if err != nil {
		s.logger.Error("stage transition failed", "error", err, "id", c.Param("id"), "stage", req.Stage)
		s.stats.RecordFailure(metrics.OpStageMove, time.Since(start))
		respondStoreError(c, err)
		return
	}

	s.stats.RecordTiming(metrics.OpStageMove, time.Since(start))
	c.JSON(http.StatusOK, candidate)
}

// GET /candidates/:id/timeline
func (s *Server) handleTimeline(c *gin.Context) {
	events, err := s.store.Timeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeline": events})
}
