package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talentflow/talentflow/internal/models"
)

// GET /assessments/:jobId
func (s *Server) handleGetAssessment(c *gin.Context) {
	structure, err := s.store.GetOrCreateAssessment(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		s.logger.Error("get assessment failed", "error", err, "jobId", c.Param("jobId"))
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, structure)
}

// PUT /assessments/:jobId
func (s *Server) handlePutAssessment(c *gin.Context) {
	var structure models.AssessmentStructure
	if err := c.ShouldBindJSON(&structure); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid assessment structure."})
		return
	}

	writeStart := time.Now()
	err := s.store.PutAssessment(c.Request.Context(), c.Param("jobId"), structure)
	s.recordWrite(writeStart, err)
	if err != nil {
		s.logger.Error("put assessment failed", "error", err, "jobId", c.Param("jobId"))
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Assessment saved successfully."})
}

// POST /assessments/:jobId/submit
func (s *Server) handleSubmitResponse(c *gin.Context) {
	var sub models.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if sub.CandidateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "candidateId is required"})
		return
	}

	writeStart := time.Now()
	err := s.store.SubmitResponse(c.Request.Context(), c.Param("jobId"), sub)
	s.recordWrite(writeStart, err)
	if err != nil {
		s.logger.Error("submit response failed", "error", err, "jobId", c.Param("jobId"))
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Response submitted successfully."})
}
