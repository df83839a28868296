package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"

	"github.com/talentflow/talentflow/internal/models"
)

// defaultStructure is the skeleton handed out for jobs that have no saved
// assessment yet.
func defaultStructure() models.AssessmentStructure {
	return models.AssessmentStructure{
		Title: "New Job Assessment",
		Sections: []models.Section{
			{
				ID:        uuid.NewString(),
				Title:     "Section 1: General Questions",
				Questions: []models.Question{},
			},
		},
	}
}

// GetOrCreateAssessment returns the assessment structure for a job, creating
// and persisting the default skeleton on first access.
func (c *Client) GetOrCreateAssessment(ctx context.Context, jobID string) (*models.AssessmentStructure, error) {
	results, err := surrealdb.Query[[]models.Assessment](ctx, c.db, `
		SELECT * FROM type::record("assessment", $job_id)
	`, map[string]any{"job_id": jobID})
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}

	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return &(*results)[0].Result[0].Structure, nil
	}

	structure := defaultStructure()
	if err := c.PutAssessment(ctx, jobID, structure); err != nil {
		return nil, err
	}
	return &structure, nil
}

// PutAssessment validates and upserts a job's assessment structure.
// Assessments are keyed by job id, so saving twice overwrites.
func (c *Client) PutAssessment(ctx context.Context, jobID string, structure models.AssessmentStructure) error {
	if err := structure.Validate(); err != nil {
		return fmt.Errorf("put assessment: %w", err)
	}

	_, err := surrealdb.Query[any](ctx, c.db, `
		UPSERT type::record("assessment", $job_id) CONTENT {
			job_id: $job_id,
			structure: $structure
		}
	`, map[string]any{
		"job_id":    jobID,
		"structure": structure,
	})
	if err != nil {
		return fmt.Errorf("put assessment: %w", wrapQueryError(err))
	}
	return nil
}

// SubmitResponse stores a candidate's answers for a job's assessment,
// overwriting any earlier submission for the same (candidate, job) pair.
func (c *Client) SubmitResponse(ctx context.Context, jobID string, sub models.Submission) error {
	if sub.CandidateID == "" {
		return fmt.Errorf("submit response: %w: candidateId is required", ErrValidation)
	}

	// Compound record id keeps resubmission an overwrite, not an append.
	key := sub.CandidateID + ":" + jobID
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPSERT type::record("candidate_response", $key) CONTENT {
			candidate_id: $candidate_id,
			job_id: $job_id,
			responses: $responses,
			submitted_at: time::now()
		}
	`, map[string]any{
		"key":          key,
		"candidate_id": sub.CandidateID,
		"job_id":       jobID,
		"responses":    sub.Responses,
	})
	if err != nil {
		return fmt.Errorf("submit response: %w", wrapQueryError(err))
	}
	return nil
}

// GetResponse returns a candidate's submission for a job, or ErrNotFound.
func (c *Client) GetResponse(ctx context.Context, candidateID, jobID string) (*models.CandidateResponse, error) {
	results, err := surrealdb.Query[[]models.CandidateResponse](ctx, c.db, `
		SELECT * FROM type::record("candidate_response", $key)
	`, map[string]any{"key": candidateID + ":" + jobID})
	if err != nil {
		return nil, fmt.Errorf("get response: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("get response: %w", ErrNotFound)
	}
	return &(*results)[0].Result[0], nil
}
