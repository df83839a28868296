package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"

	"github.com/talentflow/talentflow/internal/models"
)

// CreateCandidate inserts a new application at the default stage and writes
// the opening timeline event in the same transaction.
func (c *Client) CreateCandidate(ctx context.Context, input models.CandidateInput) (*models.Candidate, error) {
	if input.JobID == "" {
		return nil, fmt.Errorf("create candidate: %w: jobId is required", ErrValidation)
	}
	if _, err := c.GetJob(ctx, input.JobID); err != nil {
		return nil, fmt.Errorf("create candidate: %w", err)
	}

	stage := input.Stage
	if stage == "" {
		stage = models.StageApplied
	}
	if !models.ValidStage(stage) {
		return nil, fmt.Errorf("create candidate: %w: %q", ErrInvalidStage, stage)
	}

	id := uuid.NewString()
	_, err := surrealdb.Query[any](ctx, c.db, `
		BEGIN TRANSACTION;
		CREATE type::record("candidate", $id) CONTENT {
			name: $name,
			email: $email,
			stage: $stage,
			job_id: $job_id,
			applied_at: time::now()
		};
		CREATE timeline CONTENT {
			candidate_id: $id,
			message: 'Application received.',
			new_stage: $stage,
			timestamp: time::now()
		};
		COMMIT TRANSACTION;
	`, map[string]any{
		"id":     id,
		"name":   input.Name,
		"email":  input.Email,
		"stage":  stage,
		"job_id": input.JobID,
	})
	if err != nil {
		return nil, fmt.Errorf("create candidate: %w", wrapQueryError(err))
	}

	return c.GetCandidate(ctx, id)
}

// GetCandidate retrieves a candidate by id.
func (c *Client) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	results, err := surrealdb.Query[[]models.Candidate](ctx, c.db, `
		SELECT * FROM type::record("candidate", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get candidate: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("get candidate %q: %w", id, ErrNotFound)
	}
	return &(*results)[0].Result[0], nil
}

// ListCandidates returns every candidate matching the filter. The kanban
// board renders the full set, so there is no pagination; meta.total is the
// match count. Search is a case-insensitive substring match against name
// or email.
func (c *Client) ListCandidates(ctx context.Context, filter models.CandidateFilter) (models.CandidateList, error) {
	clauses := []string{}
	vars := map[string]any{}
	if filter.Stage != "" {
		clauses = append(clauses, "stage = $stage")
		vars["stage"] = filter.Stage
	}
	if filter.JobID != "" {
		clauses = append(clauses, "job_id = $job_id")
		vars["job_id"] = filter.JobID
	}

	sql := "SELECT * FROM candidate"
	if len(clauses) > 0 {
		sql += " WHERE " + strings.Join(clauses, " AND ")
	}
	sql += " ORDER BY applied_at ASC"

	results, err := surrealdb.Query[[]models.Candidate](ctx, c.db, sql, vars)
	if err != nil {
		return models.CandidateList{}, fmt.Errorf("list candidates: %w", err)
	}

	var candidates []models.Candidate
	if results != nil && len(*results) > 0 {
		candidates = (*results)[0].Result
	}

	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		filtered := candidates[:0:0]
		for _, cand := range candidates {
			if strings.Contains(strings.ToLower(cand.Name), search) ||
				strings.Contains(strings.ToLower(cand.Email), search) {
				filtered = append(filtered, cand)
			}
		}
		candidates = filtered
	}

	list := models.CandidateList{Data: candidates}
	list.Meta.Total = len(candidates)
	return list, nil
}

// TransitionStage moves a candidate to newStage and appends the matching
// timeline event, both in one transaction.
//
// An empty newStage, or one equal to the current stage, is a no-op that
// returns the record unchanged: no write, no updated_at bump. A stage
// outside the defined set is rejected and never persisted.
func (c *Client) TransitionStage(ctx context.Context, id string, newStage models.Stage) (*models.Candidate, error) {
	candidate, err := c.GetCandidate(ctx, id)
	if err != nil {
		return nil, err
	}

	if newStage == "" || newStage == candidate.Stage {
		return candidate, nil
	}
	if !models.ValidStage(newStage) {
		return nil, fmt.Errorf("transition stage: %w: %q", ErrInvalidStage, newStage)
	}

	_, err = surrealdb.Query[any](ctx, c.db, `
		BEGIN TRANSACTION;
		UPDATE type::record("candidate", $id) SET
			stage = $new_stage,
			updated_at = time::now();
		CREATE timeline CONTENT {
			candidate_id: $id,
			message: $message,
			old_stage: $old_stage,
			new_stage: $new_stage,
			timestamp: time::now()
		};
		COMMIT TRANSACTION;
	`, map[string]any{
		"id":        id,
		"old_stage": candidate.Stage,
		"new_stage": newStage,
		"message":   fmt.Sprintf("Moved to %s stage.", newStage),
	})
	if err != nil {
		return nil, fmt.Errorf("transition stage: %w", wrapQueryError(err))
	}

	return c.GetCandidate(ctx, id)
}

// Timeline returns a candidate's status history, oldest first.
func (c *Client) Timeline(ctx context.Context, candidateID string) ([]models.TimelineEvent, error) {
	results, err := surrealdb.Query[[]models.TimelineEvent](ctx, c.db, `
		SELECT * FROM timeline
		WHERE candidate_id = $candidate_id
		ORDER BY timestamp ASC
	`, map[string]any{"candidate_id": candidateID})
	if err != nil {
		return nil, fmt.Errorf("timeline: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return []models.TimelineEvent{}, nil
	}
	return (*results)[0].Result, nil
}
