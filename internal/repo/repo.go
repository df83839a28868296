// Package repo defines the data-access interfaces the board coordinators
// consume, with two interchangeable backends: one over the HTTP API (subject
// to the chaos boundary) and one directly over the store.
package repo

import (
	"context"

	"github.com/talentflow/talentflow/internal/models"
)

// JobRepository is the jobs data-access surface.
type JobRepository interface {
	List(ctx context.Context, filter models.JobFilter) (models.JobPage, error)
	Create(ctx context.Context, input models.JobInput) (*models.Job, error)
	Get(ctx context.Context, id string) (*models.Job, error)
	Update(ctx context.Context, id string, patch models.JobPatch) (*models.Job, error)
	Reorder(ctx context.Context, id string, fromOrder, toOrder int) error
}

// CandidateRepository is the candidates data-access surface.
type CandidateRepository interface {
	List(ctx context.Context, filter models.CandidateFilter) (models.CandidateList, error)
	Create(ctx context.Context, input models.CandidateInput) (*models.Candidate, error)
	Get(ctx context.Context, id string) (*models.Candidate, error)
	Move(ctx context.Context, id string, stage models.Stage) (*models.Candidate, error)
	Timeline(ctx context.Context, id string) ([]models.TimelineEvent, error)
}

// AssessmentRepository is the assessments data-access surface.
type AssessmentRepository interface {
	Get(ctx context.Context, jobID string) (*models.AssessmentStructure, error)
	Put(ctx context.Context, jobID string, structure models.AssessmentStructure) error
	Submit(ctx context.Context, jobID string, sub models.Submission) error
}

// Repositories bundles the three data-access surfaces of one backend.
// Jobs is bound to Titles, so job reads warm the cache and job updates
// invalidate it.
type Repositories struct {
	Jobs        JobRepository
	Candidates  CandidateRepository
	Assessments AssessmentRepository
	Titles      *TitleCache
}
