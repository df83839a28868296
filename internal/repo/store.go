package repo

import (
	"context"

	"github.com/talentflow/talentflow/internal/models"
)

// Store is the persistence surface the direct backend needs. *db.Client
// implements it.
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

// StoreRepositories builds the backend that bypasses HTTP and the chaos
// boundary entirely, talking straight to the store. The seeder and the CLI's
// local commands use it.
func StoreRepositories(s Store) Repositories {
	titles := NewTitleCache(&storeJobs{s: s})
	return Repositories{
		Jobs:        titles.BindJobs(),
		Candidates:  &storeCandidates{s: s},
		Assessments: &storeAssessments{s: s},
		Titles:      titles,
	}
}

type storeJobs struct {
	s Store
}

func (r *storeJobs) List(ctx context.Context, filter models.JobFilter) (models.JobPage, error) {
	return r.s.ListJobs(ctx, filter)
}

func (r *storeJobs) Create(ctx context.Context, input models.JobInput) (*models.Job, error) {
	return r.s.CreateJob(ctx, input)
}

func (r *storeJobs) Get(ctx context.Context, id string) (*models.Job, error) {
	return r.s.GetJob(ctx, id)
}

func (r *storeJobs) Update(ctx context.Context, id string, patch models.JobPatch) (*models.Job, error) {
	return r.s.UpdateJob(ctx, id, patch)
}

// Reorder discards fromOrder; the store locates the job's current rank
// itself, so only the destination matters here.
func (r *storeJobs) Reorder(ctx context.Context, id string, fromOrder, toOrder int) error {
	return r.s.ReorderJob(ctx, id, toOrder)
}

type storeCandidates struct {
	s Store
}

func (r *storeCandidates) List(ctx context.Context, filter models.CandidateFilter) (models.CandidateList, error) {
	return r.s.ListCandidates(ctx, filter)
}

func (r *storeCandidates) Create(ctx context.Context, input models.CandidateInput) (*models.Candidate, error) {
	return r.s.CreateCandidate(ctx, input)
}

func (r *storeCandidates) Get(ctx context.Context, id string) (*models.Candidate, error) {
	return r.s.GetCandidate(ctx, id)
}

func (r *storeCandidates) Move(ctx context.Context, id string, stage models.Stage) (*models.Candidate, error) {
	return r.s.TransitionStage(ctx, id, stage)
}

func (r *storeCandidates) Timeline(ctx context.Context, id string) ([]models.TimelineEvent, error) {
	return r.s.Timeline(ctx, id)
}

type storeAssessments struct {
	s Store
}

func (r *storeAssessments) Get(ctx context.Context, jobID string) (*models.AssessmentStructure, error) {
	return r.s.GetOrCreateAssessment(ctx, jobID)
}

func (r *storeAssessments) Put(ctx context.Context, jobID string, structure models.AssessmentStructure) error {
	return r.s.PutAssessment(ctx, jobID, structure)
}

func (r *storeAssessments) Submit(ctx context.Context, jobID string, sub models.Submission) error {
	return r.s.SubmitResponse(ctx, jobID, sub)
}
