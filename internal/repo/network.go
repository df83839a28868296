package repo

import (
	"context"

	"github.com/talentflow/talentflow/internal/client"
	"github.com/talentflow/talentflow/internal/models"
)

// NetworkRepositories builds the backend that goes through the HTTP API.
// Every call crosses the chaos boundary: latency on everything, simulated
// failures on mutations.
func NetworkRepositories(c *client.Client) Repositories {
	titles := NewTitleCache(&networkJobs{c: c})
	return Repositories{
		Jobs:        titles.BindJobs(),
		Candidates:  &networkCandidates{c: c},
		Assessments: &networkAssessments{c: c},
		Titles:      titles,
	}
}

type networkJobs struct {
	c *client.Client
}

func (r *networkJobs) List(ctx context.Context, filter models.JobFilter) (models.JobPage, error) {
	return r.c.ListJobs(ctx, filter)
}

func (r *networkJobs) Create(ctx context.Context, input models.JobInput) (*models.Job, error) {
	return r.c.CreateJob(ctx, input)
}

func (r *networkJobs) Get(ctx context.Context, id string) (*models.Job, error) {
	return r.c.GetJob(ctx, id)
}

func (r *networkJobs) Update(ctx context.Context, id string, patch models.JobPatch) (*models.Job, error) {
	return r.c.UpdateJob(ctx, id, patch)
}

func (r *networkJobs) Reorder(ctx context.Context, id string, fromOrder, toOrder int) error {
	return r.c.ReorderJob(ctx, id, fromOrder, toOrder)
}

type networkCandidates struct {
	c *client.Client
}

func (r *networkCandidates) List(ctx context.Context, filter models.CandidateFilter) (models.CandidateList, error) {
	return r.c.ListCandidates(ctx, filter)
}

func (r *networkCandidates) Create(ctx context.Context, input models.CandidateInput) (*models.Candidate, error) {
	return r.c.CreateCandidate(ctx, input)
}

func (r *networkCandidates) Get(ctx context.Context, id string) (*models.Candidate, error) {
	return r.c.GetCandidate(ctx, id)
}

func (r *networkCandidates) Move(ctx context.Context, id string, stage models.Stage) (*models.Candidate, error) {
	return r.c.TransitionStage(ctx, id, stage)
}

func (r *networkCandidates) Timeline(ctx context.Context, id string) ([]models.TimelineEvent, error) {
	return r.c.Timeline(ctx, id)
}

type networkAssessments struct {
	c *client.Client
}

func (r *networkAssessments) Get(ctx context.Context, jobID string) (*models.AssessmentStructure, error) {
	return r.c.GetAssessment(ctx, jobID)
}

func (r *networkAssessments) Put(ctx context.Context, jobID string, structure models.AssessmentStructure) error {
	return r.c.PutAssessment(ctx, jobID, structure)
}

func (r *networkAssessments) Submit(ctx context.Context, jobID string, sub models.Submission) error {
	return r.c.SubmitResponse(ctx, jobID, sub)
}
