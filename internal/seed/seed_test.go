package seed

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/talentflow/talentflow/internal/db"
	"github.com/talentflow/talentflow/internal/models"
)

// memStore is an in-memory stand-in for the persistence layer, covering the
// subset of operations the seeder drives.
type memStore struct {
	jobs        map[string]*models.Job
	jobOrder    int
	candidates  []models.Candidate
	assessments map[string]models.AssessmentStructure
}

func newMemStore() *memStore {
	return &memStore{
		jobs:        make(map[string]*models.Job),
		assessments: make(map[string]models.AssessmentStructure),
	}
}

func (m *memStore) CreateJob(_ context.Context, input models.JobInput) (*models.Job, error) {
	m.jobOrder++
	job := &models.Job{
		ID:     surrealmodels.RecordID{Table: "job", ID: uuid.NewString()},
		Title:  input.Title,
		Slug:   models.Slugify(input.Title),
		Status: models.JobStatusActive,
		Tags:   input.Tags,
		Order:  m.jobOrder,
	}
	m.jobs[models.MustRecordIDString(job.ID)] = job
	return job, nil
}

func (m *memStore) GetJob(_ context.Context, id string) (*models.Job, error) {
	job, ok := m.jobs[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return job, nil
}

func (m *memStore) UpdateJob(_ context.Context, id string, patch models.JobPatch) (*models.Job, error) {
	job, ok := m.jobs[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	if patch.Status != nil {
		job.Status = *patch.Status
	}
	return job, nil
}

func (m *memStore) ListJobs(context.Context, models.JobFilter) (models.JobPage, error) {
	page := models.JobPage{Meta: models.PageMeta{Total: len(m.jobs)}}
	for _, job := range m.jobs {
		page.Data = append(page.Data, *job)
	}
	return page, nil
}

func (m *memStore) ReorderJob(context.Context, string, int) error { return nil }

func (m *memStore) CreateCandidate(_ context.Context, input models.CandidateInput) (*models.Candidate, error) {
	if _, ok := m.jobs[input.JobID]; !ok {
		return nil, db.ErrNotFound
	}
	c := models.Candidate{
		ID:    surrealmodels.RecordID{Table: "candidate", ID: uuid.NewString()},
		Name:  input.Name,
		Email: input.Email,
		Stage: input.Stage,
		JobID: input.JobID,
	}
	m.candidates = append(m.candidates, c)
	return &c, nil
}

func (m *memStore) GetCandidate(context.Context, string) (*models.Candidate, error) {
	return nil, db.ErrNotFound
}

func (m *memStore) ListCandidates(context.Context, models.CandidateFilter) (models.CandidateList, error) {
	list := models.CandidateList{Data: m.candidates}
	list.Meta.Total = len(m.candidates)
	return list, nil
}

func (m *memStore) TransitionStage(context.Context, string, models.Stage) (*models.Candidate, error) {
	return nil, db.ErrNotFound
}

func (m *memStore) Timeline(context.Context, string) ([]models.TimelineEvent, error) {
	return nil, nil
}

func (m *memStore) GetOrCreateAssessment(context.Context, string) (*models.AssessmentStructure, error) {
	return nil, db.ErrNotFound
}

func (m *memStore) PutAssessment(_ context.Context, jobID string, structure models.AssessmentStructure) error {
	if err := structure.Validate(); err != nil {
		return err
	}
	m.assessments[jobID] = structure
	return nil
}

func (m *memStore) SubmitResponse(context.Context, string, models.Submission) error {
	return nil
}

func TestSeedPopulatesStore(t *testing.T) {
	store := newMemStore()
	s := New(store, slog.New(slog.DiscardHandler),
		WithSeed(42),
		WithCounts(Counts{Jobs: 10, Candidates: 40, Assessments: 3}))

	done, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, done.Jobs)
	assert.Len(t, store.jobs, 10)
	assert.Len(t, store.candidates, 40)
	assert.Len(t, store.assessments, 3)

	for _, c := range store.candidates {
		assert.True(t, models.ValidStage(c.Stage))
		assert.Contains(t, store.jobs, c.JobID, "every candidate must reference a seeded job")
		assert.NotEmpty(t, c.Name)
		assert.NotEmpty(t, c.Email)
	}

	for _, structure := range store.assessments {
		require.NoError(t, structure.Validate())
		require.Len(t, structure.Sections, 1)
		assert.Len(t, structure.Sections[0].Questions, 12)
	}
}

func TestSeedSkipsWhenDataExists(t *testing.T) {
	store := newMemStore()
	_, err := store.CreateJob(context.Background(), models.JobInput{Title: "Existing Role"})
	require.NoError(t, err)

	s := New(store, slog.New(slog.DiscardHandler), WithSeed(1))
	done, err := s.Run(context.Background())

	require.NoError(t, err)
	assert.Zero(t, done.Jobs)
	assert.Len(t, store.jobs, 1, "existing data must be left alone")
	assert.Empty(t, store.candidates)
}

func TestSeedDeterministicWithSameSeed(t *testing.T) {
	run := func() []string {
		store := newMemStore()
		s := New(store, slog.New(slog.DiscardHandler),
			WithSeed(7),
			WithCounts(Counts{Jobs: 5, Candidates: 5, Assessments: 1}))
		_, err := s.Run(context.Background())
		require.NoError(t, err)

		titles := make([]string, 0, len(store.jobs))
		for _, job := range store.jobs {
			titles = append(titles, job.Title)
		}
		return titles
	}

	first := run()
	second := run()
	assert.ElementsMatch(t, first, second)
}
