// Package seed populates the store with generated hiring data: a jobs board
// worth of postings, a kanban worth of candidates and a few assessments.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/talentflow/talentflow/internal/models"
	"github.com/talentflow/talentflow/internal/repo"
)

// Counts configures how much data Run generates.
type Counts struct {
	Jobs        int
	Candidates  int
	Assessments int
}

// DefaultCounts mirrors a realistically busy board.
var DefaultCounts = Counts{Jobs: 25, Candidates: 1000, Assessments: 3}

var jobTags = []string{"Remote", "Senior", "Backend", "Frontend", "DevOps", "Design", "Data"}

// Seeder generates and writes fake hiring data through the store backend,
// bypassing the chaos boundary.
type Seeder struct {
	store  repo.Store
	logger *slog.Logger
	faker  *gofakeit.Faker
	counts Counts
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithCounts overrides DefaultCounts.
func WithCounts(c Counts) Option {
	return func(s *Seeder) {
		s.counts = c
	}
}

// WithSeed makes generation deterministic.
func WithSeed(seed uint64) Option {
	return func(s *Seeder) {
		s.faker = gofakeit.New(seed)
	}
}

// New creates a Seeder over the given store.
func New(store repo.Store, logger *slog.Logger, opts ...Option) *Seeder {
	s := &Seeder{
		store:  store,
		logger: logger,
		faker:  gofakeit.New(0),
		counts: DefaultCounts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run seeds the store. It is idempotent at the dataset level: when any jobs
// already exist the run is skipped entirely.
func (s *Seeder) Run(ctx context.Context) (Counts, error) {
	existing, err := s.store.ListJobs(ctx, models.JobFilter{Page: 1, PageSize: 1})
	if err != nil {
		return Counts{}, fmt.Errorf("check existing data: %w", err)
	}
	if existing.Meta.Total > 0 {
		s.logger.Info("store already seeded, skipping", "jobs", existing.Meta.Total)
		return Counts{}, nil
	}

	s.logger.Info("seeding store",
		"jobs", s.counts.Jobs, "candidates", s.counts.Candidates, "assessments", s.counts.Assessments)

	jobs, err := s.seedJobs(ctx)
	if err != nil {
		return Counts{}, err
	}

	if err := s.seedCandidates(ctx, jobs); err != nil {
		return Counts{}, err
	}

	if err := s.seedAssessments(ctx, jobs); err != nil {
		return Counts{}, err
	}

	done := Counts{Jobs: len(jobs), Candidates: s.counts.Candidates, Assessments: min(s.counts.Assessments, len(jobs))}
	s.logger.Info("seeding complete", "jobs", done.Jobs, "candidates", done.Candidates, "assessments", done.Assessments)
	return done, nil
}

// seedJobs creates the postings and archives roughly a fifth of them. The
// archived ones keep the order they were created with.
func (s *Seeder) seedJobs(ctx context.Context) ([]*models.Job, error) {
	jobs := make([]*models.Job, 0, s.counts.Jobs)
	for i := 0; i < s.counts.Jobs; i++ {
		input := models.JobInput{
			Title: s.faker.JobTitle(),
			Tags:  s.pickTags(),
		}
		job, err := s.store.CreateJob(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("seed job %d: %w", i+1, err)
		}

		if s.faker.Number(1, 5) == 1 {
			archived := models.JobStatusArchived
			job, err = s.store.UpdateJob(ctx, models.MustRecordIDString(job.ID), models.JobPatch{Status: &archived})
			if err != nil {
				return nil, fmt.Errorf("archive seeded job: %w", err)
			}
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (s *Seeder) seedCandidates(ctx context.Context, jobs []*models.Job) error {
	stages := models.Stages()
	for i := 0; i < s.counts.Candidates; i++ {
		first := s.faker.FirstName()
		last := s.faker.LastName()
		job := jobs[s.faker.Number(0, len(jobs)-1)]

		input := models.CandidateInput{
			Name:  first + " " + last,
			Email: strings.ToLower(first + "." + last + "@" + s.faker.DomainName()),
			Stage: stages[s.faker.Number(0, len(stages)-1)],
			JobID: models.MustRecordIDString(job.ID),
		}
		if _, err := s.store.CreateCandidate(ctx, input); err != nil {
			return fmt.Errorf("seed candidate %d: %w", i+1, err)
		}
	}
	return nil
}

// seedAssessments attaches a generated screening form to the first few jobs.
func (s *Seeder) seedAssessments(ctx context.Context, jobs []*models.Job) error {
	n := min(s.counts.Assessments, len(jobs))
	for _, job := range jobs[:n] {
		structure := s.buildAssessment(job.Title)
		if err := s.store.PutAssessment(ctx, models.MustRecordIDString(job.ID), structure); err != nil {
			return fmt.Errorf("seed assessment for %q: %w", job.Title, err)
		}
	}
	return nil
}

func (s *Seeder) buildAssessment(jobTitle string) models.AssessmentStructure {
	types := []string{
		models.QuestionSingleChoice,
		models.QuestionMultiChoice,
		models.QuestionShortText,
		models.QuestionLongText,
		models.QuestionNumeric,
	}

	questions := make([]models.Question, 12)
	for i := range questions {
		q := models.Question{
			ID:       uuid.NewString(),
			Type:     types[s.faker.Number(0, len(types)-1)],
			Label:    s.faker.Sentence(s.faker.Number(5, 10)),
			Required: s.faker.Bool(),
		}
		switch q.Type {
		case models.QuestionSingleChoice, models.QuestionMultiChoice:
			q.Options = []string{"Strongly agree", "Agree", "Disagree", "Strongly disagree"}
		case models.QuestionNumeric:
			lo, hi := 0.0, 10.0
			q.Min, q.Max = &lo, &hi
		}
		questions[i] = q
	}

	return models.AssessmentStructure{
		Title: "Technical Screening for " + jobTitle,
		Sections: []models.Section{
			{ID: uuid.NewString(), Title: "Core Competencies", Questions: questions},
		},
	}
}

func (s *Seeder) pickTags() []string {
	count := s.faker.Number(1, 3)
	picked := make([]string, 0, count)
	seen := make(map[string]bool)
	for len(picked) < count {
		tag := jobTags[s.faker.Number(0, len(jobTags)-1)]
		if seen[tag] {
			continue
		}
		seen[tag] = true
		picked = append(picked, tag)
	}
	return picked
}
