package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/talentflow/talentflow/internal/db"
	"github.com/talentflow/talentflow/internal/metrics"
	"github.com/talentflow/talentflow/internal/models"
)

// fakeStore implements Store with pluggable function fields. Unset fields
// panic, which surfaces tests exercising routes they did not stub.
type fakeStore struct {
	createJob       func(ctx context.Context, input models.JobInput) (*models.Job, error)
	getJob          func(ctx context.Context, id string) (*models.Job, error)
	updateJob       func(ctx context.Context, id string, patch models.JobPatch) (*models.Job, error)
	listJobs        func(ctx context.Context, filter models.JobFilter) (models.JobPage, error)
	reorderJob      func(ctx context.Context, jobID string, toOrder int) error
	createCandidate func(ctx context.Context, input models.CandidateInput) (*models.Candidate, error)
	getCandidate    func(ctx context.Context, id string) (*models.Candidate, error)
	listCandidates  func(ctx context.Context, filter models.CandidateFilter) (models.CandidateList, error)
	transitionStage func(ctx context.Context, id string, newStage models.Stage) (*models.Candidate, error)
	timeline        func(ctx context.Context, candidateID string) ([]models.TimelineEvent, error)
	getAssessment   func(ctx context.Context, jobID string) (*models.AssessmentStructure, error)
	putAssessment   func(ctx context.Context, jobID string, structure models.AssessmentStructure) error
	submitResponse  func(ctx context.Context, jobID string, sub models.Submission) error
}

func (f *fakeStore) CreateJob(ctx context.Context, input models.JobInput) (*models.Job, error) {
	return f.createJob(ctx, input)
}

func (f *fakeStore) GetJob(ctx context.Context, id string) (*models.Job, error) {
	return f.getJob(ctx, id)
}

func (f *fakeStore) UpdateJob(ctx context.Context, id string, patch models.JobPatch) (*models.Job, error) {
	return f.updateJob(ctx, id, patch)
}

func (f *fakeStore) ListJobs(ctx context.Context, filter models.JobFilter) (models.JobPage, error) {
	return f.listJobs(ctx, filter)
}

func (f *fakeStore) ReorderJob(ctx context.Context, jobID string, toOrder int) error {
	return f.reorderJob(ctx, jobID, toOrder)
}

func (f *fakeStore) CreateCandidate(ctx context.Context, input models.CandidateInput) (*models.Candidate, error) {
	return f.createCandidate(ctx, input)
}

func (f *fakeStore) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	return f.getCandidate(ctx, id)
}

func (f *fakeStore) ListCandidates(ctx context.Context, filter models.CandidateFilter) (models.CandidateList, error) {
	return f.listCandidates(ctx, filter)
}

func (f *fakeStore) TransitionStage(ctx context.Context, id string, newStage models.Stage) (*models.Candidate, error) {
	return f.transitionStage(ctx, id, newStage)
}

func (f *fakeStore) Timeline(ctx context.Context, candidateID string) ([]models.TimelineEvent, error) {
	return f.timeline(ctx, candidateID)
}

func (f *fakeStore) GetOrCreateAssessment(ctx context.Context, jobID string) (*models.AssessmentStructure, error) {
	return f.getAssessment(ctx, jobID)
}

func (f *fakeStore) PutAssessment(ctx context.Context, jobID string, structure models.AssessmentStructure) error {
	return f.putAssessment(ctx, jobID, structure)
}

func (f *fakeStore) SubmitResponse(ctx context.Context, jobID string, sub models.Submission) error {
	return f.submitResponse(ctx, jobID, sub)
}

func newTestServer(t *testing.T, store Store) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	srv := New(":0", store, nil, logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Message
}

func TestCreateJobRequiresTitle(t *testing.T) {
	ts := newTestServer(t, &fakeStore{})

	resp := doJSON(t, http.MethodPost, ts.URL+"/jobs", map[string]any{"tags": []string{"remote"}})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Title is required", decodeMessage(t, resp))
}

func TestCreateJob(t *testing.T) {
	store := &fakeStore{
		createJob: func(_ context.Context, input models.JobInput) (*models.Job, error) {
			return &models.Job{
				ID:     surrealmodels.RecordID{Table: "job", ID: "j1"},
				Title:  input.Title,
				Slug:   models.Slugify(input.Title),
				Status: models.JobStatusActive,
				Tags:   input.Tags,
				Order:  1,
			}, nil
		},
	}
	ts := newTestServer(t, store)

	resp := doJSON(t, http.MethodPost, ts.URL+"/jobs", models.JobInput{Title: "Staff Engineer"})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var job models.Job
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&job))
	assert.Equal(t, "staff-engineer", job.Slug)
	assert.Equal(t, 1, job.Order)
}

func TestUpdateJobBlankTitleIsBadRequest(t *testing.T) {
	store := &fakeStore{
		updateJob: func(_ context.Context, _ string, patch models.JobPatch) (*models.Job, error) {
			return nil, fmt.Errorf("update job: %w: title is required", db.ErrValidation)
		},
	}
	ts := newTestServer(t, store)

	resp := doJSON(t, http.MethodPatch, ts.URL+"/jobs/j1", map[string]any{"title": "   "})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeMessage(t, resp), "title is required")
}

func TestGetJobNotFound(t *testing.T) {
	store := &fakeStore{
		getJob: func(context.Context, string) (*models.Job, error) {
			return nil, db.ErrNotFound
		},
	}
	ts := newTestServer(t, store)

	resp := doJSON(t, http.MethodGet, ts.URL+"/jobs/missing", nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListJobsForwardsQueryParams(t *testing.T) {
	var got models.JobFilter
	store := &fakeStore{
		listJobs: func(_ context.Context, filter models.JobFilter) (models.JobPage, error) {
			got = filter
			return models.JobPage{Data: []models.Job{}, Meta: models.PageMeta{Page: filter.Page}}, nil
		},
	}
	ts := newTestServer(t, store)

	resp := doJSON(t, http.MethodGet, ts.URL+"/jobs?search=engineer&status=active&page=3&pageSize=5", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "engineer", got.Search)
	assert.Equal(t, models.JobStatusActive, got.Status)
	assert.Equal(t, 3, got.Page)
	assert.Equal(t, 5, got.PageSize)
	assert.Equal(t, "order", got.Sort)
}

func TestReorderMissingParams(t *testing.T) {
	ts := newTestServer(t, &fakeStore{})

	cases := []struct {
		name string
		body map[string]any
	}{
		{"empty body", map[string]any{}},
		{"missing toOrder", map[string]any{"fromOrder": 2}},
		{"missing fromOrder", map[string]any{"toOrder": 1}},
		{"zero toOrder", map[string]any{"fromOrder": 2, "toOrder": 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPatch, ts.URL+"/jobs/j1/reorder", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "Missing order parameters", decodeMessage(t, resp))
		})
	}
}

func TestReorderSuccess(t *testing.T) {
	var gotID string
	var gotOrder int
	store := &fakeStore{
		reorderJob: func(_ context.Context, jobID string, toOrder int) error {
			gotID, gotOrder = jobID, toOrder
			return nil
		},
	}
	ts := newTestServer(t, store)

	resp := doJSON(t, http.MethodPatch, ts.URL+"/jobs/j3/reorder",
		map[string]any{"fromOrder": 4, "toOrder": 2})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Reorder successful", decodeMessage(t, resp))
	assert.Equal(t, "j3", gotID)
	assert.Equal(t, 2, gotOrder)
}

func TestReorderInactiveJobIsServerError(t *testing.T) {
	store := &fakeStore{
		reorderJob: func(context.Context, string, int) error {
			return db.ErrNotActive
		},
	}
	ts := newTestServer(t, store)

	resp := doJSON(t, http.MethodPatch, ts.URL+"/jobs/j9/reorder",
		map[string]any{"fromOrder": 1, "toOrder": 2})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestCreateCandidateRequiresJobID(t *testing.T) {
	ts := newTestServer(t, &fakeStore{})

	resp := doJSON(t, http.MethodPost, ts.URL+"/candidates",
		map[string]any{"name": "Ada Lovelace", "email": "ada@example.com"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "jobId is required", decodeMessage(t, resp))
}

func TestTransitionStageInvalidValue(t *testing.T) {
	store := &fakeStore{
		transitionStage: func(_ context.Context, _ string, newStage models.Stage) (*models.Candidate, error) {
			if !models.ValidStage(newStage) {
				return nil, db.ErrInvalidStage
			}
			return nil, errors.New("validator let an unknown stage through")
		},
	}
	ts := newTestServer(t, store)

	resp := doJSON(t, http.MethodPatch, ts.URL+"/candidates/c1",
		map[string]any{"stage": "phone-screen"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestTransitionStage(t *testing.T) {
	store := &fakeStore{
		transitionStage: func(_ context.Context, id string, newStage models.Stage) (*models.Candidate, error) {
			return &models.Candidate{
				ID:    surrealmodels.RecordID{Table: "candidate", ID: id},
				Name:  "Grace Hopper",
				Stage: newStage,
				JobID: "j1",
			}, nil
		},
	}
	ts := newTestServer(t, store)

	resp := doJSON(t, http.MethodPatch, ts.URL+"/candidates/c1",
		map[string]any{"stage": "tech"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var candidate models.Candidate
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&candidate))
	assert.Equal(t, models.StageTech, candidate.Stage)
}

func TestTimelineWrapsEvents(t *testing.T) {
	store := &fakeStore{
		timeline: func(_ context.Context, candidateID string) ([]models.TimelineEvent, error) {
			return []models.TimelineEvent{
				{CandidateID: candidateID, Message: "Application received.", NewStage: models.StageApplied, Timestamp: time.Now()},
			}, nil
		},
	}
	ts := newTestServer(t, store)

	resp := doJSON(t, http.MethodGet, ts.URL+"/candidates/c1/timeline", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Timeline []models.TimelineEvent `json:"timeline"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Timeline, 1)
	assert.Equal(t, "c1", body.Timeline[0].CandidateID)
}

func TestPutAssessmentInvalidStructure(t *testing.T) {
	store := &fakeStore{
		putAssessment: func(_ context.Context, _ string, structure models.AssessmentStructure) error {
			return structure.Validate()
		},
	}
	ts := newTestServer(t, store)

	resp := doJSON(t, http.MethodPut, ts.URL+"/assessments/j1",
		models.AssessmentStructure{Title: ""})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPutAssessment(t *testing.T) {
	var saved models.AssessmentStructure
	store := &fakeStore{
		putAssessment: func(_ context.Context, _ string, structure models.AssessmentStructure) error {
			saved = structure
			return nil
		},
	}
	ts := newTestServer(t, store)

	resp := doJSON(t, http.MethodPut, ts.URL+"/assessments/j1", models.AssessmentStructure{
		Title: "Backend Screen",
		Sections: []models.Section{
			{ID: "s1", Title: "General"},
		},
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Assessment saved successfully.", decodeMessage(t, resp))
	assert.Equal(t, "Backend Screen", saved.Title)
}

func TestSubmitResponseRequiresCandidateID(t *testing.T) {
	ts := newTestServer(t, &fakeStore{})

	resp := doJSON(t, http.MethodPost, ts.URL+"/assessments/j1/submit",
		map[string]any{"responses": map[string]any{"q1": "yes"}})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmitResponse(t *testing.T) {
	var got models.Submission
	store := &fakeStore{
		submitResponse: func(_ context.Context, _ string, sub models.Submission) error {
			got = sub
			return nil
		},
	}
	ts := newTestServer(t, store)

	resp := doJSON(t, http.MethodPost, ts.URL+"/assessments/j1/submit", models.Submission{
		CandidateID: "c1",
		Responses:   map[string]any{"q1": "five years"},
	})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "c1", got.CandidateID)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, &fakeStore{})

	resp := doJSON(t, http.MethodGet, ts.URL+"/healthz", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStatsReflectsOperations(t *testing.T) {
	store := &fakeStore{
		listJobs: func(context.Context, models.JobFilter) (models.JobPage, error) {
			return models.JobPage{}, nil
		},
	}
	ts := newTestServer(t, store)

	doJSON(t, http.MethodGet, ts.URL+"/jobs", nil)
	resp := doJSON(t, http.MethodGet, ts.URL+"/stats", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snapshot metrics.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snapshot))
	require.NotNil(t, snapshot.JobsList)
	assert.EqualValues(t, 1, snapshot.JobsList.Count)
}

func TestStatsCountStoreWrites(t *testing.T) {
	store := &fakeStore{
		createJob: func(_ context.Context, input models.JobInput) (*models.Job, error) {
			return &models.Job{
				ID:    surrealmodels.RecordID{Table: "job", ID: "j1"},
				Title: input.Title,
				Order: 1,
			}, nil
		},
		updateJob: func(context.Context, string, models.JobPatch) (*models.Job, error) {
			return nil, errors.New("store unavailable")
		},
	}
	ts := newTestServer(t, store)

	doJSON(t, http.MethodPost, ts.URL+"/jobs", models.JobInput{Title: "Staff Engineer"})
	doJSON(t, http.MethodPatch, ts.URL+"/jobs/j1", map[string]any{"tags": []string{"remote"}})
	resp := doJSON(t, http.MethodGet, ts.URL+"/stats", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snapshot metrics.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snapshot))
	require.NotNil(t, snapshot.StoreWrite)
	assert.EqualValues(t, 2, snapshot.StoreWrite.Count, "both mutations count as store writes")
	assert.EqualValues(t, 1, snapshot.StoreWrite.Failures, "the failed update is a failed write")
}
