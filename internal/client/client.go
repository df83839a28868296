// Package client provides a typed HTTP client for the TalentFlow server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/talentflow/talentflow/internal/metrics"
	"github.com/talentflow/talentflow/internal/models"
)

// Client talks to the TalentFlow REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// APIError is a non-2xx response from the server, carrying the decoded
// message body. The chaos boundary's simulated failures arrive here as
// StatusCode 500.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// New creates a new API client.
// If baseURL is empty, uses the TALENTFLOW_SERVER_URL env var or defaults to
// localhost:8585. Timeout can be configured via TALENTFLOW_CLIENT_TIMEOUT;
// the default leaves generous headroom over the injected latency ceiling.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("TALENTFLOW_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8585"
	}

	timeout := 30 * time.Second
	if t := os.Getenv("TALENTFLOW_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// do sends one request and decodes the JSON response into result.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(respBody, &msg); err == nil && msg.Message != "" {
			apiErr.Message = msg.Message
		} else {
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

// =============================================================================
// JOB OPERATIONS
// =============================================================================

// ListJobs returns one page of the jobs listing.
func (c *Client) ListJobs(ctx context.Context, filter models.JobFilter) (models.JobPage, error) {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(filter.PageSize))
	}
	if filter.Sort != "" {
		q.Set("sort", filter.Sort)
	}

	path := "/jobs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var page models.JobPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return models.JobPage{}, err
	}
	return page, nil
}

// CreateJob creates a new job posting.
func (c *Client) CreateJob(ctx context.Context, input models.JobInput) (*models.Job, error) {
	var job models.Job
	if err := c.do(ctx, http.MethodPost, "/jobs", input, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJob retrieves a job by id.
func (c *Client) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	if err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateJob applies a partial update to a job.
func (c *Client) UpdateJob(ctx context.Context, id string, patch models.JobPatch) (*models.Job, error) {
	var job models.Job
	if err := c.do(ctx, http.MethodPatch, "/jobs/"+url.PathEscape(id), patch, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// reorderPayload carries the 1-based source and destination ranks.
type reorderPayload struct {
	FromOrder int `json:"fromOrder"`
	ToOrder   int `json:"toOrder"`
}

// ReorderJob moves a job from one rank to another within the active set.
func (c *Client) ReorderJob(ctx context.Context, id string, fromOrder, toOrder int) error {
	payload := reorderPayload{FromOrder: fromOrder, ToOrder: toOrder}
	return c.do(ctx, http.MethodPatch, "/jobs/"+url.PathEscape(id)+"/reorder", payload, nil)
}

// =============================================================================
// CANDIDATE OPERATIONS
// =============================================================================

// ListCandidates returns the filtered candidates collection.
func (c *Client) ListCandidates(ctx context.Context, filter models.CandidateFilter) (models.CandidateList, error) {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Stage != "" {
		q.Set("stage", string(filter.Stage))
	}
	if filter.JobID != "" {
		q.Set("jobId", filter.JobID)
	}

	path := "/candidates"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var list models.CandidateList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return models.CandidateList{}, err
	}
	return list, nil
}

// CreateCandidate registers a new application.
func (c *Client) CreateCandidate(ctx context.Context, input models.CandidateInput) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := c.do(ctx, http.MethodPost, "/candidates", input, &candidate); err != nil {
		return nil, err
	}
	return &candidate, nil
}

// GetCandidate retrieves a candidate by id.
func (c *Client) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := c.do(ctx, http.MethodGet, "/candidates/"+url.PathEscape(id), nil, &candidate); err != nil {
		return nil, err
	}
	return &candidate, nil
}

// stagePayload is the stage transition request body.
type stagePayload struct {
	Stage models.Stage `json:"stage"`
}

// TransitionStage moves a candidate to a new pipeline stage.
func (c *Client) TransitionStage(ctx context.Context, id string, stage models.Stage) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := c.do(ctx, http.MethodPatch, "/candidates/"+url.PathEscape(id), stagePayload{Stage: stage}, &candidate); err != nil {
		return nil, err
	}
	return &candidate, nil
}

// Timeline returns a candidate's status history, oldest first.
func (c *Client) Timeline(ctx context.Context, id string) ([]models.TimelineEvent, error) {
	var body struct {
		Timeline []models.TimelineEvent `json:"timeline"`
	}
	if err := c.do(ctx, http.MethodGet, "/candidates/"+url.PathEscape(id)+"/timeline", nil, &body); err != nil {
		return nil, err
	}
	return body.Timeline, nil
}

// =============================================================================
// ASSESSMENT OPERATIONS
// =============================================================================

// GetAssessment returns the assessment structure for a job, creating the
// skeleton on first access.
func (c *Client) GetAssessment(ctx context.Context, jobID string) (*models.AssessmentStructure, error) {
	var structure models.AssessmentStructure
	if err := c.do(ctx, http.MethodGet, "/assessments/"+url.PathEscape(jobID), nil, &structure); err != nil {
		return nil, err
	}
	return &structure, nil
}

// PutAssessment saves the assessment structure for a job.
func (c *Client) PutAssessment(ctx context.Context, jobID string, structure models.AssessmentStructure) error {
	return c.do(ctx, http.MethodPut, "/assessments/"+url.PathEscape(jobID), structure, nil)
}

// SubmitResponse submits a candidate's answers for a job's assessment.
func (c *Client) SubmitResponse(ctx context.Context, jobID string, sub models.Submission) error {
	return c.do(ctx, http.MethodPost, "/assessments/"+url.PathEscape(jobID)+"/submit", sub, nil)
}

// =============================================================================
// OPERATIONAL
// =============================================================================

// ServerStats returns the server's in-memory runtime statistics.
func (c *Client) ServerStats(ctx context.Context) (*metrics.Snapshot, error) {
	var snapshot metrics.Snapshot
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Healthy reports whether the server answers its health probe.
func (c *Client) Healthy(ctx context.Context) bool {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil) == nil
}
