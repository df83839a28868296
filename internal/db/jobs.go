package db

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"

	"github.com/talentflow/talentflow/internal/models"
)

// jobSortFields whitelists the sortable columns for the jobs listing.
// The sort field is interpolated into the query, so it must never come
// from the caller unchecked.
var jobSortFields = map[string]string{
	"order":      "`order`",
	"title":      "title",
	"created_at": "created_at",
}

// CreateJob inserts a new active job at the end of the ranking:
// order = max(active order) + 1, or 1 for the first job.
func (c *Client) CreateJob(ctx context.Context, input models.JobInput) (*models.Job, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("create job: %w: title is required", ErrValidation)
	}

	next, err := c.nextJobOrder(ctx)
	if err != nil {
		return nil, err
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	id := uuid.NewString()
	results, err := surrealdb.Query[[]models.Job](ctx, c.db, `
		CREATE type::record("job", $id) CONTENT {
			title: $title,
			slug: $slug,
			status: 'active',
			tags: $tags,
			`+"`order`"+`: $order,
			created_at: time::now()
		}
	`, map[string]any{
		"id":    id,
		"title": input.Title,
		"slug":  models.Slugify(input.Title),
		"tags":  tags,
		"order": next,
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", wrapQueryError(err))
	}

	job, err := firstResult(results)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

// nextJobOrder returns max(order)+1 over active jobs, 1 when there are none.
func (c *Client) nextJobOrder(ctx context.Context) (int, error) {
	results, err := surrealdb.Query[[]int](ctx, c.db, `
		SELECT VALUE `+"`order`"+` FROM job
		WHERE status = 'active'
		ORDER BY `+"`order`"+` DESC
		LIMIT 1
	`, nil)
	if err != nil {
		return 0, fmt.Errorf("next job order: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 1, nil
	}
	return (*results)[0].Result[0] + 1, nil
}

// GetJob retrieves a job by id.
func (c *Client) GetJob(ctx context.Context, id string) (*models.Job, error) {
	results, err := surrealdb.Query[[]models.Job](ctx, c.db, `
		SELECT * FROM type::record("job", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("get job %q: %w", id, ErrNotFound)
	}
	return &(*results)[0].Result[0], nil
}

// UpdateJob applies a partial update. The slug is re-derived when the title
// changes, and updated_at is bumped on every call.
func (c *Client) UpdateJob(ctx context.Context, id string, patch models.JobPatch) (*models.Job, error) {
	if _, err := c.GetJob(ctx, id); err != nil {
		return nil, err
	}

	merge := map[string]any{
		"updated_at": time.Now().UTC(),
	}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, fmt.Errorf("update job: %w: title is required", ErrValidation)
		}
		merge["title"] = *patch.Title
		merge["slug"] = models.Slugify(*patch.Title)
	}
	if patch.Status != nil {
		if !models.ValidJobStatus(*patch.Status) {
			return nil, fmt.Errorf("update job: %w: unknown status %q", ErrValidation, *patch.Status)
		}
		merge["status"] = *patch.Status
	}
	if patch.Tags != nil {
		merge["tags"] = *patch.Tags
	}

	results, err := surrealdb.Query[[]models.Job](ctx, c.db, `
		UPDATE type::record("job", $id) MERGE $patch
	`, map[string]any{"id": id, "patch": merge})
	if err != nil {
		return nil, fmt.Errorf("update job: %w", wrapQueryError(err))
	}

	job, err := firstResult(results)
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return job, nil
}

// ListJobs filters, sorts and pages the jobs collection. Search is a
// case-insensitive substring match against the title or any tag; the
// pagination meta is computed over the filtered set.
func (c *Client) ListJobs(ctx context.Context, filter models.JobFilter) (models.JobPage, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 10
	}
	sortField, ok := jobSortFields[filter.Sort]
	if !ok {
		sortField = jobSortFields["order"]
	}

	where := ""
	vars := map[string]any{}
	if models.ValidJobStatus(filter.Status) {
		where = "WHERE status = $status"
		vars["status"] = filter.Status
	}

	sql := fmt.Sprintf("SELECT * FROM job %s ORDER BY %s ASC", where, sortField)
	results, err := surrealdb.Query[[]models.Job](ctx, c.db, sql, vars)
	if err != nil {
		return models.JobPage{}, fmt.Errorf("list jobs: %w", err)
	}

	var jobs []models.Job
	if results != nil && len(*results) > 0 {
		jobs = (*results)[0].Result
	}

	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		filtered := jobs[:0:0]
		for _, job := range jobs {
			if matchesJobSearch(job, search) {
				filtered = append(filtered, job)
			}
		}
		jobs = filtered
	}

	total := len(jobs)
	totalPages := (total + pageSize - 1) / pageSize

	offset := (page - 1) * pageSize
	if offset > total {
		offset = total
	}
	end := offset + pageSize
	if end > total {
		end = total
	}

	return models.JobPage{
		Data: jobs[offset:end],
		Meta: models.PageMeta{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		},
	}, nil
}

// matchesJobSearch reports whether the lowercased needle occurs in the job's
// title or any of its tags.
func matchesJobSearch(job models.Job, needle string) bool {
	if strings.Contains(strings.ToLower(job.Title), needle) {
		return true
	}
	for _, tag := range job.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// ActiveJobsByOrder returns all active jobs sorted by rank ascending.
// This is the authoritative working sequence for reordering.
func (c *Client) ActiveJobsByOrder(ctx context.Context) ([]models.Job, error) {
	results, err := surrealdb.Query[[]models.Job](ctx, c.db, `
		SELECT * FROM job WHERE status = 'active' ORDER BY `+"`order`"+` ASC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("active jobs: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return []models.Job{}, nil
	}
	return (*results)[0].Result, nil
}

// ReorderJob moves the given active job to rank toOrder (1-based) and
// renumbers every active job so ranks stay dense and unique. All rank
// writes happen in one transaction: either the whole new numbering lands
// or none of it does.
//
// A toOrder past the end of the sequence clamps to the last position.
func (c *Client) ReorderJob(ctx context.Context, jobID string, toOrder int) error {
	jobs, err := c.ActiveJobsByOrder(ctx)
	if err != nil {
		return fmt.Errorf("reorder job: %w", err)
	}

	moveIdx := -1
	for i, job := range jobs {
		if s, err := models.RecordIDString(job.ID); err == nil && s == jobID {
			moveIdx = i
			break
		}
	}
	if moveIdx == -1 {
		return fmt.Errorf("reorder job %q: %w", jobID, ErrNotActive)
	}

	// Splice-and-reinsert: correct in both directions, no gaps, no dupes.
	moved := jobs[moveIdx]
	jobs = append(jobs[:moveIdx], jobs[moveIdx+1:]...)
	newIdx := toOrder - 1
	if newIdx < 0 {
		newIdx = 0
	}
	if newIdx > len(jobs) {
		newIdx = len(jobs)
	}
	jobs = append(jobs[:newIdx], append([]models.Job{moved}, jobs[newIdx:]...)...)

	updates := make([]map[string]any, 0, len(jobs))
	for i, job := range jobs {
		updates = append(updates, map[string]any{
			"id":    job.ID,
			"order": i + 1,
		})
	}

	_, err = surrealdb.Query[any](ctx, c.db, `
		BEGIN TRANSACTION;
		FOR $u IN $updates {
			UPDATE $u.id SET `+"`order`"+` = $u.order, updated_at = time::now();
		};
		COMMIT TRANSACTION;
	`, map[string]any{"updates": updates})
	if err != nil {
		return fmt.Errorf("reorder job: %w", wrapQueryError(err))
	}
	return nil
}

// JobTitles returns id -> title for every job, used by the read-through
// title cache.
func (c *Client) JobTitles(ctx context.Context) (map[string]string, error) {
	results, err := surrealdb.Query[[]models.Job](ctx, c.db, `
		SELECT id, title FROM job
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("job titles: %w", err)
	}

	titles := make(map[string]string)
	if results != nil && len(*results) > 0 {
		for _, job := range (*results)[0].Result {
			if id, err := models.RecordIDString(job.ID); err == nil {
				titles[id] = job.Title
			}
		}
	}
	return titles, nil
}

// firstResult extracts the single record a CREATE/UPDATE statement returns.
func firstResult(results *[]surrealdb.QueryResult[[]models.Job]) (*models.Job, error) {
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, fmt.Errorf("empty query result")
	}
	return &(*results)[0].Result[0], nil
}

// VerifyJobOrderInvariant checks that active job ranks are exactly 1..N.
// Exposed for tests and the wipe/seed tooling.
func (c *Client) VerifyJobOrderInvariant(ctx context.Context) error {
	jobs, err := c.ActiveJobsByOrder(ctx)
	if err != nil {
		return err
	}
	orders := make([]int, len(jobs))
	for i, job := range jobs {
		orders[i] = job.Order
	}
	sort.Ints(orders)
	for i, o := range orders {
		if o != i+1 {
			return fmt.Errorf("rank sequence broken at position %d (got %d, want %d)", i, o, i+1)
		}
	}
	return nil
}
