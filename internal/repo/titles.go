package repo

import (
	"context"
	"sync"

	"github.com/talentflow/talentflow/internal/models"
)

// TitleCache is a read-through cache of job titles keyed by job id. The
// kanban board shows a title next to every candidate card; resolving each
// one through the network backend would pay the injected latency per card.
type TitleCache struct {
	mu     sync.RWMutex
	jobs   JobRepository
	titles map[string]string
}

// NewTitleCache creates an empty cache backed by jobs.
func NewTitleCache(jobs JobRepository) *TitleCache {
	return &TitleCache{
		jobs:   jobs,
		titles: make(map[string]string),
	}
}

// Title resolves a job id to its title, fetching on miss.
func (c *TitleCache) Title(ctx context.Context, jobID string) (string, error) {
	c.mu.RLock()
	title, ok := c.titles[jobID]
	c.mu.RUnlock()
	if ok {
		return title, nil
	}

	job, err := c.jobs.Get(ctx, jobID)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.titles[jobID] = job.Title
	c.mu.Unlock()
	return job.Title, nil
}

// Warm preloads the cache from an already-fetched jobs page.
func (c *TitleCache) Warm(jobs []models.Job) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, job := range jobs {
		id, err := models.RecordIDString(job.ID)
		if err != nil {
			continue
		}
		c.titles[id] = job.Title
	}
}

// Invalidate drops one entry, after a job mutation.
func (c *TitleCache) Invalidate(jobID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.titles, jobID)
}

// Len returns the number of cached titles.
func (c *TitleCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.titles)
}

// BindJobs returns the backing jobs repository wrapped so the cache stays
// coherent: reads warm it, updates drop the stale entry. Both backends hand
// out the bound repository instead of the raw one.
func (c *TitleCache) BindJobs() JobRepository {
	return &cacheBoundJobs{jobs: c.jobs, cache: c}
}

type cacheBoundJobs struct {
	jobs  JobRepository
	cache *TitleCache
}

func (r *cacheBoundJobs) List(ctx context.Context, filter models.JobFilter) (models.JobPage, error) {
	page, err := r.jobs.List(ctx, filter)
	if err != nil {
		return models.JobPage{}, err
	}
	r.cache.Warm(page.Data)
	return page, nil
}

func (r *cacheBoundJobs) Create(ctx context.Context, input models.JobInput) (*models.Job, error) {
	job, err := r.jobs.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	r.cache.Warm([]models.Job{*job})
	return job, nil
}

func (r *cacheBoundJobs) Get(ctx context.Context, id string) (*models.Job, error) {
	job, err := r.jobs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Warm([]models.Job{*job})
	return job, nil
}

// Update invalidates before delegating so a failed write leaves no stale
// title behind, then re-warms from the returned record.
func (r *cacheBoundJobs) Update(ctx context.Context, id string, patch models.JobPatch) (*models.Job, error) {
	r.cache.Invalidate(id)
	job, err := r.jobs.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	r.cache.Warm([]models.Job{*job})
	return job, nil
}

// Reorder only moves ranks; titles are untouched.
func (r *cacheBoundJobs) Reorder(ctx context.Context, id string, fromOrder, toOrder int) error {
	return r.jobs.Reorder(ctx, id, fromOrder, toOrder)
}
