package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/surrealdb.go"

	"github.com/talentflow/talentflow/internal/models"
)

// seedJobs creates n active jobs titled "Job 1".."Job n" and returns their ids
// in rank order.
func seedJobs(t *testing.T, n int) []string {
	t.Helper()
	ctx := context.Background()

	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		job, err := testDB.CreateJob(ctx, models.JobInput{
			Title: fmt.Sprintf("Job %d", i),
			Tags:  []string{"backend"},
		})
		require.NoError(t, err)
		ids = append(ids, models.MustRecordIDString(job.ID))
	}
	return ids
}

func TestCreateJobAssignsNextOrder(t *testing.T) {
	resetData(t)
	ctx := context.Background()

	first, err := testDB.CreateJob(ctx, models.JobInput{Title: "Platform Engineer"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Order)
	assert.Equal(t, models.JobStatusActive, first.Status)
	assert.Equal(t, "platform-engineer", first.Slug)

	second, err := testDB.CreateJob(ctx, models.JobInput{Title: "Data Analyst"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Order)
}

func TestCreateJobRequiresTitle(t *testing.T) {
	resetData(t)

	_, err := testDB.CreateJob(context.Background(), models.JobInput{Title: "   "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateJobRejectsBlankTitle(t *testing.T) {
	resetData(t)
	ctx := context.Background()

	job, err := testDB.CreateJob(ctx, models.JobInput{Title: "Platform Engineer"})
	require.NoError(t, err)
	id := models.MustRecordIDString(job.ID)

	blank := "   "
	_, err = testDB.UpdateJob(ctx, id, models.JobPatch{Title: &blank})
	assert.ErrorIs(t, err, ErrValidation)

	// Nothing was written.
	kept, err := testDB.GetJob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Platform Engineer", kept.Title)

	unknown := "paused"
	_, err = testDB.UpdateJob(ctx, id, models.JobPatch{Status: &unknown})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateJobRegeneratesSlug(t *testing.T) {
	resetData(t)
	ctx := context.Background()

	job, err := testDB.CreateJob(ctx, models.JobInput{Title: "Old Title"})
	require.NoError(t, err)
	id := models.MustRecordIDString(job.ID)

	newTitle := "Fresh New Title"
	updated, err := testDB.UpdateJob(ctx, id, models.JobPatch{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "fresh-new-title", updated.Slug)
	assert.NotNil(t, updated.UpdatedAt)

	// Archiving keeps the last order value.
	archived := models.JobStatusArchived
	updated, err = testDB.UpdateJob(ctx, id, models.JobPatch{Status: &archived})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusArchived, updated.Status)
	assert.Equal(t, job.Order, updated.Order)
}

func TestUpdateJobUnknown(t *testing.T) {
	resetData(t)

	title := "x"
	_, err := testDB.UpdateJob(context.Background(), "missing-id", models.JobPatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReorderKeepsRanksContiguous(t *testing.T) {
	resetData(t)
	ctx := context.Background()
	ids := seedJobs(t, 5)

	// Move the job at position 3 to position 1.
	require.NoError(t, testDB.ReorderJob(ctx, ids[2], 1))

	jobs, err := testDB.ActiveJobsByOrder(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 5)

	gotIDs := make([]string, len(jobs))
	for i, job := range jobs {
		gotIDs[i] = models.MustRecordIDString(job.ID)
		assert.Equal(t, i+1, job.Order, "ranks must be dense 1..N")
	}
	assert.Equal(t, []string{ids[2], ids[0], ids[1], ids[3], ids[4]}, gotIDs)
	assert.NoError(t, testDB.VerifyJobOrderInvariant(ctx))
}

func TestReorderMovesDownward(t *testing.T) {
	resetData(t)
	ctx := context.Background()
	ids := seedJobs(t, 4)

	// Move the first job to the end; toOrder past the end clamps.
	require.NoError(t, testDB.ReorderJob(ctx, ids[0], 99))

	jobs, err := testDB.ActiveJobsByOrder(ctx)
	require.NoError(t, err)

	gotIDs := make([]string, len(jobs))
	for i, job := range jobs {
		gotIDs[i] = models.MustRecordIDString(job.ID)
	}
	assert.Equal(t, []string{ids[1], ids[2], ids[3], ids[0]}, gotIDs)
	assert.NoError(t, testDB.VerifyJobOrderInvariant(ctx))
}

func TestReorderToCurrentPositionIsNoop(t *testing.T) {
	resetData(t)
	ctx := context.Background()
	ids := seedJobs(t, 3)

	require.NoError(t, testDB.ReorderJob(ctx, ids[1], 2))

	jobs, err := testDB.ActiveJobsByOrder(ctx)
	require.NoError(t, err)
	gotIDs := make([]string, len(jobs))
	for i, job := range jobs {
		gotIDs[i] = models.MustRecordIDString(job.ID)
	}
	assert.Equal(t, ids, gotIDs)
}

func TestReorderRejectsArchivedOrUnknown(t *testing.T) {
	resetData(t)
	ctx := context.Background()
	ids := seedJobs(t, 3)

	archived := models.JobStatusArchived
	_, err := testDB.UpdateJob(ctx, ids[0], models.JobPatch{Status: &archived})
	require.NoError(t, err)

	assert.ErrorIs(t, testDB.ReorderJob(ctx, ids[0], 2), ErrNotActive)
	assert.ErrorIs(t, testDB.ReorderJob(ctx, "no-such-job", 1), ErrNotActive)
}

func TestReorderExcludesArchivedFromRanking(t *testing.T) {
	resetData(t)
	ctx := context.Background()
	ids := seedJobs(t, 4)

	archived := models.JobStatusArchived
	_, err := testDB.UpdateJob(ctx, ids[1], models.JobPatch{Status: &archived})
	require.NoError(t, err)

	// Renumbering covers only the three remaining active jobs.
	require.NoError(t, testDB.ReorderJob(ctx, ids[3], 1))
	assert.NoError(t, testDB.VerifyJobOrderInvariant(ctx))

	// The archived job keeps its old order value untouched.
	job, err := testDB.GetJob(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, 2, job.Order)
}

func TestRankWritesAreAllOrNothing(t *testing.T) {
	resetData(t)
	ctx := context.Background()
	ids := seedJobs(t, 4)

	// Renumber two jobs inside a transaction, then abort it before the
	// commit. The batch uses the same BEGIN/COMMIT shape as ReorderJob, so
	// the ranks written before the abort must not survive either.
	_, err := surrealdb.Query[any](ctx, testDB.db, `
		BEGIN TRANSACTION;
		UPDATE type::record("job", $a) SET `+"`order`"+` = 99;
		UPDATE type::record("job", $b) SET `+"`order`"+` = 100;
		THROW "renumbering aborted";
		COMMIT TRANSACTION;
	`, map[string]any{"a": ids[0], "b": ids[1]})
	require.Error(t, err)

	assert.NoError(t, testDB.VerifyJobOrderInvariant(ctx))

	jobs, err := testDB.ActiveJobsByOrder(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 4)
	for i, job := range jobs {
		assert.Equal(t, ids[i], models.MustRecordIDString(job.ID))
		assert.Equal(t, i+1, job.Order)
	}
}

func TestListJobsPagination(t *testing.T) {
	resetData(t)
	ctx := context.Background()
	seedJobs(t, 25)

	// Archive 5 of them.
	jobs, err := testDB.ActiveJobsByOrder(ctx)
	require.NoError(t, err)
	archived := models.JobStatusArchived
	for _, job := range jobs[:5] {
		_, err := testDB.UpdateJob(ctx, models.MustRecordIDString(job.ID), models.JobPatch{Status: &archived})
		require.NoError(t, err)
	}

	page, err := testDB.ListJobs(ctx, models.JobFilter{Status: models.JobStatusActive, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 20, page.Meta.Total)
	assert.Equal(t, 2, page.Meta.TotalPages)
	assert.LessOrEqual(t, len(page.Data), 10)

	last, err := testDB.ListJobs(ctx, models.JobFilter{Status: models.JobStatusActive, Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, last.Data, 10)

	// A page past the end is empty but keeps the meta.
	beyond, err := testDB.ListJobs(ctx, models.JobFilter{Status: models.JobStatusActive, Page: 5, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond.Data)
	assert.Equal(t, 20, beyond.Meta.Total)
}

func TestListJobsSearchesTitleAndTags(t *testing.T) {
	resetData(t)
	ctx := context.Background()

	_, err := testDB.CreateJob(ctx, models.JobInput{Title: "Senior Go Engineer", Tags: []string{"Backend"}})
	require.NoError(t, err)
	_, err = testDB.CreateJob(ctx, models.JobInput{Title: "Designer", Tags: []string{"Figma", "frontend"}})
	require.NoError(t, err)

	byTitle, err := testDB.ListJobs(ctx, models.JobFilter{Search: "go engineer"})
	require.NoError(t, err)
	require.Len(t, byTitle.Data, 1)
	assert.Equal(t, "Senior Go Engineer", byTitle.Data[0].Title)

	byTag, err := testDB.ListJobs(ctx, models.JobFilter{Search: "FIGMA"})
	require.NoError(t, err)
	require.Len(t, byTag.Data, 1)
	assert.Equal(t, "Designer", byTag.Data[0].Title)
}

func TestJobTitles(t *testing.T) {
	resetData(t)
	ctx := context.Background()
	ids := seedJobs(t, 2)

	titles, err := testDB.JobTitles(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Job 1", titles[ids[0]])
	assert.Equal(t, "Job 2", titles[ids[1]])
}
