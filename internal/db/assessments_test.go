package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentflow/talentflow/internal/models"
)

func TestGetOrCreateAssessmentSeedsSkeleton(t *testing.T) {
	resetData(t)
	ctx := context.Background()
	jobID, _ := seedCandidate(t, "Ada Lovelace", "ada@x.com")

	structure, err := testDB.GetOrCreateAssessment(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, "New Job Assessment", structure.Title)
	require.Len(t, structure.Sections, 1)
	assert.Empty(t, structure.Sections[0].Questions)

	// Second read returns the persisted skeleton, not a fresh one.
	again, err := testDB.GetOrCreateAssessment(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, structure.Sections[0].ID, again.Sections[0].ID)
}

func TestPutAssessmentOverwrites(t *testing.T) {
	resetData(t)
	ctx := context.Background()
	jobID, _ := seedCandidate(t, "Ada Lovelace", "ada@x.com")

	structure := models.AssessmentStructure{
		Title: "Technical Screening",
		Sections: []models.Section{
			{
				ID:    "s1",
				Title: "Core Competencies",
				Questions: []models.Question{
					{ID: "q1", Type: models.QuestionShortText, Label: "Describe your Go experience", Required: true},
				},
			},
		},
	}
	require.NoError(t, testDB.PutAssessment(ctx, jobID, structure))

	got, err := testDB.GetOrCreateAssessment(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, "Technical Screening", got.Title)
	require.Len(t, got.Sections, 1)
	require.Len(t, got.Sections[0].Questions, 1)
	assert.Equal(t, "q1", got.Sections[0].Questions[0].ID)
}

func TestPutAssessmentValidates(t *testing.T) {
	resetData(t)

	err := testDB.PutAssessment(context.Background(), "job-1", models.AssessmentStructure{})
	assert.ErrorIs(t, err, models.ErrInvalidStructure)
}

func TestSubmitResponseOverwritesOnResubmission(t *testing.T) {
	resetData(t)
	ctx := context.Background()
	jobID, candID := seedCandidate(t, "Ada Lovelace", "ada@x.com")

	require.NoError(t, testDB.SubmitResponse(ctx, jobID, models.Submission{
		CandidateID: candID,
		Responses:   map[string]any{"q1": "five years"},
	}))

	first, err := testDB.GetResponse(ctx, candID, jobID)
	require.NoError(t, err)
	assert.Equal(t, "five years", first.Responses["q1"])

	require.NoError(t, testDB.SubmitResponse(ctx, jobID, models.Submission{
		CandidateID: candID,
		Responses:   map[string]any{"q1": "six years"},
	}))

	second, err := testDB.GetResponse(ctx, candID, jobID)
	require.NoError(t, err)
	assert.Equal(t, "six years", second.Responses["q1"])
}

func TestGetResponseNotFound(t *testing.T) {
	resetData(t)

	_, err := testDB.GetResponse(context.Background(), "nobody", "no-job")
	assert.ErrorIs(t, err, ErrNotFound)
}
