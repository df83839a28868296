package models

import (
	"errors"
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Question types supported by the assessment builder.
const (
	QuestionSingleChoice = "single-choice"
	QuestionMultiChoice  = "multi-choice"
	QuestionShortText    = "short-text"
	QuestionLongText     = "long-text"
	QuestionNumeric      = "numeric"
)

// Question is one question definition inside an assessment section.
type Question struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Label    string    `json:"label"`
	Required bool      `json:"required"`
	Min      *float64  `json:"min,omitempty"`
	Max      *float64  `json:"max,omitempty"`
	Options  []string  `json:"options,omitempty"`
	ShowIf   *ShowRule `json:"show_if,omitempty"`
}

// ShowRule conditions a question's visibility on another question's answer.
type ShowRule struct {
	QuestionID string `json:"question_id"`
	Equals     string `json:"equals"`
}

// Section is an ordered group of questions.
type Section struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// AssessmentStructure is the form definition authored in the builder.
type AssessmentStructure struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// ErrInvalidStructure is returned when an assessment structure fails the
// minimal save-time validation.
var ErrInvalidStructure = errors.New("invalid assessment structure")

// Validate performs the minimal check applied on save: a structure must
// carry a non-empty title.
func (s AssessmentStructure) Validate() error {
	if s.Title == "" {
		return ErrInvalidStructure
	}
	return nil
}

// Assessment is the single form attached to a job, keyed by job id.
type Assessment struct {
	ID        surrealmodels.RecordID `json:"id"`
	JobID     string                 `json:"job_id"`
	Structure AssessmentStructure    `json:"structure"`
}

// CandidateResponse holds a candidate's submitted answers for a job's
// assessment. Keyed by (candidate, job); resubmission overwrites.
type CandidateResponse struct {
	ID          surrealmodels.RecordID `json:"id"`
	CandidateID string                 `json:"candidate_id"`
	JobID       string                 `json:"job_id"`
	Responses   map[string]any         `json:"responses"`
	SubmittedAt time.Time              `json:"submitted_at"`
}

// Submission is the request payload for an assessment submit.
type Submission struct {
	CandidateID string         `json:"candidateId"`
	Responses   map[string]any `json:"responses"`
}
