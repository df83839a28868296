package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Stage is a candidate's position in the hiring pipeline.
type Stage string

// The six pipeline stages. Any stage may transition to any other; "hired"
// and "rejected" are conventional end states but nothing enforces that.
const (
	StageApplied  Stage = "applied"
	StageScreen   Stage = "screen"
	StageTech     Stage = "tech"
	StageOffer    Stage = "offer"
	StageHired    Stage = "hired"
	StageRejected Stage = "rejected"
)

// Stages returns all pipeline stages in board display order.
func Stages() []Stage {
	return []Stage{StageApplied, StageScreen, StageTech, StageOffer, StageHired, StageRejected}
}

// ValidStage reports whether s is one of the six defined stages.
func ValidStage(s Stage) bool {
	switch s {
	case StageApplied, StageScreen, StageTech, StageOffer, StageHired, StageRejected:
		return true
	}
	return false
}

// Candidate represents a person's pipeline position for one job.
// JobID is a weak reference; the candidate does not own the job.
type Candidate struct {
	ID        surrealmodels.RecordID `json:"id"`
	Name      string                 `json:"name"`
	Email     string                 `json:"email"`
	Stage     Stage                  `json:"stage"`
	JobID     string                 `json:"job_id"`
	AppliedAt time.Time              `json:"applied_at"`
	UpdatedAt *time.Time             `json:"updated_at,omitempty"`
}

// CandidateInput holds the caller-supplied fields for a new application.
// Name and Email may be empty; the seeder fills them in.
type CandidateInput struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Stage Stage  `json:"stage,omitempty"`
	JobID string `json:"jobId"`
}

// CandidateFilter selects the candidates collection. The kanban board wants
// every matching record, so there is no pagination here.
type CandidateFilter struct {
	Search string // case-insensitive substring against name or email
	Stage  Stage  // exact stage, or "" for all
	JobID  string // exact job, or "" for all
}

// CandidateList is the full filtered candidates listing.
type CandidateList struct {
	Data []Candidate `json:"data"`
	Meta struct {
		Total int `json:"total"`
	} `json:"meta"`
}

// TimelineEvent is one entry in a candidate's append-only status history.
type TimelineEvent struct {
	ID          surrealmodels.RecordID `json:"id"`
	CandidateID string                 `json:"candidate_id"`
	Message     string                 `json:"message"`
	OldStage    Stage                  `json:"old_stage,omitempty"`
	NewStage    Stage                  `json:"new_stage"`
	Timestamp   time.Time              `json:"timestamp"`
}
