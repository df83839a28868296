// Package models defines data structures for the TalentFlow hiring database.
package models

import (
	"regexp"
	"strings"
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// Job statuses. Archival is a status flag; jobs are never physically deleted.
const (
	JobStatusActive   = "active"
	JobStatusArchived = "archived"
)

// Job represents an open or archived position.
//
// Among jobs with status "active" the Order values form the contiguous range
// 1..N. Archived jobs keep their last Order but are excluded from that
// invariant.
type Job struct {
	ID        surrealmodels.RecordID `json:"id"`
	Title     string                 `json:"title"`
	Slug      string                 `json:"slug"`
	Status    string                 `json:"status"`
	Tags      []string               `json:"tags"`
	Order     int                    `json:"order"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt *time.Time             `json:"updated_at,omitempty"`
}

// JobInput holds the caller-supplied fields for job creation.
type JobInput struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`
}

// JobPatch holds a partial job update. Nil fields are left untouched.
type JobPatch struct {
	Title  *string   `json:"title,omitempty"`
	Status *string   `json:"status,omitempty"`
	Tags   *[]string `json:"tags,omitempty"`
}

// JobFilter selects and pages the jobs collection.
type JobFilter struct {
	Search   string // case-insensitive substring against title or any tag
	Status   string // "active", "archived" or "" for all
	Page     int    // 1-based, defaults to 1
	PageSize int    // defaults to 10
	Sort     string // sort field, defaults to "order"
}

// PageMeta describes one page of a paginated listing.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// JobPage is one page of the jobs listing.
type JobPage struct {
	Data []Job    `json:"data"`
	Meta PageMeta `json:"meta"`
}

// ValidJobStatus reports whether s is a defined job status.
func ValidJobStatus(s string) bool {
	return s == JobStatusActive || s == JobStatusArchived
}

var slugStrip = regexp.MustCompile(`[^\w-]+`)

// Slugify derives a URL-safe slug from a job title: lowercase, spaces to
// hyphens, everything outside [A-Za-z0-9_-] stripped.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = strings.ReplaceAll(s, " ", "-")
	return slugStrip.ReplaceAllString(s, "")
}
