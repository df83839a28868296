package board

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/talentflow/talentflow/internal/models"
	"github.com/talentflow/talentflow/internal/repo"
)

// ErrBadRank is returned when a reorder names a rank outside the current
// active sequence.
var ErrBadRank = errors.New("rank out of range")

// JobBoard is the optimistic coordinator for the ordered jobs list. It holds
// the active jobs in display order, applies reorders locally before the
// server confirms them, and rolls back to the pre-mutation snapshot when the
// write fails.
type JobBoard struct {
	repo    repo.JobRepository
	logger  *slog.Logger
	onError func(action string, err error)

	mu     sync.Mutex
	state  []models.Job
	filter models.JobFilter
	// seq versions the displayed state. Every local publish bumps it; a
	// resync response is applied only if seq is still what it was when the
	// request went out.
	seq    uint64
	closed bool
}

// JobBoardOption configures a JobBoard.
type JobBoardOption func(*JobBoard)

// WithJobErrorHandler overrides the default log-only error surface. action
// is a short user-facing description such as "Reorder failed".
func WithJobErrorHandler(fn func(action string, err error)) JobBoardOption {
	return func(b *JobBoard) {
		b.onError = fn
	}
}

// WithJobFilter sets the listing filter used for loads and resyncs.
func WithJobFilter(filter models.JobFilter) JobBoardOption {
	return func(b *JobBoard) {
		b.filter = filter
	}
}

// NewJobBoard creates a board over the given repository. Call Load before
// the first mutation.
func NewJobBoard(r repo.JobRepository, logger *slog.Logger, opts ...JobBoardOption) *JobBoard {
	b := &JobBoard{
		repo:   r,
		logger: logger,
		filter: models.JobFilter{Status: models.JobStatusActive, Sort: "order", PageSize: 100},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.onError == nil {
		b.onError = func(action string, err error) {
			logger.Error(action, "error", err)
		}
	}
	return b
}

// Load fetches the authoritative job sequence and makes it the displayed
// state.
func (b *JobBoard) Load(ctx context.Context) error {
	page, err := b.repo.List(ctx, b.filter)
	if err != nil {
		return err
	}
	b.publish(page.Data)
	return nil
}

// Jobs returns a copy of the currently displayed sequence.
func (b *JobBoard) Jobs() []models.Job {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.state)
}

// Close marks the board disposed. Later mutations fail with ErrClosed and
// in-flight resync responses are discarded instead of applied.
func (b *JobBoard) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

// Reorder moves the job at fromOrder to toOrder, both 1-based ranks in the
// displayed sequence. The move is shown immediately; if the server rejects
// it the previous sequence is restored and the error surfaced. Either way
// the board resyncs from the store afterwards.
func (b *JobBoard) Reorder(ctx context.Context, fromOrder, toOrder int) Result {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return Result{Err: ErrClosed}
	}
	if fromOrder < 1 || fromOrder > len(b.state) || toOrder < 1 {
		b.mu.Unlock()
		return Result{Err: ErrBadRank}
	}
	moved := b.state[fromOrder-1]
	snapshot := b.state
	b.mu.Unlock()

	jobID, err := models.RecordIDString(moved.ID)
	if err != nil {
		return Result{Err: err}
	}

	res := withOptimisticUpdate(snapshot,
		func(s []models.Job) []models.Job {
			return spliceJobs(s, fromOrder, toOrder)
		},
		b.publish,
		func() error {
			return b.repo.Reorder(ctx, jobID, fromOrder, toOrder)
		},
	)

	if res.Err != nil {
		b.onError("Reorder failed", res.Err)
	}
	b.Resync(ctx)
	return res
}

// Resync refetches the authoritative sequence. The response is discarded if
// the displayed state moved on while the request was in flight.
func (b *JobBoard) Resync(ctx context.Context) {
	token, ok := b.beginRefetch()
	if !ok {
		return
	}

	page, err := b.repo.List(ctx, b.filter)
	if err != nil {
		b.logger.Warn("job board resync failed", "error", err)
		return
	}
	b.completeRefetch(token, page.Data)
}

// publish makes s the displayed state and bumps the version, unless the
// board has been closed.
func (b *JobBoard) publish(s []models.Job) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.state = s
	b.seq++
}

// beginRefetch captures the state version a resync request is issued
// against. Reports false when the board is closed.
func (b *JobBoard) beginRefetch() (uint64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq, !b.closed
}

// completeRefetch applies a resync response, unless the state has been
// republished since the request went out or the board closed meanwhile.
// Reports whether the response was applied.
func (b *JobBoard) completeRefetch(token uint64, jobs []models.Job) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.seq != token {
		return false
	}
	b.state = jobs
	return true
}

// spliceJobs returns a fresh sequence with the element at fromOrder moved to
// toOrder and every rank recomputed as its 1-based index. toOrder past the
// end clamps to the end.
func spliceJobs(s []models.Job, fromOrder, toOrder int) []models.Job {
	out := slices.Clone(s)
	moved := out[fromOrder-1]
	out = slices.Delete(out, fromOrder-1, fromOrder)

	at := toOrder - 1
	if at > len(out) {
		at = len(out)
	}
	out = slices.Insert(out, at, moved)

	for i := range out {
		out[i].Order = i + 1
	}
	return out
}
