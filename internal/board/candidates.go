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

// ErrNotOnBoard is returned when a stage move names a candidate the board
// does not currently hold.
var ErrNotOnBoard = errors.New("candidate not on board")

// StageBuckets is the kanban view: candidates grouped by pipeline stage.
type StageBuckets map[models.Stage][]models.Candidate

// CandidateBoard is the optimistic coordinator for the kanban. It buckets
// candidates by stage, moves cards between buckets before the server
// confirms, and rolls the buckets back when the write fails.
type CandidateBoard struct {
	repo    repo.CandidateRepository
	logger  *slog.Logger
	onError func(action string, err error)

	mu     sync.Mutex
	state  StageBuckets
	filter models.CandidateFilter
	seq    uint64
	closed bool
}

// CandidateBoardOption configures a CandidateBoard.
type CandidateBoardOption func(*CandidateBoard)

// WithCandidateErrorHandler overrides the default log-only error surface.
func WithCandidateErrorHandler(fn func(action string, err error)) CandidateBoardOption {
	return func(b *CandidateBoard) {
		b.onError = fn
	}
}

// WithCandidateFilter sets the listing filter used for loads and resyncs.
func WithCandidateFilter(filter models.CandidateFilter) CandidateBoardOption {
	return func(b *CandidateBoard) {
		b.filter = filter
	}
}

// NewCandidateBoard creates a board over the given repository. Call Load
// before the first mutation.
func NewCandidateBoard(r repo.CandidateRepository, logger *slog.Logger, opts ...CandidateBoardOption) *CandidateBoard {
	b := &CandidateBoard{
		repo:   r,
		logger: logger,
		state:  make(StageBuckets),
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

// Load fetches the filtered candidate collection and buckets it by stage.
func (b *CandidateBoard) Load(ctx context.Context) error {
	list, err := b.repo.List(ctx, b.filter)
	if err != nil {
		return err
	}
	b.publish(bucketByStage(list.Data))
	return nil
}

// Buckets returns a copy of the current kanban state.
func (b *CandidateBoard) Buckets() StageBuckets {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneBuckets(b.state)
}

// Close marks the board disposed. Later mutations fail with ErrClosed and
// in-flight resync responses are discarded instead of applied.
func (b *CandidateBoard) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

// MoveStage moves a candidate's card to another stage bucket. The move is
// shown immediately; if the server rejects it the previous buckets are
// restored and the error surfaced. Either way the board resyncs afterwards.
func (b *CandidateBoard) MoveStage(ctx context.Context, candidateID string, toStage models.Stage) Result {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return Result{Err: ErrClosed}
	}
	if _, _, ok := locateCandidate(b.state, candidateID); !ok {
		b.mu.Unlock()
		return Result{Err: ErrNotOnBoard}
	}
	snapshot := b.state
	b.mu.Unlock()

	res := withOptimisticUpdate(snapshot,
		func(s StageBuckets) StageBuckets {
			return moveCard(s, candidateID, toStage)
		},
		b.publish,
		func() error {
			_, err := b.repo.Move(ctx, candidateID, toStage)
			return err
		},
	)

	if res.Err != nil {
		b.onError("Stage transition failed", res.Err)
	}
	b.Resync(ctx)
	return res
}

// Resync refetches the authoritative collection. The response is discarded
// if the displayed state moved on while the request was in flight.
func (b *CandidateBoard) Resync(ctx context.Context) {
	token, ok := b.beginRefetch()
	if !ok {
		return
	}

	list, err := b.repo.List(ctx, b.filter)
	if err != nil {
		b.logger.Warn("candidate board resync failed", "error", err)
		return
	}
	b.completeRefetch(token, bucketByStage(list.Data))
}

func (b *CandidateBoard) publish(s StageBuckets) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.state = s
	b.seq++
}

func (b *CandidateBoard) beginRefetch() (uint64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq, !b.closed
}

func (b *CandidateBoard) completeRefetch(token uint64, s StageBuckets) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.seq != token {
		return false
	}
	b.state = s
	return true
}

// bucketByStage groups candidates into stage buckets, preserving list order
// within each bucket.
func bucketByStage(candidates []models.Candidate) StageBuckets {
	buckets := make(StageBuckets)
	for _, c := range candidates {
		buckets[c.Stage] = append(buckets[c.Stage], c)
	}
	return buckets
}

func cloneBuckets(s StageBuckets) StageBuckets {
	out := make(StageBuckets, len(s))
	for stage, bucket := range s {
		out[stage] = slices.Clone(bucket)
	}
	return out
}

// locateCandidate finds a candidate's stage and index within its bucket.
func locateCandidate(s StageBuckets, candidateID string) (models.Stage, int, bool) {
	for stage, bucket := range s {
		for i, c := range bucket {
			if id, err := models.RecordIDString(c.ID); err == nil && id == candidateID {
				return stage, i, true
			}
		}
	}
	return "", 0, false
}

// moveCard returns fresh buckets with the candidate moved to toStage. The
// card keeps its relative position when the move is a no-op and is appended
// to the destination bucket otherwise.
func moveCard(s StageBuckets, candidateID string, toStage models.Stage) StageBuckets {
	fromStage, idx, ok := locateCandidate(s, candidateID)
	if !ok || fromStage == toStage {
		return cloneBuckets(s)
	}

	out := cloneBuckets(s)
	card := out[fromStage][idx]
	out[fromStage] = slices.Delete(out[fromStage], idx, idx+1)

	card.Stage = toStage
	out[toStage] = append(out[toStage], card)
	return out
}
