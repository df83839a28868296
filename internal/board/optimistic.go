// Package board holds the optimistic-update coordinators behind the jobs
// list and the candidate kanban. A coordinator applies each mutation to its
// local view immediately, confirms it over the network, and restores the
// pre-mutation snapshot when the write fails.
package board

import "errors"

// ErrClosed is returned for mutations attempted after a board is closed.
var ErrClosed = errors.New("board is closed")

// Result reports how one optimistic mutation resolved.
type Result struct {
	Committed  bool
	RolledBack bool
	Err        error
}

// withOptimisticUpdate runs the snapshot, apply, commit-or-rollback sequence
// over one state cell. applyLocally must return a fresh value and leave its
// input untouched, so the snapshot stays valid for rollback. publish makes a
// state the displayed one; it is called with the optimistic state before
// commitRemotely runs, and again with the snapshot if the commit fails.
func withOptimisticUpdate[S any](
	current S,
	applyLocally func(S) S,
	publish func(S),
	commitRemotely func() error,
) Result {
	publish(applyLocally(current))

	if err := commitRemotely(); err != nil {
		publish(current)
		return Result{RolledBack: true, Err: err}
	}
	return Result{Committed: true}
}
