// Package db provides error types for database operations.
package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

// Sentinel errors for database operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNotActive indicates a reorder targeted a job that is missing from
	// the active set (unknown id or archived). Only active jobs carry a rank.
	ErrNotActive = errors.New("job not found or not active")

	// ErrInvalidStage indicates a stage transition named a value outside the
	// six defined pipeline stages. Unknown stages are never persisted.
	ErrInvalidStage = errors.New("invalid stage value")

	// ErrTransactionConflict indicates a SurrealDB transaction conflict.
	// The whole statement batch was aborted; nothing was committed.
	ErrTransactionConflict = errors.New("transaction conflict")

	// ErrValidation indicates caller-supplied data the store refuses to
	// persist, such as a blank title or an unknown status.
	ErrValidation = errors.New("validation failed")
)

// wrapQueryError inspects a SurrealDB error and wraps it with the appropriate
// sentinel error if it's a known query error type. Returns the original error
// otherwise.
func wrapQueryError(err error) error {
	if err == nil {
		return nil
	}

	var queryErr *surrealdb.QueryError
	if errors.As(err, &queryErr) {
		if strings.Contains(queryErr.Message, "Transaction conflict") {
			return fmt.Errorf("%w: %s", ErrTransactionConflict, queryErr.Message)
		}
	}

	return err
}
