package service

import (
	"context"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// Change actions reported to mutation hooks.
const (
	ActionCreated     = "created"
	ActionUpdated     = "updated"
	ActionVoted       = "voted"
	ActionDeleted     = "deleted"
	ActionBulkCreated = "bulk_created"
	ActionBulkDeleted = "bulk_deleted"
)

// Change describes one committed mutation.  Movie is the row after the
// change and is nil for deletes; Count is set for bulk actions.
type Change struct {
	Action  string
	MovieID int64
	Movie   *model.Movie
	Count   int64
}

// MutationHook is notified after a mutation has been committed.  Hooks
// run synchronously on the caller's goroutine and must not fail the
// operation; they log their own errors.
type MutationHook interface {
	MovieChanged(ctx context.Context, c Change)
}

// HookFunc adapts a function to MutationHook.
type HookFunc func(ctx context.Context, c Change)

func (f HookFunc) MovieChanged(ctx context.Context, c Change) { f(ctx, c) }
