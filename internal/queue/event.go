// Package queue carries movie change events over RabbitMQ: the payload,
// a circuit-breaker guarded publisher and the audit consumer.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/movie-catalog/internal/service"
)

// MovieChangedQueue is the durable queue change events are routed to.
const MovieChangedQueue = "catalog.movie_changed"

// MovieChangedEvent is published after every committed mutation.  Title
// is empty for deletes; Count is set for bulk actions.
type MovieChangedEvent struct {
	EventID    string `json:"event_id"`
	Action     string `json:"action"`
	MovieID    int64  `json:"movie_id,omitempty"`
	Title      string `json:"title,omitempty"`
	Count      int64  `json:"count,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// NewMovieChangedEvent builds the event for c with a fresh id.
func NewMovieChangedEvent(c service.Change, at time.Time) MovieChangedEvent {
	ev := MovieChangedEvent{
		EventID:    uuid.NewString(),
		Action:     c.Action,
		MovieID:    c.MovieID,
		Count:      c.Count,
		OccurredAt: at.UTC().Format(time.RFC3339),
	}
	if c.Movie != nil {
		ev.Title = c.Movie.Title
	}
	return ev
}
