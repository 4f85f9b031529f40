package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker/v2"

	"github.com/iliyamo/movie-catalog/internal/logging"
	"github.com/iliyamo/movie-catalog/internal/metrics"
	"github.com/iliyamo/movie-catalog/internal/service"
)

const breakerName = "rabbitmq-publisher"

// Sender delivers one message body to a queue.
type Sender interface {
	Send(ctx context.Context, queue string, body []byte) error
}

// AMQPSender dials the broker for every message.  Publishing is rare
// (one message per mutation) so no connection is kept open.
type AMQPSender struct {
	URL         string
	DialTimeout time.Duration
}

// Send declares the durable queue and publishes body as a persistent
// message on the default exchange.
func (s AMQPSender) Send(ctx context.Context, queue string, body []byte) error {
	timeout := s.DialTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	conn, err := amqp.DialConfig(s.URL, amqp.Config{Dial: amqp.DefaultDial(timeout)})
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	return ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

// Publisher turns committed mutations into MovieChangedEvents.  Sends go
// through a circuit breaker so an unreachable broker costs one fast
// failure per mutation instead of a dial timeout.  Publishing is best
// effort: failures are logged and counted, never returned to the tool
// caller.
type Publisher struct {
	sender Sender
	cb     *gobreaker.CircuitBreaker[struct{}]
	now    func() time.Time
}

// NewPublisher returns a Publisher sending through s.
func NewPublisher(s Sender) *Publisher {
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
	metrics.BreakerState.WithLabelValues(breakerName).Set(float64(gobreaker.StateClosed))
	return &Publisher{sender: s, cb: cb, now: time.Now}
}

var _ service.MutationHook = (*Publisher)(nil)

// Publish sends ev to MovieChangedQueue.
func (p *Publisher) Publish(ctx context.Context, ev MovieChangedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = p.cb.Execute(func() (struct{}, error) {
		return struct{}{}, p.sender.Send(ctx, MovieChangedQueue, body)
	})
	return err
}

// MovieChanged publishes the event for c.
func (p *Publisher) MovieChanged(ctx context.Context, c service.Change) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	ev := NewMovieChangedEvent(c, p.now())
	err := p.Publish(ctx, ev)
	metrics.RecordEvent(c.Action, err)
	if err == nil {
		return
	}
	le := logging.Warn()
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		le = logging.Debug()
	}
	le.Err(err).Str("event_id", ev.EventID).Str("action", ev.Action).Int64("movie_id", ev.MovieID).Msg("publish movie event failed")
}

// State reports the breaker state.
func (p *Publisher) State() gobreaker.State { return p.cb.State() }
