package queue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/movie-catalog/internal/logging"
)

// DefaultAuditLog is where the audit consumer appends event lines.
var DefaultAuditLog = filepath.Join("logs", "catalog.log")

// StartAuditConsumer consumes MovieChangedQueue and appends one line per
// event to logPath.  It reconnects with exponential backoff and returns
// only when ctx is cancelled.
func StartAuditConsumer(ctx context.Context, url, logPath string) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			logging.Warn().Err(err).Dur("retry_in", backoff).Msg("audit consumer: dial failed")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, logPath)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.Warn().Err(err).Msg("audit consumer: consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, logPath string) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logging.Warn().Err(err).Msg("audit consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(MovieChangedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, MovieChangedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := appendAudit(logPath, d.Body); err != nil {
			logging.Error().Err(err).Msg("audit consumer: handle message failed")
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func appendAudit(logPath string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	return writeAuditLine(f, body)
}

// writeAuditLine formats one event as a single human-readable line.
func writeAuditLine(w io.Writer, body []byte) error {
	var ev MovieChangedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.EventID == "" || ev.Action == "" {
		return errors.New("event without id or action")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] Movie %s | event_id=%s", ev.OccurredAt, ev.Action, ev.EventID)
	if ev.MovieID != 0 {
		fmt.Fprintf(&b, " | movie_id=%d", ev.MovieID)
	}
	if ev.Title != "" {
		fmt.Fprintf(&b, " | title=%q", ev.Title)
	}
	if ev.Count != 0 {
		fmt.Fprintf(&b, " | count=%d", ev.Count)
	}
	b.WriteByte('\n')

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
