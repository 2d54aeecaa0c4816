package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"email-assistant/internal/queue"
	"email-assistant/internal/store"
)

const (
	enqueueAttempts = 3
	enqueueBackoff  = 200 * time.Millisecond

	// DefaultLimit bounds List when the caller asks for nothing or too much.
	DefaultLimit = 50
)

// Publisher hands history entries to the recorder worker through the queue.
type Publisher struct {
	queue queue.Queue
	log   *slog.Logger
}

func NewPublisher(q queue.Queue, log *slog.Logger) *Publisher {
	return &Publisher{queue: q, log: log}
}

// Record enqueues rec. A missing ID is assigned here so redeliveries stay idempotent.
func (p *Publisher) Record(ctx context.Context, rec store.Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	task := queue.Task{ID: rec.ID, Type: queue.TaskTypeRecord, Payload: body}
	if err := queue.EnqueueWithRetry(ctx, p.queue, task, enqueueAttempts, enqueueBackoff); err != nil {
		return fmt.Errorf("enqueue record: %w", err)
	}
	p.log.Debug("history record enqueued", "id", rec.ID, "user_id", rec.UserID, "type", rec.RequestType)
	return nil
}

// Handler persists record tasks. Undecodable payloads are dropped rather than retried.
func Handler(st store.Store, log *slog.Logger) queue.Handler {
	return func(ctx context.Context, task queue.Task) error {
		var rec store.Record
		if err := json.Unmarshal(task.Payload, &rec); err != nil {
			log.Error("dropping undecodable history record", "task_id", task.ID, "err", err)
			return nil
		}
		if rec.ID == uuid.Nil {
			rec.ID = task.ID
		}
		if err := st.SaveRecord(ctx, rec); err != nil {
			return fmt.Errorf("save record %s: %w", rec.ID, err)
		}
		log.Info("history record saved", "id", rec.ID, "user_id", rec.UserID, "type", rec.RequestType)
		return nil
	}
}

// Reader lists a user's past requests, newest first.
type Reader struct {
	store store.Store
	limit int
}

// NewReader caps every listing at limit entries.
func NewReader(st store.Store, limit int) *Reader {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Reader{store: st, limit: limit}
}

// List returns up to limit records of the given types. No types means all.
func (r *Reader) List(ctx context.Context, userID string, types []store.RequestType, limit int) ([]store.Record, error) {
	if limit <= 0 || limit > r.limit {
		limit = r.limit
	}
	recs, err := r.store.ListRecords(ctx, userID, types, limit)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	if recs == nil {
		recs = []store.Record{}
	}
	return recs, nil
}
