package postgres

import (
	"context"
	"database/sql"

	"github.com/baechuer/integrations-hub/internal/domain"
)

// OutboxRepo implements outbox.Repo and the read-side of
// delivery.OutboxReader against Postgres.
type OutboxRepo struct {
	db *sql.DB
}

func NewOutboxRepo(db *sql.DB) *OutboxRepo { return &OutboxRepo{db: db} }

func (r *OutboxRepo) Create(ctx context.Context, e *domain.OutboxEvent) error {
	_, err := r.db.ExecContext(ctx, insertOutboxEventSQL, e.ID, string(e.EventType), string(e.Payload), e.CreatedAt)
	return err
}

// GetByID implements delivery.OutboxReader.
func (r *OutboxRepo) GetByID(ctx context.Context, id string) (*domain.OutboxEvent, error) {
	row := r.db.QueryRowContext(ctx, getOutboxEventSQL, id)
	e, err := scanOutboxEvent(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("outbox event not found")
	}
	return e, err
}

// ListBatch implements delivery.OutboxReader: up to limit events ordered
// by created_at ascending (§4.3 step 1).
func (r *OutboxRepo) ListBatch(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	rows, err := r.db.QueryContext(ctx, listOutboxBatchSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.OutboxEvent{}
	for rows.Next() {
		e, err := scanOutboxEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanOutboxEvent(row rowScanner) (*domain.OutboxEvent, error) {
	var e domain.OutboxEvent
	var eventType string
	var payload string
	if err := row.Scan(&e.ID, &eventType, &payload, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.EventType = domain.EventType(eventType)
	e.Payload = []byte(payload)
	return &e, nil
}
