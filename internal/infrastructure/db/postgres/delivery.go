package postgres

import (
	"context"
	"database/sql"

	"github.com/baechuer/integrations-hub/internal/application/delivery"
	"github.com/baechuer/integrations-hub/internal/domain"
)

// DeliveryRepo implements the read side of the delivery package's ports
// (PairReader, AttemptReader, DeadLetterReader) and Store, the
// transaction boundary around one (event, subscription) pair.
type DeliveryRepo struct {
	db *sql.DB
}

func NewDeliveryRepo(db *sql.DB) *DeliveryRepo { return &DeliveryRepo{db: db} }

func (r *DeliveryRepo) ListForPair(ctx context.Context, eventID, subscriptionID string) ([]*domain.DeliveryAttempt, error) {
	rows, err := r.db.QueryContext(ctx, listAttemptsForPairSQL, eventID, subscriptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func (r *DeliveryRepo) GetDeadLetterForPair(ctx context.Context, eventID, subscriptionID string) (*domain.DeadLetter, error) {
	row := r.db.QueryRowContext(ctx, getDeadLetterForPairSQL, eventID, subscriptionID)
	dl, err := scanDeadLetter(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return dl, err
}

func (r *DeliveryRepo) ListForEvent(ctx context.Context, eventID string) ([]*domain.DeliveryAttempt, error) {
	rows, err := r.db.QueryContext(ctx, listAttemptsForEventSQL, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func (r *DeliveryRepo) GetByID(ctx context.Context, id string) (*domain.DeadLetter, error) {
	row := r.db.QueryRowContext(ctx, getDeadLetterByIDSQL, id)
	dl, err := scanDeadLetter(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("dead letter not found")
	}
	return dl, err
}

// WithPairTx serializes concurrent workers on the same event/subscription
// pair via a transaction-scoped advisory lock. Postgres advisory locks take
// a single bigint key, so the pair is folded into one with
// hashtextextended; a failed try reports ErrPairLocked rather than
// blocking, the same "lost the race, skip this pair this cycle" behavior
// SELECT ... FOR UPDATE SKIP LOCKED would give on a claim row.
func (r *DeliveryRepo) WithPairTx(ctx context.Context, eventID, subscriptionID string, fn func(tx delivery.Tx) error) error {
	sqlTx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	var acquired bool
	if err := sqlTx.QueryRowContext(ctx, pairAdvisoryTryLockSQL, eventID, subscriptionID).Scan(&acquired); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if !acquired {
		_ = sqlTx.Rollback()
		return delivery.ErrPairLocked
	}

	tx := &pairTx{tx: sqlTx}
	if err := fn(tx); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	return sqlTx.Commit()
}

const pairAdvisoryTryLockSQL = `SELECT pg_try_advisory_xact_lock(hashtextextended($1 || ':' || $2, 0))`

func scanAttempts(rows *sql.Rows) ([]*domain.DeliveryAttempt, error) {
	out := []*domain.DeliveryAttempt{}
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAttempt(row rowScanner) (*domain.DeliveryAttempt, error) {
	var a domain.DeliveryAttempt
	var status string
	if err := row.Scan(
		&a.ID, &a.EventID, &a.SubscriptionID, &a.AttemptNumber, &status,
		&a.HTTPStatusCode, &a.ResponseBody, &a.ErrorMessage, &a.NextRetryAt, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	a.Status = domain.DeliveryStatus(status)
	return &a, nil
}

func scanDeadLetter(row rowScanner) (*domain.DeadLetter, error) {
	var dl domain.DeadLetter
	if err := row.Scan(&dl.ID, &dl.EventID, &dl.SubscriptionID, &dl.LastError, &dl.TotalAttempts, &dl.CreatedAt); err != nil {
		return nil, err
	}
	return &dl, nil
}
