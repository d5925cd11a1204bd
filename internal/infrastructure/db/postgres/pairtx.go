package postgres

import (
	"context"
	"database/sql"

	"github.com/baechuer/integrations-hub/internal/domain"
)

// pairTx implements delivery.Tx over a single *sql.Tx already holding
// the pair's advisory lock (see DeliveryRepo.WithPairTx).
type pairTx struct {
	tx *sql.Tx
}

func (t *pairTx) ListForPair(ctx context.Context, eventID, subscriptionID string) ([]*domain.DeliveryAttempt, error) {
	rows, err := t.tx.QueryContext(ctx, listAttemptsForPairForUpdateSQL, eventID, subscriptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func (t *pairTx) CreateAttempt(ctx context.Context, a *domain.DeliveryAttempt) error {
	_, err := t.tx.ExecContext(ctx, insertDeliveryAttemptSQL,
		a.ID, a.EventID, a.SubscriptionID, a.AttemptNumber, string(a.Status),
		a.HTTPStatusCode, a.ResponseBody, a.ErrorMessage, a.NextRetryAt, a.CreatedAt,
	)
	return err
}

func (t *pairTx) UpdateAttempt(ctx context.Context, a *domain.DeliveryAttempt) error {
	_, err := t.tx.ExecContext(ctx, updateDeliveryAttemptSQL,
		a.ID, string(a.Status), a.HTTPStatusCode, a.ResponseBody, a.ErrorMessage, a.NextRetryAt,
	)
	return err
}

func (t *pairTx) GetDeadLetterForPair(ctx context.Context, eventID, subscriptionID string) (*domain.DeadLetter, error) {
	row := t.tx.QueryRowContext(ctx, getDeadLetterForPairSQL, eventID, subscriptionID)
	dl, err := scanDeadLetter(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return dl, err
}

func (t *pairTx) CreateDeadLetter(ctx context.Context, d *domain.DeadLetter) error {
	_, err := t.tx.ExecContext(ctx, insertDeadLetterSQL, d.ID, d.EventID, d.SubscriptionID, d.LastError, d.TotalAttempts, d.CreatedAt)
	return err
}

func (t *pairTx) DeleteDeadLetter(ctx context.Context, id string) error {
	_, err := t.tx.ExecContext(ctx, deleteDeadLetterSQL, id)
	return err
}
