package postgres

import (
	"context"
	"database/sql"

	"github.com/baechuer/integrations-hub/internal/domain"
)

// SubscriptionRepo implements subscription.Repo and the read-side of
// delivery.SubscriptionReader against Postgres.
type SubscriptionRepo struct {
	db *sql.DB
}

func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

func (r *SubscriptionRepo) Create(ctx context.Context, s *domain.Subscription) error {
	_, err := r.db.ExecContext(ctx, insertSubscriptionSQL,
		s.ID, s.URL, s.Secret, s.Enabled, domain.EventsCSV(s.Events), s.CreatedAt, s.UpdatedAt,
	)
	return err
}

func (r *SubscriptionRepo) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	row := r.db.QueryRowContext(ctx, getSubscriptionSQL, id)
	s, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("subscription not found")
	}
	return s, err
}

func (r *SubscriptionRepo) Update(ctx context.Context, s *domain.Subscription) error {
	_, err := r.db.ExecContext(ctx, updateSubscriptionSQL,
		s.ID, s.URL, s.Secret, s.Enabled, domain.EventsCSV(s.Events), s.UpdatedAt,
	)
	return err
}

func (r *SubscriptionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, deleteSubscriptionSQL, id)
	return err
}

func (r *SubscriptionRepo) List(ctx context.Context) ([]*domain.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, listSubscriptionsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubscriptions(rows)
}

// ListEnabledForEventType implements delivery.SubscriptionReader.
func (r *SubscriptionRepo) ListEnabledForEventType(ctx context.Context, eventType domain.EventType) ([]*domain.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, listEnabledSubscriptionsForEventTypeSQL, string(eventType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubscriptions(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (*domain.Subscription, error) {
	var s domain.Subscription
	var eventsCSV string
	if err := row.Scan(&s.ID, &s.URL, &s.Secret, &s.Enabled, &eventsCSV, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Events = domain.ParseEventsCSV(eventsCSV)
	return &s, nil
}

func scanSubscriptions(rows *sql.Rows) ([]*domain.Subscription, error) {
	out := []*domain.Subscription{}
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
