// internal/storage/subscriptions.go
package storage

import (
	"context"
	"database/sql"

	"sitenotify/internal/common/errors"
	"sitenotify/internal/models"
)

// SubscriptionStore keeps browser push subscriptions. Paging matches
// the batch fan-out contract: pages filter to subscribed endpoints in
// id-descending order, while Count deliberately counts every row
// regardless of status.
type SubscriptionStore struct {
	db *sql.DB
}

func NewSubscriptionStore(db *sql.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

// Create registers a new endpoint as subscribed and returns its id.
func (s *SubscriptionStore) Create(ctx context.Context, sub *models.PushSubscription) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO push_subscriptions (endpoint, p256dh, auth, content_encoding, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id`,
		sub.Endpoint, sub.P256DH, sub.Auth, sub.ContentEncoding, models.SubscriptionStatusSubscribed).Scan(&id)
	if err != nil {
		return 0, errors.NewStorageError("create push subscription", err)
	}
	return id, nil
}

// ListPage returns one page of subscribed endpoints, newest id first.
func (s *SubscriptionStore) ListPage(ctx context.Context, page, size int) ([]models.PushSubscription, error) {
	if page < 1 {
		page = 1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, endpoint, p256dh, auth, content_encoding, status, created_at, updated_at
		FROM push_subscriptions
		WHERE status = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3`,
		models.SubscriptionStatusSubscribed, size, (page-1)*size)
	if err != nil {
		return nil, errors.NewStorageError("list push subscriptions", err)
	}
	defer rows.Close()

	var out []models.PushSubscription
	for rows.Next() {
		var sub models.PushSubscription
		if err := rows.Scan(&sub.ID, &sub.Endpoint, &sub.P256DH, &sub.Auth, &sub.ContentEncoding, &sub.Status, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, errors.NewStorageError("scan push subscription", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("iterate push subscriptions", err)
	}
	return out, nil
}

// Count returns the total number of stored subscriptions. Not filtered
// by status; the pagination count check depends on this exact shape.
func (s *SubscriptionStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM push_subscriptions`).Scan(&count); err != nil {
		return 0, errors.NewStorageError("count push subscriptions", err)
	}
	return count, nil
}

// UpdateStatus flips one endpoint between subscribed and unsubscribed.
func (s *SubscriptionStore) UpdateStatus(ctx context.Context, id int64, status string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE push_subscriptions SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return errors.NewStorageError("update push subscription", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one subscription outright.
func (s *SubscriptionStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM push_subscriptions WHERE id = $1`, id)
	if err != nil {
		return errors.NewStorageError("delete push subscription", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}
