// internal/storage/logs.go
package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"sitenotify/internal/common/errors"
	"sitenotify/internal/models"
)

// DeliveryLogStore is the append-only delivery log. Entries are listed
// newest first and only ever removed in bulk, by id set or by age.
type DeliveryLogStore struct {
	db *sql.DB
}

func NewDeliveryLogStore(db *sql.DB) *DeliveryLogStore {
	return &DeliveryLogStore{db: db}
}

// Record appends one entry.
func (s *DeliveryLogStore) Record(ctx context.Context, entry models.LogEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO delivery_logs (id, integration, status, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.Integration, entry.Status, entry.Content, entry.Timestamp)
	if err != nil {
		return errors.NewStorageError("append delivery log", err)
	}
	return nil
}

// List returns one page of entries, newest first.
func (s *DeliveryLogStore) List(ctx context.Context, page, size int) ([]models.LogEntry, error) {
	if page < 1 {
		page = 1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, integration, status, content, created_at
		FROM delivery_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, size, (page-1)*size)
	if err != nil {
		return nil, errors.NewStorageError("list delivery logs", err)
	}
	defer rows.Close()

	var out []models.LogEntry
	for rows.Next() {
		var entry models.LogEntry
		if err := rows.Scan(&entry.ID, &entry.Integration, &entry.Status, &entry.Content, &entry.Timestamp); err != nil {
			return nil, errors.NewStorageError("scan delivery log", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("iterate delivery logs", err)
	}
	return out, nil
}

// DeleteByIDs removes the named entries and reports how many existed.
func (s *DeliveryLogStore) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM delivery_logs WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, errors.NewStorageError("delete delivery logs by id", err)
	}
	affected, _ := result.RowsAffected()
	return affected, nil
}

// DeleteOlderThan removes entries recorded before the cutoff.
func (s *DeliveryLogStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM delivery_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, errors.NewStorageError("delete delivery logs by age", err)
	}
	affected, _ := result.RowsAffected()
	return affected, nil
}
