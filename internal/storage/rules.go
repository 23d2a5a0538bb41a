// internal/storage/rules.go
package storage

import (
	"context"
	"database/sql"
	"encoding/json"

	"sitenotify/internal/common/errors"
	"sitenotify/internal/models"
)

// RuleStore reads and writes notification rules. Connections live as a
// JSONB document per rule; their array order is the dispatch order.
type RuleStore struct {
	db *sql.DB
}

func NewRuleStore(db *sql.DB) *RuleStore {
	return &RuleStore{db: db}
}

// ByTrigger returns the rules referencing a trigger slug, most recently
// updated first. Enablement is a per-connection flag and is checked by
// the dispatcher, not filtered here.
func (s *RuleStore) ByTrigger(ctx context.Context, triggerSlug string) ([]models.Rule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, trigger_slug, connections, created_at, updated_at
		FROM notification_rules
		WHERE trigger_slug = $1
		ORDER BY updated_at DESC`, triggerSlug)
	if err != nil {
		return nil, errors.NewStorageError("query rules by trigger", err)
	}
	defer rows.Close()
	return scanRules(rows)
}

// Get returns one rule by id.
func (s *RuleStore) Get(ctx context.Context, id int64) (*models.Rule, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, trigger_slug, connections, created_at, updated_at
		FROM notification_rules
		WHERE id = $1`, id)

	rule, err := scanRule(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.NewStorageError("get rule", err)
	}
	return rule, nil
}

// Save inserts or updates a rule and returns its id.
func (s *RuleStore) Save(ctx context.Context, rule *models.Rule) (int64, error) {
	connections, err := json.Marshal(rule.Connections)
	if err != nil {
		return 0, errors.NewStorageError("encode rule connections", err)
	}
	if rule.ID == 0 {
		var id int64
		err = s.db.QueryRowContext(ctx, `
			INSERT INTO notification_rules (title, trigger_slug, connections, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			RETURNING id`, rule.Title, rule.TriggerSlug, connections).Scan(&id)
		if err != nil {
			return 0, errors.NewStorageError("insert rule", err)
		}
		return id, nil
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE notification_rules
		SET title = $2, trigger_slug = $3, connections = $4, updated_at = NOW()
		WHERE id = $1`, rule.ID, rule.Title, rule.TriggerSlug, connections)
	if err != nil {
		return 0, errors.NewStorageError("update rule", err)
	}
	return rule.ID, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*models.Rule, error) {
	var rule models.Rule
	var connections []byte
	if err := row.Scan(&rule.ID, &rule.Title, &rule.TriggerSlug, &connections, &rule.CreatedAt, &rule.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(connections, &rule.Connections); err != nil {
		return nil, err
	}
	return &rule, nil
}

func scanRules(rows *sql.Rows) ([]models.Rule, error) {
	var out []models.Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, errors.NewStorageError("scan rule", err)
		}
		out = append(out, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("iterate rules", err)
	}
	return out, nil
}
