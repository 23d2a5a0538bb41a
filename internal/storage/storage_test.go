// internal/storage/storage_test.go
package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitenotify/internal/models"
)

// ==========================
// Rule Store Tests
// ==========================

func TestRuleStore_ByTrigger(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	connections := `[{"id":"c1","enabled":true,"name":"ops hook","integration":"webhook","settings":{"url":"https://example.test"}}]`
	rows := sqlmock.NewRows([]string{"id", "title", "trigger_slug", "connections", "created_at", "updated_at"}).
		AddRow(int64(2), "Newer rule", "post-published", []byte(connections), now, now).
		AddRow(int64(1), "Older rule", "post-published", []byte(`[]`), now, now)

	mock.ExpectQuery(`(?s)SELECT id, title, trigger_slug, connections, created_at, updated_at.*FROM notification_rules.*WHERE trigger_slug = \$1.*ORDER BY updated_at DESC`).
		WithArgs("post-published").
		WillReturnRows(rows)

	rules, err := NewRuleStore(db).ByTrigger(context.Background(), "post-published")
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "Newer rule", rules[0].Title, "most recent first")
	require.Len(t, rules[0].Connections, 1)
	assert.Equal(t, "webhook", rules[0].Connections[0].Integration)
	assert.Equal(t, "https://example.test", rules[0].Connections[0].Settings["url"])
	assert.Empty(t, rules[1].Connections)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRuleStore_Save_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO notification_rules`).
		WithArgs("New post alert", "post-published", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))

	id, err := NewRuleStore(db).Save(context.Background(), &models.Rule{
		Title:       "New post alert",
		TriggerSlug: "post-published",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Delivery Log Store Tests
// ==========================

func TestDeliveryLogStore_RecordAndList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(`INSERT INTO delivery_logs`).
		WithArgs("id-1", "email", models.LogStatusSuccess, "{}", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewDeliveryLogStore(db)
	require.NoError(t, store.Record(context.Background(), models.LogEntry{
		ID: "id-1", Integration: "email", Status: models.LogStatusSuccess, Content: "{}", Timestamp: now,
	}))

	mock.ExpectQuery(`(?s)SELECT id, integration, status, content, created_at.*FROM delivery_logs.*ORDER BY created_at DESC.*LIMIT \$1 OFFSET \$2`).
		WithArgs(25, 25).
		WillReturnRows(sqlmock.NewRows([]string{"id", "integration", "status", "content", "created_at"}).
			AddRow("id-1", "email", models.LogStatusSuccess, "{}", now))

	entries, err := store.List(context.Background(), 2, 25)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "email", entries[0].Integration)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryLogStore_DeleteByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM delivery_logs WHERE id = ANY\(\$1\)`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	store := NewDeliveryLogStore(db)
	affected, err := store.DeleteByIDs(context.Background(), []string{"id-1", "id-2"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	affected, err = store.DeleteByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, affected, "empty id set is a no-op without touching the database")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryLogStore_DeleteOlderThan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cutoff := time.Now().Add(-30 * 24 * time.Hour)
	mock.ExpectExec(`DELETE FROM delivery_logs WHERE created_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 7))

	affected, err := NewDeliveryLogStore(db).DeleteOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 7, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Subscription Store Tests
// ==========================

func TestSubscriptionStore_ListPage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)SELECT id, endpoint, p256dh, auth, content_encoding, status, created_at, updated_at.*FROM push_subscriptions.*WHERE status = \$1.*ORDER BY id DESC.*LIMIT \$2 OFFSET \$3`).
		WithArgs(models.SubscriptionStatusSubscribed, 20, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "endpoint", "p256dh", "auth", "content_encoding", "status", "created_at", "updated_at"}).
			AddRow(int64(9), "https://push.example.test/ep", "p", "a", "aes128gcm", models.SubscriptionStatusSubscribed, now, now))

	subs, err := NewSubscriptionStore(db).ListPage(context.Background(), 2, 20)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "https://push.example.test/ep", subs[0].Endpoint)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Count covers every row, not just subscribed ones; the fan-out's
// continue-check depends on that.
func TestSubscriptionStore_CountIsUnfiltered(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM push_subscriptions`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(45))

	count, err := NewSubscriptionStore(db).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 45, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionStore_UpdateStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE push_subscriptions SET status = \$2, updated_at = NOW\(\) WHERE id = \$1`).
		WithArgs(int64(99), models.SubscriptionStatusUnsubscribed).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewSubscriptionStore(db).UpdateStatus(context.Background(), 99, models.SubscriptionStatusUnsubscribed)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Settings Store Tests
// ==========================

func TestSettingsStore_TriggerEnabled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewSettingsStore(db)

	mock.ExpectQuery(`SELECT value FROM settings WHERE key = \$1`).
		WithArgs("trigger_enabled:post-published").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("false"))
	assert.False(t, store.TriggerEnabled(context.Background(), "post-published"))

	mock.ExpectQuery(`SELECT value FROM settings WHERE key = \$1`).
		WithArgs("trigger_enabled:comment_added").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	assert.True(t, store.TriggerEnabled(context.Background(), "comment_added"), "unset means enabled")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsStore_BackgroundProcessing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT value FROM settings WHERE key = \$1`).
		WithArgs(SettingBackgroundProcessing).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("true"))

	assert.True(t, NewSettingsStore(db).BackgroundProcessing(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
