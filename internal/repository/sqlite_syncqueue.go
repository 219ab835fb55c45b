package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/babybond/internal/db"
	"github.com/alexanderramin/babybond/internal/domain"
)

// SQLiteSyncQueueRepo implements SyncQueueRepo using a SQLite database.
type SQLiteSyncQueueRepo struct {
	db db.DBTX
}

// NewSQLiteSyncQueueRepo creates a new SQLiteSyncQueueRepo.
func NewSQLiteSyncQueueRepo(conn db.DBTX) *SQLiteSyncQueueRepo {
	return &SQLiteSyncQueueRepo{db: conn}
}

const syncColumns = `id, action, entity_type, payload, enqueued_at, priority, retry_count, max_retries,
	status, last_error`

// drainOrder sorts by priority weight descending, then enqueue instant ascending.
const drainOrder = `ORDER BY CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC,
	enqueued_at, id`

func (r *SQLiteSyncQueueRepo) Get(ctx context.Context, id string) (*domain.SyncQueueItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+syncColumns+` FROM sync_queue WHERE id = ?`, id)
	item, err := scanSyncItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sync queue item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("getting sync queue item", err)
	}
	return item, nil
}

// List returns every queued item in drain order.
func (r *SQLiteSyncQueueRepo) List(ctx context.Context) ([]*domain.SyncQueueItem, error) {
	return r.query(ctx, "listing sync queue", `SELECT `+syncColumns+` FROM sync_queue `+drainOrder)
}

func (r *SQLiteSyncQueueRepo) ListByPriority(ctx context.Context, p domain.SyncPriority) ([]*domain.SyncQueueItem, error) {
	return r.query(ctx, "listing sync queue by priority",
		`SELECT `+syncColumns+` FROM sync_queue WHERE priority = ? ORDER BY enqueued_at, id`, string(p))
}

// ListEnqueuedBetween returns items enqueued in [from, to], oldest first.
func (r *SQLiteSyncQueueRepo) ListEnqueuedBetween(ctx context.Context, from, to time.Time) ([]*domain.SyncQueueItem, error) {
	return r.query(ctx, "listing sync queue by enqueue time",
		`SELECT `+syncColumns+` FROM sync_queue WHERE enqueued_at BETWEEN ? AND ? ORDER BY enqueued_at, id`,
		formatTime(from), formatTime(to))
}

// ListPending returns items awaiting delivery in drain order.
func (r *SQLiteSyncQueueRepo) ListPending(ctx context.Context) ([]*domain.SyncQueueItem, error) {
	return r.query(ctx, "listing pending sync items",
		`SELECT `+syncColumns+` FROM sync_queue WHERE status = 'pending' `+drainOrder)
}

// MarkSyncing claims the given items for an in-flight drain.
func (r *SQLiteSyncQueueRepo) MarkSyncing(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := `UPDATE sync_queue SET status = 'syncing' WHERE id IN (` + placeholders + `)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return storeErr("claiming sync items", err)
	}
	return nil
}

// ResetInFlight returns items left in 'syncing' by an interrupted drain to
// 'pending' and reports how many were recovered.
func (r *SQLiteSyncQueueRepo) ResetInFlight(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE sync_queue SET status = 'pending' WHERE status = 'syncing'`)
	if err != nil {
		return 0, storeErr("resetting in-flight sync items", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("resetting in-flight sync items", err)
	}
	return int(n), nil
}

func (r *SQLiteSyncQueueRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_queue`).Scan(&n); err != nil {
		return 0, storeErr("counting sync queue", err)
	}
	return n, nil
}

func (r *SQLiteSyncQueueRepo) Put(ctx context.Context, item *domain.SyncQueueItem) error {
	payload := string(item.Payload)
	if payload == "" {
		payload = "null"
	}
	status := item.Status
	if status == "" {
		status = domain.SyncItemPending
	}
	query := `INSERT INTO sync_queue (` + syncColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			action = excluded.action,
			entity_type = excluded.entity_type,
			payload = excluded.payload,
			enqueued_at = excluded.enqueued_at,
			priority = excluded.priority,
			retry_count = excluded.retry_count,
			max_retries = excluded.max_retries,
			status = excluded.status,
			last_error = excluded.last_error`
	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		string(item.Action),
		string(item.EntityType),
		payload,
		formatTime(item.EnqueuedAt),
		string(item.Priority),
		item.RetryCount,
		item.MaxRetries,
		string(status),
		item.LastError,
	)
	if err != nil {
		return storeErr("upserting sync queue item", err)
	}
	return nil
}

func (r *SQLiteSyncQueueRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE id = ?`, id); err != nil {
		return storeErr("deleting sync queue item", err)
	}
	return nil
}

func (r *SQLiteSyncQueueRepo) query(ctx context.Context, op, query string, args ...any) ([]*domain.SyncQueueItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var out []*domain.SyncQueueItem
	for rows.Next() {
		item, err := scanSyncItem(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

func scanSyncItem(s rowScanner) (*domain.SyncQueueItem, error) {
	var item domain.SyncQueueItem
	var action, entityType, payload, enqueuedAt, priority, status string

	if err := s.Scan(&item.ID, &action, &entityType, &payload, &enqueuedAt, &priority,
		&item.RetryCount, &item.MaxRetries, &status, &item.LastError); err != nil {
		return nil, err
	}

	item.Action = domain.SyncAction(action)
	item.EntityType = domain.SyncEntityType(entityType)
	item.Priority = domain.SyncPriority(priority)
	item.Status = domain.SyncItemStatus(status)
	item.Payload = []byte(payload)

	var err error
	if item.EnqueuedAt, err = parseTime(enqueuedAt); err != nil {
		return nil, err
	}
	return &item, nil
}
