package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/babybond/internal/db"
	"github.com/alexanderramin/babybond/internal/domain"
)

// SQLiteSyncEvictionRepo records queue items dropped after retry exhaustion.
type SQLiteSyncEvictionRepo struct {
	db db.DBTX
}

// NewSQLiteSyncEvictionRepo creates a new SQLiteSyncEvictionRepo.
func NewSQLiteSyncEvictionRepo(conn db.DBTX) *SQLiteSyncEvictionRepo {
	return &SQLiteSyncEvictionRepo{db: conn}
}

const evictionColumns = `item_id, action, entity_type, payload, enqueued_at, priority, retry_count,
	last_error, evicted_at`

func (r *SQLiteSyncEvictionRepo) Put(ctx context.Context, e *domain.SyncEviction) error {
	payload := string(e.Payload)
	if payload == "" {
		payload = "null"
	}
	query := `INSERT OR REPLACE INTO sync_evictions (` + evictionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ItemID,
		string(e.Action),
		string(e.EntityType),
		payload,
		formatTime(e.EnqueuedAt),
		string(e.Priority),
		e.RetryCount,
		e.LastError,
		formatTime(e.EvictedAt),
	)
	if err != nil {
		return storeErr("recording sync eviction", err)
	}
	return nil
}

// List returns evictions, most recent first.
func (r *SQLiteSyncEvictionRepo) List(ctx context.Context) ([]*domain.SyncEviction, error) {
	return r.query(ctx, "listing sync evictions",
		`SELECT `+evictionColumns+` FROM sync_evictions ORDER BY evicted_at DESC, item_id`)
}

// ListSince returns evictions at or after since, most recent first.
func (r *SQLiteSyncEvictionRepo) ListSince(ctx context.Context, since time.Time) ([]*domain.SyncEviction, error) {
	return r.query(ctx, "listing recent sync evictions",
		`SELECT `+evictionColumns+` FROM sync_evictions WHERE evicted_at >= ? ORDER BY evicted_at DESC, item_id`,
		formatTime(since))
}

func (r *SQLiteSyncEvictionRepo) query(ctx context.Context, op, query string, args ...any) ([]*domain.SyncEviction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var out []*domain.SyncEviction
	for rows.Next() {
		var e domain.SyncEviction
		var action, entityType, payload, enqueuedAt, priority, evictedAt string
		if err := rows.Scan(&e.ItemID, &action, &entityType, &payload, &enqueuedAt, &priority,
			&e.RetryCount, &e.LastError, &evictedAt); err != nil {
			return nil, storeErr(op, err)
		}
		e.Action = domain.SyncAction(action)
		e.EntityType = domain.SyncEntityType(entityType)
		e.Priority = domain.SyncPriority(priority)
		e.Payload = []byte(payload)
		if e.EnqueuedAt, err = parseTime(enqueuedAt); err != nil {
			return nil, storeErr(op, err)
		}
		if e.EvictedAt, err = parseTime(evictedAt); err != nil {
			return nil, storeErr(op, err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}
