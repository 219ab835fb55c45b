package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/babybond/internal/db"
	"github.com/alexanderramin/babybond/internal/domain"
)

// SQLiteHistoryRepo implements HistoryRepo using a SQLite database.
type SQLiteHistoryRepo struct {
	db db.DBTX
}

// NewSQLiteHistoryRepo creates a new SQLiteHistoryRepo.
func NewSQLiteHistoryRepo(conn db.DBTX) *SQLiteHistoryRepo {
	return &SQLiteHistoryRepo{db: conn}
}

const historyColumns = `id, template_id, completed_at, duration_min, engagement, notes, photos, rating`

func (r *SQLiteHistoryRepo) Get(ctx context.Context, id string) (*domain.ActivityHistory, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+historyColumns+` FROM activity_history WHERE id = ?`, id)
	h, err := scanHistory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("activity history %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("getting activity history", err)
	}
	return h, nil
}

func (r *SQLiteHistoryRepo) List(ctx context.Context) ([]*domain.ActivityHistory, error) {
	return r.query(ctx, "listing activity history",
		`SELECT `+historyColumns+` FROM activity_history ORDER BY completed_at, id`)
}

func (r *SQLiteHistoryRepo) ListByTemplate(ctx context.Context, templateID string) ([]*domain.ActivityHistory, error) {
	return r.query(ctx, "listing activity history by template",
		`SELECT `+historyColumns+` FROM activity_history WHERE template_id = ? ORDER BY completed_at, id`,
		templateID)
}

// ListCompletedBetween returns records completed in [from, to], oldest first.
func (r *SQLiteHistoryRepo) ListCompletedBetween(ctx context.Context, from, to time.Time) ([]*domain.ActivityHistory, error) {
	return r.query(ctx, "listing activity history by range",
		`SELECT `+historyColumns+` FROM activity_history
		WHERE completed_at BETWEEN ? AND ? ORDER BY completed_at, id`,
		formatTime(from), formatTime(to))
}

// Put appends a history record. History is never mutated: putting an id that
// already exists leaves the stored record unchanged.
func (r *SQLiteHistoryRepo) Put(ctx context.Context, h *domain.ActivityHistory) error {
	photos, err := encodeJSON(h.Photos)
	if err != nil {
		return err
	}
	query := `INSERT INTO activity_history (` + historyColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`
	_, err = r.db.ExecContext(ctx, query,
		h.ID,
		h.TemplateID,
		formatTime(h.CompletedAt),
		h.DurationMin,
		string(h.Engagement),
		h.Notes,
		photos,
		nullableIntToValue(h.Rating),
	)
	if err != nil {
		return storeErr("appending activity history", err)
	}
	return nil
}

func (r *SQLiteHistoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM activity_history WHERE id = ?`, id); err != nil {
		return storeErr("deleting activity history", err)
	}
	return nil
}

func (r *SQLiteHistoryRepo) query(ctx context.Context, op, query string, args ...any) ([]*domain.ActivityHistory, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var out []*domain.ActivityHistory
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

func scanHistory(s rowScanner) (*domain.ActivityHistory, error) {
	var h domain.ActivityHistory
	var completedAt, engagement, photos string
	var rating sql.NullInt64

	if err := s.Scan(&h.ID, &h.TemplateID, &completedAt, &h.DurationMin, &engagement,
		&h.Notes, &photos, &rating); err != nil {
		return nil, err
	}

	h.Engagement = domain.Engagement(engagement)
	h.Rating = nullableIntFromSQL(rating)
	if err := decodeJSON(photos, &h.Photos); err != nil {
		return nil, err
	}

	var err error
	if h.CompletedAt, err = parseTime(completedAt); err != nil {
		return nil, err
	}
	return &h, nil
}
