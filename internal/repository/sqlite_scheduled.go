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

// SQLiteScheduledActivityRepo implements ScheduledActivityRepo using a SQLite
// database. Its default ordering is chronological: (scheduled_at, id).
type SQLiteScheduledActivityRepo struct {
	db db.DBTX
}

// NewSQLiteScheduledActivityRepo creates a new SQLiteScheduledActivityRepo.
func NewSQLiteScheduledActivityRepo(conn db.DBTX) *SQLiteScheduledActivityRepo {
	return &SQLiteScheduledActivityRepo{db: conn}
}

const scheduledColumns = `id, plan_id, template_id, scheduled_at, completed, rescheduled, reminder_sent, created_at`

func (r *SQLiteScheduledActivityRepo) Get(ctx context.Context, id string) (*domain.ScheduledActivity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+scheduledColumns+` FROM scheduled_activities WHERE id = ?`, id)
	s, err := scanScheduled(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scheduled activity %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("getting scheduled activity", err)
	}
	return s, nil
}

func (r *SQLiteScheduledActivityRepo) List(ctx context.Context) ([]*domain.ScheduledActivity, error) {
	return r.query(ctx, "listing scheduled activities",
		`SELECT `+scheduledColumns+` FROM scheduled_activities ORDER BY scheduled_at, id`)
}

// ListBetween returns instances scheduled in [from, to].
func (r *SQLiteScheduledActivityRepo) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.ScheduledActivity, error) {
	return r.query(ctx, "listing scheduled activities by range",
		`SELECT `+scheduledColumns+` FROM scheduled_activities
		WHERE scheduled_at BETWEEN ? AND ? ORDER BY scheduled_at, id`,
		formatTime(from), formatTime(to))
}

// ListPendingBetween returns non-completed instances scheduled in [from, to].
func (r *SQLiteScheduledActivityRepo) ListPendingBetween(ctx context.Context, from, to time.Time) ([]*domain.ScheduledActivity, error) {
	return r.query(ctx, "listing pending scheduled activities",
		`SELECT `+scheduledColumns+` FROM scheduled_activities
		WHERE completed = 0 AND scheduled_at BETWEEN ? AND ? ORDER BY scheduled_at, id`,
		formatTime(from), formatTime(to))
}

func (r *SQLiteScheduledActivityRepo) ListByCompleted(ctx context.Context, completed bool) ([]*domain.ScheduledActivity, error) {
	return r.query(ctx, "listing scheduled activities by completion",
		`SELECT `+scheduledColumns+` FROM scheduled_activities WHERE completed = ? ORDER BY scheduled_at, id`,
		boolToInt(completed))
}

func (r *SQLiteScheduledActivityRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.ScheduledActivity, error) {
	return r.query(ctx, "listing scheduled activities by plan",
		`SELECT `+scheduledColumns+` FROM scheduled_activities WHERE plan_id = ? ORDER BY scheduled_at, id`,
		planID)
}

// FirstPendingByTemplate returns the earliest non-completed instance of the
// template in default ordering.
func (r *SQLiteScheduledActivityRepo) FirstPendingByTemplate(ctx context.Context, templateID string) (*domain.ScheduledActivity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+scheduledColumns+` FROM scheduled_activities
		WHERE template_id = ? AND completed = 0 ORDER BY scheduled_at, id LIMIT 1`, templateID)
	s, err := scanScheduled(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pending scheduled activity for template %s: %w", templateID, ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("finding pending scheduled activity", err)
	}
	return s, nil
}

func (r *SQLiteScheduledActivityRepo) Put(ctx context.Context, s *domain.ScheduledActivity) error {
	query := `INSERT INTO scheduled_activities (` + scheduledColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			plan_id = excluded.plan_id,
			template_id = excluded.template_id,
			scheduled_at = excluded.scheduled_at,
			completed = excluded.completed,
			rescheduled = excluded.rescheduled,
			reminder_sent = excluded.reminder_sent,
			created_at = excluded.created_at`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		nullableID(s.PlanID),
		s.TemplateID,
		formatTime(s.ScheduledAt),
		boolToInt(s.Completed),
		boolToInt(s.Rescheduled),
		boolToInt(s.ReminderSent),
		formatTime(s.CreatedAt),
	)
	if err != nil {
		return storeErr("upserting scheduled activity", err)
	}
	return nil
}

func (r *SQLiteScheduledActivityRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_activities WHERE id = ?`, id); err != nil {
		return storeErr("deleting scheduled activity", err)
	}
	return nil
}

func (r *SQLiteScheduledActivityRepo) query(ctx context.Context, op, query string, args ...any) ([]*domain.ScheduledActivity, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var out []*domain.ScheduledActivity
	for rows.Next() {
		s, err := scanScheduled(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

func scanScheduled(sc rowScanner) (*domain.ScheduledActivity, error) {
	var s domain.ScheduledActivity
	var planID sql.NullString
	var scheduledAt, createdAt string
	var completed, rescheduled, reminderSent int

	if err := sc.Scan(&s.ID, &planID, &s.TemplateID, &scheduledAt, &completed, &rescheduled,
		&reminderSent, &createdAt); err != nil {
		return nil, err
	}

	s.PlanID = planID.String
	s.Completed = intToBool(completed)
	s.Rescheduled = intToBool(rescheduled)
	s.ReminderSent = intToBool(reminderSent)

	var err error
	if s.ScheduledAt, err = parseTime(scheduledAt); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// nullableID maps an empty reference to SQL NULL so foreign keys stay satisfied.
func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}
