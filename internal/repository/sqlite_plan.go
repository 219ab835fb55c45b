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

// SQLiteWeeklyPlanRepo implements WeeklyPlanRepo using a SQLite database.
// Put writes the plan row only; reads hydrate Activities from
// scheduled_activities.
type SQLiteWeeklyPlanRepo struct {
	db db.DBTX
}

// NewSQLiteWeeklyPlanRepo creates a new SQLiteWeeklyPlanRepo.
func NewSQLiteWeeklyPlanRepo(conn db.DBTX) *SQLiteWeeklyPlanRepo {
	return &SQLiteWeeklyPlanRepo{db: conn}
}

const planColumns = `id, week_start, generated_at, customized`

func (r *SQLiteWeeklyPlanRepo) Get(ctx context.Context, id string) (*domain.WeeklyPlan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM weekly_plans WHERE id = ?`, id)
	return r.getOne(ctx, row, "weekly plan "+id)
}

// GetByWeekStart looks a plan up by its week-start key.
func (r *SQLiteWeeklyPlanRepo) GetByWeekStart(ctx context.Context, weekStart time.Time) (*domain.WeeklyPlan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM weekly_plans WHERE week_start = ?`,
		formatTime(weekStart))
	return r.getOne(ctx, row, "weekly plan for week "+formatTime(weekStart))
}

func (r *SQLiteWeeklyPlanRepo) List(ctx context.Context) ([]*domain.WeeklyPlan, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+planColumns+` FROM weekly_plans ORDER BY week_start`)
	if err != nil {
		return nil, storeErr("listing weekly plans", err)
	}

	var plans []*domain.WeeklyPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			rows.Close()
			return nil, storeErr("listing weekly plans", err)
		}
		plans = append(plans, p)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, storeErr("listing weekly plans", err)
	}

	// Rows are closed before hydrating so a single-connection pool is not held.
	for _, p := range plans {
		if err := r.hydrate(ctx, p); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

// Put upserts the plan row. Activities are persisted separately through
// ScheduledActivityRepo with PlanID set.
func (r *SQLiteWeeklyPlanRepo) Put(ctx context.Context, p *domain.WeeklyPlan) error {
	query := `INSERT INTO weekly_plans (` + planColumns + `)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			week_start = excluded.week_start,
			generated_at = excluded.generated_at,
			customized = excluded.customized`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		formatTime(p.WeekStart),
		formatTime(p.GeneratedAt),
		boolToInt(p.Customized),
	)
	if err != nil {
		return storeErr("upserting weekly plan", err)
	}
	return nil
}

// Delete removes the plan and, by cascade, its scheduled activities.
func (r *SQLiteWeeklyPlanRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM weekly_plans WHERE id = ?`, id); err != nil {
		return storeErr("deleting weekly plan", err)
	}
	return nil
}

func (r *SQLiteWeeklyPlanRepo) getOne(ctx context.Context, row *sql.Row, what string) (*domain.WeeklyPlan, error) {
	p, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("getting weekly plan", err)
	}
	if err := r.hydrate(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLiteWeeklyPlanRepo) hydrate(ctx context.Context, p *domain.WeeklyPlan) error {
	activities, err := NewSQLiteScheduledActivityRepo(r.db).ListByPlan(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Activities = nil
	for _, a := range activities {
		p.Activities = append(p.Activities, *a)
	}
	return nil
}

func scanPlan(s rowScanner) (*domain.WeeklyPlan, error) {
	var p domain.WeeklyPlan
	var weekStart, generatedAt string
	var customized int

	if err := s.Scan(&p.ID, &weekStart, &generatedAt, &customized); err != nil {
		return nil, err
	}
	p.Customized = intToBool(customized)

	var err error
	if p.WeekStart, err = parseTime(weekStart); err != nil {
		return nil, err
	}
	if p.GeneratedAt, err = parseTime(generatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
