package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/babybond/internal/db"
	"github.com/alexanderramin/babybond/internal/domain"
)

// SQLiteUserProfileRepo implements UserProfileRepo using a SQLite database.
type SQLiteUserProfileRepo struct {
	db db.DBTX
}

// NewSQLiteUserProfileRepo creates a new SQLiteUserProfileRepo.
func NewSQLiteUserProfileRepo(conn db.DBTX) *SQLiteUserProfileRepo {
	return &SQLiteUserProfileRepo{db: conn}
}

const profileColumns = `id, is_pregnant, due_date, birth_date, preferences, timezone, language,
	onboarded, created_at, updated_at`

func (r *SQLiteUserProfileRepo) Get(ctx context.Context, id string) (*domain.UserProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM user_profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user profile %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("getting user profile", err)
	}
	return p, nil
}

func (r *SQLiteUserProfileRepo) List(ctx context.Context) ([]*domain.UserProfile, error) {
	return r.query(ctx, "listing user profiles",
		`SELECT `+profileColumns+` FROM user_profiles ORDER BY created_at, id`)
}

func (r *SQLiteUserProfileRepo) ListByOnboarded(ctx context.Context, onboarded bool) ([]*domain.UserProfile, error) {
	return r.query(ctx, "listing user profiles by onboarded",
		`SELECT `+profileColumns+` FROM user_profiles WHERE onboarded = ? ORDER BY created_at, id`,
		boolToInt(onboarded))
}

func (r *SQLiteUserProfileRepo) Put(ctx context.Context, p *domain.UserProfile) error {
	prefs, err := encodeJSON(p.Preferences)
	if err != nil {
		return err
	}
	query := `INSERT INTO user_profiles (` + profileColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			is_pregnant = excluded.is_pregnant,
			due_date = excluded.due_date,
			birth_date = excluded.birth_date,
			preferences = excluded.preferences,
			timezone = excluded.timezone,
			language = excluded.language,
			onboarded = excluded.onboarded,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		boolToInt(p.IsPregnant),
		nullableTimeToString(p.DueDate),
		nullableTimeToString(p.BirthDate),
		prefs,
		p.Timezone,
		p.Language,
		boolToInt(p.Onboarded),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return storeErr("upserting user profile", err)
	}
	return nil
}

func (r *SQLiteUserProfileRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_profiles WHERE id = ?`, id); err != nil {
		return storeErr("deleting user profile", err)
	}
	return nil
}

func (r *SQLiteUserProfileRepo) query(ctx context.Context, op, query string, args ...any) ([]*domain.UserProfile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var out []*domain.UserProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

func scanProfile(s rowScanner) (*domain.UserProfile, error) {
	var p domain.UserProfile
	var pregnant, onboarded int
	var due, birth sql.NullString
	var prefs, createdAt, updatedAt string

	if err := s.Scan(&p.ID, &pregnant, &due, &birth, &prefs, &p.Timezone, &p.Language,
		&onboarded, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	p.IsPregnant = intToBool(pregnant)
	p.Onboarded = intToBool(onboarded)
	p.DueDate = parseNullableTime(due)
	p.BirthDate = parseNullableTime(birth)
	if err := decodeJSON(prefs, &p.Preferences); err != nil {
		return nil, err
	}

	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
