package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/babybond/internal/db"
	"github.com/alexanderramin/babybond/internal/domain"
)

// SQLiteTemplateRepo implements TemplateRepo using a SQLite database.
type SQLiteTemplateRepo struct {
	db db.DBTX
}

// NewSQLiteTemplateRepo creates a new SQLiteTemplateRepo.
func NewSQLiteTemplateRepo(conn db.DBTX) *SQLiteTemplateRepo {
	return &SQLiteTemplateRepo{db: conn}
}

const templateColumns = `id, title, description, instructions, content_type, age_group, duration_min,
	difficulty, benefits, materials, tips, image_url, audio_url, created_at`

func (r *SQLiteTemplateRepo) Get(ctx context.Context, id string) (*domain.ActivityTemplate, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM activity_templates WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("activity template %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("getting activity template", err)
	}
	return t, nil
}

func (r *SQLiteTemplateRepo) List(ctx context.Context) ([]*domain.ActivityTemplate, error) {
	return r.query(ctx, "listing activity templates",
		`SELECT `+templateColumns+` FROM activity_templates ORDER BY id`)
}

func (r *SQLiteTemplateRepo) ListByAgeGroup(ctx context.Context, group domain.AgeGroup) ([]*domain.ActivityTemplate, error) {
	return r.query(ctx, "listing activity templates by age group",
		`SELECT `+templateColumns+` FROM activity_templates WHERE age_group = ? ORDER BY id`, string(group))
}

func (r *SQLiteTemplateRepo) ListByContentType(ctx context.Context, ct domain.ContentType) ([]*domain.ActivityTemplate, error) {
	return r.query(ctx, "listing activity templates by content type",
		`SELECT `+templateColumns+` FROM activity_templates WHERE content_type = ? ORDER BY id`, string(ct))
}

// ListByDurationRange returns templates whose duration lies in [minMin, maxMin].
func (r *SQLiteTemplateRepo) ListByDurationRange(ctx context.Context, minMin, maxMin int) ([]*domain.ActivityTemplate, error) {
	return r.query(ctx, "listing activity templates by duration",
		`SELECT `+templateColumns+` FROM activity_templates
		WHERE duration_min BETWEEN ? AND ? ORDER BY duration_min, id`, minMin, maxMin)
}

func (r *SQLiteTemplateRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity_templates`).Scan(&n); err != nil {
		return 0, storeErr("counting activity templates", err)
	}
	return n, nil
}

func (r *SQLiteTemplateRepo) Put(ctx context.Context, t *domain.ActivityTemplate) error {
	instructions, err := encodeJSON(t.Instructions)
	if err != nil {
		return err
	}
	benefits, err := encodeJSON(t.Benefits)
	if err != nil {
		return err
	}
	materials, err := encodeJSON(t.Materials)
	if err != nil {
		return err
	}
	tips, err := encodeJSON(t.Tips)
	if err != nil {
		return err
	}

	query := `INSERT INTO activity_templates (` + templateColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			instructions = excluded.instructions,
			content_type = excluded.content_type,
			age_group = excluded.age_group,
			duration_min = excluded.duration_min,
			difficulty = excluded.difficulty,
			benefits = excluded.benefits,
			materials = excluded.materials,
			tips = excluded.tips,
			image_url = excluded.image_url,
			audio_url = excluded.audio_url,
			created_at = excluded.created_at`
	_, err = r.db.ExecContext(ctx, query,
		t.ID,
		t.Title,
		t.Description,
		instructions,
		string(t.Type),
		string(t.AgeGroup),
		t.DurationMin,
		string(t.Difficulty),
		benefits,
		materials,
		tips,
		t.ImageURL,
		t.AudioURL,
		formatTime(t.CreatedAt),
	)
	if err != nil {
		return storeErr("upserting activity template", err)
	}
	return nil
}

func (r *SQLiteTemplateRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM activity_templates WHERE id = ?`, id); err != nil {
		return storeErr("deleting activity template", err)
	}
	return nil
}

func (r *SQLiteTemplateRepo) query(ctx context.Context, op, query string, args ...any) ([]*domain.ActivityTemplate, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var out []*domain.ActivityTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

func scanTemplate(s rowScanner) (*domain.ActivityTemplate, error) {
	var t domain.ActivityTemplate
	var contentType, ageGroup, difficulty string
	var instructions, benefits, materials, tips, createdAt string

	if err := s.Scan(&t.ID, &t.Title, &t.Description, &instructions, &contentType, &ageGroup,
		&t.DurationMin, &difficulty, &benefits, &materials, &tips, &t.ImageURL, &t.AudioURL, &createdAt); err != nil {
		return nil, err
	}

	t.Type = domain.ContentType(contentType)
	t.AgeGroup = domain.AgeGroup(ageGroup)
	t.Difficulty = domain.Difficulty(difficulty)
	for _, col := range []struct {
		raw string
		dst *[]string
	}{
		{instructions, &t.Instructions},
		{benefits, &t.Benefits},
		{materials, &t.Materials},
		{tips, &t.Tips},
	} {
		if err := decodeJSON(col.raw, col.dst); err != nil {
			return nil, err
		}
	}

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}
