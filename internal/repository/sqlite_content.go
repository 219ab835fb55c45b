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

// SQLiteGeneratedContentRepo implements GeneratedContentRepo using a SQLite database.
type SQLiteGeneratedContentRepo struct {
	db db.DBTX
}

// NewSQLiteGeneratedContentRepo creates a new SQLiteGeneratedContentRepo.
func NewSQLiteGeneratedContentRepo(conn db.DBTX) *SQLiteGeneratedContentRepo {
	return &SQLiteGeneratedContentRepo{db: conn}
}

const contentColumns = `id, template_id, content_type, data, generated_at, expires_at,
	cultural_context, language, personalized`

func (r *SQLiteGeneratedContentRepo) Get(ctx context.Context, id string) (*domain.GeneratedContent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM generated_content WHERE id = ?`, id)
	c, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("generated content %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("getting generated content", err)
	}
	return c, nil
}

func (r *SQLiteGeneratedContentRepo) List(ctx context.Context) ([]*domain.GeneratedContent, error) {
	return r.query(ctx, "listing generated content",
		`SELECT `+contentColumns+` FROM generated_content ORDER BY generated_at, id`)
}

func (r *SQLiteGeneratedContentRepo) ListByTemplate(ctx context.Context, templateID string) ([]*domain.GeneratedContent, error) {
	return r.query(ctx, "listing generated content by template",
		`SELECT `+contentColumns+` FROM generated_content WHERE template_id = ? ORDER BY generated_at, id`,
		templateID)
}

// ListValidByTemplate returns content for the template that has not expired at now.
func (r *SQLiteGeneratedContentRepo) ListValidByTemplate(ctx context.Context, templateID string, now time.Time) ([]*domain.GeneratedContent, error) {
	return r.query(ctx, "listing valid generated content",
		`SELECT `+contentColumns+` FROM generated_content
		WHERE template_id = ? AND expires_at > ? ORDER BY generated_at, id`,
		templateID, formatTime(now))
}

// ListExpiredBefore returns content whose expiry is at or before t.
func (r *SQLiteGeneratedContentRepo) ListExpiredBefore(ctx context.Context, t time.Time) ([]*domain.GeneratedContent, error) {
	return r.query(ctx, "listing expired generated content",
		`SELECT `+contentColumns+` FROM generated_content WHERE expires_at <= ? ORDER BY expires_at, id`,
		formatTime(t))
}

// DeleteExpired removes all content whose expiry is at or before now and
// returns the number of rows purged.
func (r *SQLiteGeneratedContentRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM generated_content WHERE expires_at <= ?`, formatTime(now))
	if err != nil {
		return 0, storeErr("deleting expired generated content", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("counting purged generated content", err)
	}
	return int(n), nil
}

func (r *SQLiteGeneratedContentRepo) Put(ctx context.Context, c *domain.GeneratedContent) error {
	data, err := encodeJSON(c.Data)
	if err != nil {
		return err
	}
	query := `INSERT INTO generated_content (` + contentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			template_id = excluded.template_id,
			content_type = excluded.content_type,
			data = excluded.data,
			generated_at = excluded.generated_at,
			expires_at = excluded.expires_at,
			cultural_context = excluded.cultural_context,
			language = excluded.language,
			personalized = excluded.personalized`
	_, err = r.db.ExecContext(ctx, query,
		c.ID,
		c.TemplateID,
		string(c.ContentType),
		data,
		formatTime(c.GeneratedAt),
		formatTime(c.ExpiresAt),
		c.CulturalContext,
		c.Language,
		boolToInt(c.Personalized),
	)
	if err != nil {
		return storeErr("upserting generated content", err)
	}
	return nil
}

func (r *SQLiteGeneratedContentRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM generated_content WHERE id = ?`, id); err != nil {
		return storeErr("deleting generated content", err)
	}
	return nil
}

func (r *SQLiteGeneratedContentRepo) query(ctx context.Context, op, query string, args ...any) ([]*domain.GeneratedContent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var out []*domain.GeneratedContent
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

func scanContent(s rowScanner) (*domain.GeneratedContent, error) {
	var c domain.GeneratedContent
	var contentType, data, generatedAt, expiresAt string
	var personalized int

	if err := s.Scan(&c.ID, &c.TemplateID, &contentType, &data, &generatedAt, &expiresAt,
		&c.CulturalContext, &c.Language, &personalized); err != nil {
		return nil, err
	}

	c.ContentType = domain.GeneratedContentType(contentType)
	c.Personalized = intToBool(personalized)
	if err := decodeJSON(data, &c.Data); err != nil {
		return nil, err
	}

	var err error
	if c.GeneratedAt, err = parseTime(generatedAt); err != nil {
		return nil, err
	}
	if c.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, err
	}
	return &c, nil
}
