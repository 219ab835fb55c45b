package remote

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const inboxSchema = `CREATE TABLE IF NOT EXISTS sync_inbox (
	mutation_id  TEXT PRIMARY KEY,
	action       TEXT NOT NULL,
	entity_type  TEXT NOT NULL,
	payload      JSONB NOT NULL,
	enqueued_at  TIMESTAMPTZ NOT NULL,
	received_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresAcceptor writes mutations into a sync_inbox table. The mutation id
// is the primary key, so redelivery is a no-op.
type PostgresAcceptor struct {
	pool *pgxpool.Pool
}

// NewPostgresAcceptor connects a pool to dsn.
func NewPostgresAcceptor(ctx context.Context, dsn string) (*PostgresAcceptor, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to sync inbox: %w", err)
	}
	return &PostgresAcceptor{pool: pool}, nil
}

// EnsureSchema creates the inbox table when missing.
func (p *PostgresAcceptor) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, inboxSchema); err != nil {
		return fmt.Errorf("creating sync inbox: %w", err)
	}
	return nil
}

func (p *PostgresAcceptor) Accept(ctx context.Context, m Mutation) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO sync_inbox (mutation_id, action, entity_type, payload, enqueued_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (mutation_id) DO NOTHING`,
		m.ID, string(m.Action), string(m.EntityType), []byte(m.Payload), m.EnqueuedAt)
	if err != nil {
		return fmt.Errorf("inserting mutation %s: %w", m.ID, err)
	}
	return nil
}

func (p *PostgresAcceptor) Probe(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	return nil
}

// Close releases the pool.
func (p *PostgresAcceptor) Close() {
	p.pool.Close()
}
