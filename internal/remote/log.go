package remote

import (
	"context"
	"log/slog"
)

// LogAcceptor accepts every mutation and logs it. It stands in for a remote
// when none is configured.
type LogAcceptor struct {
	logger *slog.Logger
}

func NewLogAcceptor(logger *slog.Logger) *LogAcceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogAcceptor{logger: logger}
}

func (l *LogAcceptor) Accept(ctx context.Context, m Mutation) error {
	l.logger.InfoContext(ctx, "mutation accepted",
		"id", m.ID,
		"action", m.Action,
		"entity_type", m.EntityType,
		"attempt", m.Attempt,
	)
	return nil
}

func (l *LogAcceptor) Probe(context.Context) error { return nil }
