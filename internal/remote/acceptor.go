// Package remote delivers queued mutations to the remote backend and probes
// its reachability.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/alexanderramin/babybond/internal/domain"
)

// ErrUnreachable is returned when the remote cannot be contacted at all.
var ErrUnreachable = errors.New("remote unreachable")

// Mutation is the wire form of a queued change. ID doubles as the
// idempotency key, so redelivery after a lost acknowledgement is harmless.
type Mutation struct {
	ID         string                `json:"id"`
	Action     domain.SyncAction     `json:"action"`
	EntityType domain.SyncEntityType `json:"entityType"`
	Payload    json.RawMessage       `json:"payload"`
	EnqueuedAt time.Time             `json:"enqueuedAt"`
	Attempt    int                   `json:"attempt"`
}

// MutationFromItem converts a queue item into its wire form.
func MutationFromItem(item *domain.SyncQueueItem) Mutation {
	payload := item.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	return Mutation{
		ID:         item.ID,
		Action:     item.Action,
		EntityType: item.EntityType,
		Payload:    payload,
		EnqueuedAt: item.EnqueuedAt,
		Attempt:    item.RetryCount + 1,
	}
}

// Acceptor delivers one mutation. A nil error means the remote has durably
// accepted it.
type Acceptor interface {
	Accept(ctx context.Context, m Mutation) error
}

// Prober reports whether the remote is currently reachable.
type Prober interface {
	Probe(ctx context.Context) error
}

// AcceptorFunc adapts a function to Acceptor.
type AcceptorFunc func(ctx context.Context, m Mutation) error

func (f AcceptorFunc) Accept(ctx context.Context, m Mutation) error { return f(ctx, m) }
