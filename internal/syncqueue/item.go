package syncqueue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/google/uuid"
)

// Request describes a mutation to queue. Payload is JSON-encoded;
// a json.RawMessage is stored as is.
type Request struct {
	Action     domain.SyncAction
	EntityType domain.SyncEntityType
	Payload    any
	Priority   domain.SyncPriority
	MaxRetries int
}

// NewItem builds a pending queue item from req. Priority defaults to
// medium and MaxRetries to defaultMaxRetries.
func NewItem(req Request, now time.Time, defaultMaxRetries int) (*domain.SyncQueueItem, error) {
	if !req.Action.Valid() {
		return nil, fmt.Errorf("%w: action %q", ErrInvalidRequest, req.Action)
	}
	if !req.EntityType.Valid() {
		return nil, fmt.Errorf("%w: entity type %q", ErrInvalidRequest, req.EntityType)
	}
	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: priority %q", ErrInvalidRequest, req.Priority)
	}
	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if maxRetries <= 0 {
		maxRetries = domain.DefaultSyncMaxRetries
	}

	payload, err := json.Marshal(req.Payload)
	if err != nil {
		return nil, fmt.Errorf("encoding sync payload: %w", err)
	}

	return &domain.SyncQueueItem{
		ID:         uuid.New().String(),
		Action:     req.Action,
		EntityType: req.EntityType,
		Payload:    payload,
		EnqueuedAt: now,
		Priority:   priority,
		MaxRetries: maxRetries,
		Status:     domain.SyncItemPending,
	}, nil
}
