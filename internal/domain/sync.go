package domain

import (
	"encoding/json"
	"time"
)

// DefaultSyncMaxRetries bounds delivery attempts for a queued mutation.
const DefaultSyncMaxRetries = 3

// SyncQueueItem is a pending mutation awaiting delivery to the remote.
type SyncQueueItem struct {
	ID         string
	Action     SyncAction
	EntityType SyncEntityType
	Payload    json.RawMessage
	EnqueuedAt time.Time
	Priority   SyncPriority
	RetryCount int
	MaxRetries int
	Status     SyncItemStatus
	LastError  string
}

// RecordFailure bumps the retry counter and reports whether the item has
// exhausted its retries.
func (i *SyncQueueItem) RecordFailure(err error) (exhausted bool) {
	i.RetryCount++
	if i.RetryCount > i.MaxRetries {
		i.RetryCount = i.MaxRetries
	}
	i.Status = SyncItemPending
	if err != nil {
		i.LastError = err.Error()
	}
	return i.RetryCount >= i.MaxRetries
}

// SyncEviction records a queue item dropped after exhausting its retries.
type SyncEviction struct {
	ItemID     string
	Action     SyncAction
	EntityType SyncEntityType
	Payload    json.RawMessage
	EnqueuedAt time.Time
	Priority   SyncPriority
	RetryCount int
	LastError  string
	EvictedAt  time.Time
}

// NewSyncEviction snapshots an exhausted item.
func NewSyncEviction(item *SyncQueueItem, at time.Time) *SyncEviction {
	return &SyncEviction{
		ItemID:     item.ID,
		Action:     item.Action,
		EntityType: item.EntityType,
		Payload:    item.Payload,
		EnqueuedAt: item.EnqueuedAt,
		Priority:   item.Priority,
		RetryCount: item.RetryCount,
		LastError:  item.LastError,
		EvictedAt:  at,
	}
}
