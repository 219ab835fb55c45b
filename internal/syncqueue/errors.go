package syncqueue

import "errors"

var (
	// ErrRetryExhausted marks a mutation dropped after its last allowed attempt.
	ErrRetryExhausted = errors.New("sync retries exhausted")

	// ErrOffline is returned by ForceSync while the remote is unreachable.
	ErrOffline = errors.New("sync queue is offline")

	// ErrInvalidRequest is returned for enqueue requests with unknown enums.
	ErrInvalidRequest = errors.New("invalid sync request")
)
