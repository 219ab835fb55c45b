package scheduler

import (
	"sort"

	"github.com/alexanderramin/babybond/internal/domain"
)

// SortForDrain orders queue items for delivery:
// 1. Priority: high > medium > low
// 2. Enqueue instant: oldest first
// 3. ID: lexical ascending
func SortForDrain(items []*domain.SyncQueueItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]

		if wa, wb := a.Priority.Weight(), b.Priority.Weight(); wa != wb {
			return wa > wb
		}

		if !a.EnqueuedAt.Equal(b.EnqueuedAt) {
			return a.EnqueuedAt.Before(b.EnqueuedAt)
		}

		return a.ID < b.ID
	})
}
