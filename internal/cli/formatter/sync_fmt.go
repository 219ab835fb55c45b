package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/babybond/internal/domain"
)

// SyncSummary is the queue state FormatSyncStatus renders.
type SyncSummary struct {
	Status    domain.SyncStatus
	Online    bool
	LastDrain time.Time
	LastError error
	Items     []*domain.SyncQueueItem
}

// FormatSyncStatus renders the queue state and its pending items.
func FormatSyncStatus(s SyncSummary, now time.Time) string {
	var b strings.Builder

	pairs := [][2]string{
		{"State", SyncStatusIndicator(s.Status, s.Online)},
		{"Pending", fmt.Sprintf("%d", len(s.Items))},
		{"Last sync", HumanTimestampFrom(s.LastDrain, now)},
	}
	if s.LastError != nil {
		pairs = append(pairs, [2]string{"Last error", StyleRed.Render(s.LastError.Error())})
	}
	b.WriteString(RenderKeyValues(pairs))

	if len(s.Items) > 0 {
		headers := []string{"ID", "ACTION", "ENTITY", "PRIORITY", "QUEUED", "RETRIES", "LAST ERROR"}
		rows := make([][]string, 0, len(s.Items))
		for _, item := range s.Items {
			rows = append(rows, []string{
				TruncID(item.ID),
				string(item.Action),
				string(item.EntityType),
				PriorityPill(item.Priority),
				HumanTimestampFrom(item.EnqueuedAt, now),
				fmt.Sprintf("%d/%d", item.RetryCount, item.MaxRetries),
				Dim(Truncate(item.LastError, 40)),
			})
		}
		b.WriteString("\n" + RenderTable(headers, rows))
	}
	return RenderBox("Sync", b.String())
}

// FormatSyncReport summarises one drain pass in a single line.
func FormatSyncReport(attempted, synced, retried, evicted int) string {
	if attempted == 0 {
		return Dim("Nothing to sync.") + "\n"
	}
	parts := []string{StyleGreen.Render(fmt.Sprintf("%d synced", synced))}
	if retried > 0 {
		parts = append(parts, StyleYellow.Render(fmt.Sprintf("%d will retry", retried)))
	}
	if evicted > 0 {
		parts = append(parts, StyleRed.Render(fmt.Sprintf("%d dropped", evicted)))
	}
	return fmt.Sprintf("Sent %d changes: %s\n", attempted, strings.Join(parts, ", "))
}

// FormatEvictions lists mutations dropped after exhausting their retries.
func FormatEvictions(evictions []*domain.SyncEviction, now time.Time) string {
	if len(evictions) == 0 {
		return RenderBox("Dropped changes", Dim("No changes have been dropped."))
	}
	headers := []string{"ID", "ACTION", "ENTITY", "PRIORITY", "QUEUED", "DROPPED", "RETRIES", "LAST ERROR"}
	rows := make([][]string, 0, len(evictions))
	for _, ev := range evictions {
		rows = append(rows, []string{
			TruncID(ev.ItemID),
			string(ev.Action),
			string(ev.EntityType),
			PriorityPill(ev.Priority),
			HumanTimestampFrom(ev.EnqueuedAt, now),
			HumanTimestampFrom(ev.EvictedAt, now),
			fmt.Sprintf("%d", ev.RetryCount),
			StyleRed.Render(Truncate(ev.LastError, 40)),
		})
	}
	return RenderBox("Dropped changes", RenderTable(headers, rows))
}
