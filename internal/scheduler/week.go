package scheduler

import (
	"time"

	"github.com/alexanderramin/babybond/internal/domain"
)

const (
	daysPerWeek   = 7
	firstSlotHour = 9
	slotSpacing   = 3 * time.Hour
)

// WeekStart returns local midnight of the most recent firstDay at or before
// now, in loc.
func WeekStart(now time.Time, firstDay time.Weekday, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	offset := (int(local.Weekday()) - int(firstDay) + daysPerWeek) % daysPerWeek
	return time.Date(local.Year(), local.Month(), local.Day()-offset, 0, 0, 0, 0, loc)
}

// Placement is one template assigned to a concrete slot.
type Placement struct {
	TemplateID string
	At         time.Time
}

// SlotsFor returns the n activity slots of the given local day: 09:00,
// 12:00, 15:00 and so on.
func SlotsFor(day time.Time, n int) []time.Time {
	first := time.Date(day.Year(), day.Month(), day.Day(), firstSlotHour, 0, 0, 0, day.Location())
	slots := make([]time.Time, n)
	for i := range slots {
		slots[i] = first.Add(time.Duration(i) * slotSpacing)
	}
	return slots
}

// BuildWeek lays out a week of placements starting at weekStart. A day whose
// local midnight is already behind now is skipped, so generation mid-week
// starts with tomorrow. Each remaining day gets perDay templates chosen by
// shuffle-then-take. Placements come back in chronological order with UTC
// instants.
func BuildWeek(templates []*domain.ActivityTemplate, weekStart, now time.Time, perDay int, rng Shuffler) []Placement {
	if len(templates) == 0 || perDay <= 0 {
		return nil
	}

	var out []Placement
	for d := 0; d < daysPerWeek; d++ {
		day := weekStart.AddDate(0, 0, d)
		if day.Before(now) {
			continue
		}
		picked := ShuffleTake(templates, perDay, rng)
		for i, at := range SlotsFor(day, len(picked)) {
			out = append(out, Placement{TemplateID: picked[i].ID, At: at.UTC()})
		}
	}
	return out
}
