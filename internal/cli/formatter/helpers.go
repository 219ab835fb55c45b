package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + strings.TrimRight(content, "\n")
		return boxStyle.Render(inner) + "\n"
	}

	return boxStyle.Render(strings.TrimRight(content, "\n")) + "\n"
}

// RelativeDateFrom returns a human-friendly relative date string from a reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	diff := t.Sub(now)
	days := int(math.Round(diff.Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days < 0 && days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days < 0 && days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// HumanTimestampFrom returns a short relative timestamp such as "5m ago",
// falling back to the calendar date after a day.
func HumanTimestampFrom(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	diff := now.Sub(t)

	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006 15:04")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// DayLabel formats the calendar day of t, e.g. "Wed Mar 5".
func DayLabel(t time.Time) string {
	return t.Format("Mon Jan 2")
}

// ClockTime formats the wall-clock time of t, e.g. "09:00".
func ClockTime(t time.Time) string {
	return t.Format("15:04")
}

// CompletionPill returns a colored done/pending marker for a scheduled activity.
func CompletionPill(a *domain.ScheduledActivity, now time.Time) string {
	switch {
	case a.Completed:
		return StyleGreen.Render("✔ Done")
	case a.ScheduledAt.Before(now):
		return StyleRed.Render("✖ Missed")
	case a.Rescheduled:
		return StyleYellow.Render("↻ Moved")
	default:
		return StyleBlue.Render("○ Planned")
	}
}

// ContentTypeBadge returns a capitalized, purple-styled content type label.
func ContentTypeBadge(ct domain.ContentType) string {
	if ct == "" {
		return StyleDim.Render("--")
	}
	s := string(ct)
	return StylePurple.Render(strings.ToUpper(s[:1]) + s[1:])
}

// AgeGroupLabel returns the display name of an age group.
func AgeGroupLabel(g domain.AgeGroup) string {
	switch g {
	case domain.AgeGroupPrenatal:
		return "Prenatal"
	case domain.AgeGroupNewborn:
		return "Newborn"
	case domain.AgeGroup0To3Months:
		return "0-3 months"
	case domain.AgeGroup3To6Months:
		return "3-6 months"
	case domain.AgeGroup6To12Months:
		return "6-12 months"
	default:
		return string(g)
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Truncate shortens s to at most n visible runes, ending in "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 4 {
		return s
	}
	return string(r[:n-3]) + "..."
}

// FormatMinutes converts raw minutes into human-friendly format.
func FormatMinutes(min int) string {
	if min <= 0 {
		return "0m"
	}
	h := min / 60
	m := min % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}
