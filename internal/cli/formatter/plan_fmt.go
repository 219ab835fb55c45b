package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/babybond/internal/domain"
)

const planProgressBarWidth = 14

// FormatPlan renders a weekly plan grouped by local day. titles maps
// template ids to display titles; unknown ids are shown as is.
func FormatPlan(plan *domain.WeeklyPlan, titles map[string]string, loc *time.Location, now time.Time) string {
	if loc == nil {
		loc = time.UTC
	}

	var b strings.Builder
	done := 0
	for _, a := range plan.Activities {
		if a.Completed {
			done++
		}
	}
	fmt.Fprintf(&b, "%s  %s\n", Dim("Progress"), RenderCompletion(done, len(plan.Activities), planProgressBarWidth))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Generated"), HumanTimestampFrom(plan.GeneratedAt, now))

	if len(plan.Activities) == 0 {
		b.WriteString("\n" + Dim("No activities left to schedule this week.") + "\n")
	}

	var day string
	for i := range plan.Activities {
		a := &plan.Activities[i]
		local := a.ScheduledAt.In(loc)
		if label := DayLabel(local); label != day {
			day = label
			b.WriteString("\n" + Header(day) + "\n")
		}
		fmt.Fprintf(&b, "  %s  %-32s %s  %s\n",
			ClockTime(local), Truncate(titleFor(titles, a.TemplateID), 32),
			CompletionPill(a, now), TruncID(a.ID))
	}

	title := "Week of " + plan.WeekStart.In(loc).Format("Jan 2")
	return RenderBox(title, b.String())
}

// FormatActivities renders scheduled activities as a table.
func FormatActivities(title string, items []*domain.ScheduledActivity, titles map[string]string, loc *time.Location, now time.Time) string {
	if loc == nil {
		loc = time.UTC
	}
	if len(items) == 0 {
		return RenderBox(title, Dim("Nothing scheduled."))
	}

	headers := []string{"ID", "WHEN", "ACTIVITY", "STATUS"}
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		local := a.ScheduledAt.In(loc)
		rows = append(rows, []string{
			TruncID(a.ID),
			DayLabel(local) + " " + ClockTime(local),
			Truncate(titleFor(titles, a.TemplateID), 40),
			CompletionPill(a, now),
		})
	}
	return RenderBox(title, RenderTable(headers, rows))
}

// FormatHistory renders completed activities, newest last.
func FormatHistory(entries []*domain.ActivityHistory, titles map[string]string, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	if len(entries) == 0 {
		return RenderBox("History", Dim("No completed activities yet."))
	}

	headers := []string{"COMPLETED", "ACTIVITY", "TIME", "ENGAGEMENT", "RATING", "NOTES"}
	rows := make([][]string, 0, len(entries))
	total := 0
	for _, h := range entries {
		total += h.DurationMin
		rating := Dim("--")
		if h.Rating != nil {
			stars := min(max(*h.Rating, 0), 5)
			rating = StyleYellow.Render(strings.Repeat("★", stars)) + Dim(strings.Repeat("☆", 5-stars))
		}
		local := h.CompletedAt.In(loc)
		rows = append(rows, []string{
			local.Format("Jan 2 15:04"),
			Truncate(titleFor(titles, h.TemplateID), 32),
			FormatMinutes(h.DurationMin),
			EngagementIndicator(h.Engagement),
			rating,
			Dim(Truncate(h.Notes, 30)),
		})
	}

	summary := fmt.Sprintf("\n%s %d activities, %s together\n", Dim("Total:"), len(entries), FormatMinutes(total))
	return RenderBox("History", RenderTable(headers, rows)+summary)
}

func titleFor(titles map[string]string, id string) string {
	if t, ok := titles[id]; ok && t != "" {
		return t
	}
	return id
}
