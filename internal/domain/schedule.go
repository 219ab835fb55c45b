package domain

import "time"

// ScheduledActivity is one placement of a template at a concrete instant.
type ScheduledActivity struct {
	ID           string
	PlanID       string
	TemplateID   string
	ScheduledAt  time.Time
	Completed    bool
	Rescheduled  bool
	ReminderSent bool
	CreatedAt    time.Time
}

// Reschedule moves the instance and flags it as user-moved.
func (s *ScheduledActivity) Reschedule(at time.Time) {
	s.ScheduledAt = at
	s.Rescheduled = true
}

// WeeklyPlan groups the scheduled activities generated for one week.
type WeeklyPlan struct {
	ID          string
	WeekStart   time.Time
	Activities  []ScheduledActivity
	GeneratedAt time.Time
	Customized  bool
}

// ActivitiesOn returns the plan's activities falling on the same calendar
// day as day, in the location of day.
func (p *WeeklyPlan) ActivitiesOn(day time.Time) []ScheduledActivity {
	y, m, d := day.Date()
	var out []ScheduledActivity
	for _, a := range p.Activities {
		ay, am, ad := a.ScheduledAt.In(day.Location()).Date()
		if ay == y && am == m && ad == d {
			out = append(out, a)
		}
	}
	return out
}

// ActivityHistory is an append-only record of a completed activity.
type ActivityHistory struct {
	ID          string
	TemplateID  string
	CompletedAt time.Time
	DurationMin int
	Engagement  Engagement
	Notes       string
	Photos      []string
	Rating      *int
}
