package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/alexanderramin/babybond/internal/scheduler"
)

// FormatProfile renders the profile with its current developmental stage.
func FormatProfile(p *domain.UserProfile, now time.Time) string {
	group := scheduler.AgeGroupFor(p, now)

	stage := AgeGroupLabel(group)
	switch {
	case p.IsPregnant && p.DueDate != nil:
		stage = fmt.Sprintf("%s, due %s (%s)", stage, p.DueDate.In(now.Location()).Format("Jan 2, 2006"),
			strings.ToLower(RelativeDateFrom(*p.DueDate, now)))
	case !p.IsPregnant && p.BirthDate != nil:
		stage = fmt.Sprintf("%s, %d months old", stage, scheduler.AgeInMonths(*p.BirthDate, now))
	}

	onboarded := StyleYellow.Render("○ Pending")
	if p.Onboarded {
		onboarded = StyleGreen.Render("✔ Complete")
	}

	reminders := Dim("off")
	if p.Preferences.Reminders.Enabled {
		reminders = fmt.Sprintf("%s at %s", p.Preferences.Reminders.Frequency,
			strings.Join(p.Preferences.Reminders.PreferredTimes, ", "))
	}

	content := Dim("any")
	if len(p.Preferences.ContentPreferences) > 0 {
		badges := make([]string, len(p.Preferences.ContentPreferences))
		for i, ct := range p.Preferences.ContentPreferences {
			badges[i] = ContentTypeBadge(ct)
		}
		content = strings.Join(badges, ", ")
	}

	cultural := Dim("general")
	if len(p.Preferences.CulturalPreferences) > 0 {
		cultural = strings.Join(p.Preferences.CulturalPreferences, ", ")
	}

	timezone := p.Timezone
	if timezone == "" {
		timezone = Dim("local")
	}

	body := RenderKeyValues([][2]string{
		{"Stage", Bold(stage)},
		{"Approach", string(p.Preferences.ActivityType)},
		{"Time", fmt.Sprintf("%s (up to %s, %d a day)", p.Preferences.TimeAvailability,
			FormatMinutes(scheduler.MaxDurationFor(p.Preferences.TimeAvailability)),
			scheduler.ActivitiesPerDay(p.Preferences.TimeAvailability))},
		{"Content", content},
		{"Culture", cultural},
		{"Reminders", reminders},
		{"Language", p.Language},
		{"Timezone", timezone},
		{"Onboarding", onboarded},
	})
	return RenderBox("Profile", body)
}
