package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/spf13/pflag"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// profileFlags are shared by "profile create" and "profile update".
type profileFlags struct {
	pregnant  bool
	due       string
	birth     string
	time      string
	approach  string
	content   []string
	culture   []string
	language  string
	timezone  string
	reminders bool
	times     []string
}

func (f *profileFlags) register(fl *pflag.FlagSet) {
	fl.BoolVar(&f.pregnant, "pregnant", false, "Expecting a baby")
	fl.StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD)")
	fl.StringVar(&f.birth, "birth", "", "Baby's birth date (YYYY-MM-DD)")
	fl.StringVar(&f.time, "time", "", "Time available: busy, moderate or flexible")
	fl.StringVar(&f.approach, "approach", "", "Activity approach: science, spiritual or balanced")
	fl.StringSliceVar(&f.content, "content", nil, "Preferred content types (stories, songs, movement, educational, sensory, meditation)")
	fl.StringSliceVar(&f.culture, "culture", nil, "Cultural preferences, most important first")
	fl.StringVar(&f.language, "language", "", "Preferred language")
	fl.StringVar(&f.timezone, "timezone", "", "IANA timezone, e.g. Europe/Oslo")
	fl.BoolVar(&f.reminders, "reminders", true, "Enable daily reminders")
	fl.StringSliceVar(&f.times, "reminder-times", nil, "Reminder times (HH:MM)")
}

// patch builds a ProfilePatch from the flags the user actually set.
func (f *profileFlags) patch(fl *pflag.FlagSet, loc *time.Location) (domain.ProfilePatch, error) {
	var p domain.ProfilePatch
	changed := fl.Changed

	if changed("pregnant") {
		p.IsPregnant = &f.pregnant
	}
	if changed("due") {
		d, err := parseDate(f.due, loc)
		if err != nil {
			return p, err
		}
		p.DueDate = &d
		if !changed("pregnant") {
			pregnant := true
			p.IsPregnant = &pregnant
		}
	}
	if changed("birth") {
		d, err := parseDate(f.birth, loc)
		if err != nil {
			return p, err
		}
		p.BirthDate = &d
		if !changed("pregnant") {
			pregnant := false
			p.IsPregnant = &pregnant
		}
	}
	if changed("time") {
		tier := domain.TimeAvailability(strings.ToLower(f.time))
		p.TimeAvailability = &tier
	}
	if changed("approach") {
		a := domain.ActivityAffinity(strings.ToLower(f.approach))
		p.ActivityType = &a
	}
	if changed("content") {
		p.ContentPreferences = make([]domain.ContentType, 0, len(f.content))
		for _, c := range f.content {
			p.ContentPreferences = append(p.ContentPreferences, domain.ContentType(strings.ToLower(c)))
		}
	}
	if changed("culture") {
		p.CulturalPreferences = f.culture
	}
	if changed("language") {
		p.Language = &f.language
	}
	if changed("timezone") {
		p.Timezone = &f.timezone
	}
	if changed("reminders") {
		p.RemindersEnabled = &f.reminders
	}
	if changed("reminder-times") {
		p.ReminderTimes = f.times
	}
	return p, nil
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return t, nil
}

func parseDateTime(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateTimeLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: use \"YYYY-MM-DD HH:MM\"", s)
	}
	return t, nil
}
