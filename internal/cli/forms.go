package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/babybond/internal/cli/formatter"
	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func babybondHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// profileFormValues backs the interactive onboarding form.
type profileFormValues struct {
	Pregnant bool
	Date     string
	Time     string
	Approach string
	Content  []string
	Language string
}

func newProfileFormValues() *profileFormValues {
	return &profileFormValues{
		Pregnant: true,
		Time:     string(domain.TimeModerate),
		Approach: string(domain.AffinityBalanced),
		Language: "en",
	}
}

// profileForm collects the onboarding questions in two pages.
func profileForm(v *profileFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[bool]().
				Title("Where are you on the journey?").
				Options(
					huh.NewOption("Expecting a baby", true),
					huh.NewOption("Baby has arrived", false),
				).
				Value(&v.Pregnant),
			huh.NewInput().
				TitleFunc(func() string {
					if v.Pregnant {
						return "Due date (YYYY-MM-DD)"
					}
					return "Birth date (YYYY-MM-DD)"
				}, &v.Pregnant).
				Placeholder(time.Now().Format(dateLayout)).
				Value(&v.Date).
				Validate(validateRequiredDate),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How much time do you usually have?").
				Options(
					huh.NewOption("Busy: short activities, once a day", string(domain.TimeBusy)),
					huh.NewOption("Moderate: up to 20 minutes, twice a day", string(domain.TimeModerate)),
					huh.NewOption("Flexible: longer activities, three a day", string(domain.TimeFlexible)),
				).
				Value(&v.Time),
			huh.NewSelect[string]().
				Title("Which approach speaks to you?").
				Options(
					huh.NewOption("Science-based", string(domain.AffinityScience)),
					huh.NewOption("Spiritual", string(domain.AffinitySpiritual)),
					huh.NewOption("A balance of both", string(domain.AffinityBalanced)),
				).
				Value(&v.Approach),
			huh.NewMultiSelect[string]().
				Title("Favourite kinds of activities").
				Description("Leave empty for a mix of everything").
				Options(contentOptions()...).
				Value(&v.Content),
			huh.NewInput().
				Title("Language").
				Value(&v.Language).
				Validate(validateNonEmpty),
		),
	).WithTheme(babybondHuhTheme()).WithShowHelp(false)
}

func contentOptions() []huh.Option[string] {
	types := []domain.ContentType{
		domain.ContentStories, domain.ContentSongs, domain.ContentMovement,
		domain.ContentEducational, domain.ContentSensory, domain.ContentMeditation,
	}
	opts := make([]huh.Option[string], len(types))
	for i, ct := range types {
		s := string(ct)
		opts[i] = huh.NewOption(strings.ToUpper(s[:1])+s[1:], s)
	}
	return opts
}

// patch converts the answers into a profile patch.
func (v *profileFormValues) patch(loc *time.Location) (domain.ProfilePatch, error) {
	d, err := parseDate(v.Date, loc)
	if err != nil {
		return domain.ProfilePatch{}, err
	}
	tier := domain.TimeAvailability(v.Time)
	approach := domain.ActivityAffinity(v.Approach)
	language := strings.TrimSpace(v.Language)

	p := domain.ProfilePatch{
		IsPregnant:       &v.Pregnant,
		TimeAvailability: &tier,
		ActivityType:     &approach,
		Language:         &language,
	}
	if v.Pregnant {
		p.DueDate = &d
	} else {
		p.BirthDate = &d
	}
	if len(v.Content) > 0 {
		p.ContentPreferences = make([]domain.ContentType, len(v.Content))
		for i, c := range v.Content {
			p.ContentPreferences[i] = domain.ContentType(c)
		}
	}
	return p, nil
}

func validateRequiredDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("a date is required")
	}
	if _, err := time.Parse(dateLayout, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func validateNonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("this field is required")
	}
	return nil
}
