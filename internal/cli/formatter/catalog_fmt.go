package formatter

import (
	"fmt"

	"github.com/alexanderramin/babybond/internal/domain"
)

// FormatCatalog lists templates with their type, duration and difficulty.
func FormatCatalog(title string, templates []*domain.ActivityTemplate) string {
	if len(templates) == 0 {
		return RenderBox(title, Dim("No matching activities."))
	}

	headers := []string{"ID", "TITLE", "AGE", "TYPE", "TIME", "LEVEL"}
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, []string{
			Dim(t.ID),
			Bold(Truncate(t.Title, 36)),
			AgeGroupLabel(t.AgeGroup),
			ContentTypeBadge(t.Type),
			FormatMinutes(t.DurationMin),
			difficultyLabel(t.Difficulty),
		})
	}
	footer := fmt.Sprintf("\n%s\n", Dim(fmt.Sprintf("%d activities", len(templates))))
	return RenderBox(title, RenderTable(headers, rows)+footer)
}

func difficultyLabel(d domain.Difficulty) string {
	switch d {
	case domain.DifficultyEasy:
		return StyleGreen.Render(string(d))
	case domain.DifficultyMedium:
		return StyleYellow.Render(string(d))
	case domain.DifficultyHard:
		return StyleRed.Render(string(d))
	default:
		return Dim(string(d))
	}
}
