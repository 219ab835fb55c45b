package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// EngagementIndicator renders an engagement level such as "●●○ medium".
func EngagementIndicator(e domain.Engagement) string {
	switch e {
	case domain.EngagementHigh:
		return StyleGreen.Render("●●● high")
	case domain.EngagementMedium:
		return StyleYellow.Render("●●○ medium")
	case domain.EngagementLow:
		return StyleRed.Render("●○○ low")
	default:
		return StyleDim.Render("○○○ " + string(e))
	}
}

// SyncStatusIndicator combines the queue state and connectivity into one
// colored label.
func SyncStatusIndicator(status domain.SyncStatus, online bool) string {
	if !online {
		return StyleYellow.Render("○ OFFLINE")
	}
	switch status {
	case domain.SyncSyncing:
		return StyleBlue.Render("◐ SYNCING")
	case domain.SyncError:
		return StyleRed.Render("● ERROR")
	default:
		return StyleGreen.Render("● IDLE")
	}
}

// PriorityPill returns a colored sync priority label.
func PriorityPill(p domain.SyncPriority) string {
	switch p {
	case domain.PriorityHigh:
		return StyleRed.Render("high")
	case domain.PriorityMedium:
		return StyleYellow.Render("medium")
	case domain.PriorityLow:
		return StyleDim.Render("low")
	default:
		return StyleDim.Render(string(p))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
