package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/babybond/internal/domain"
)

// FormatContent renders personalised content as a printable activity card.
func FormatContent(c *domain.GeneratedContent, now time.Time) string {
	var b strings.Builder
	d := c.Data

	b.WriteString(Bold(d.Title) + "\n")
	if d.Description != "" {
		b.WriteString(d.Description + "\n")
	}
	if d.PersonalizedMessage != "" {
		b.WriteString("\n" + StylePurple.Render("♥ "+d.PersonalizedMessage) + "\n")
	}

	writeList(&b, "Steps", d.Instructions, true)
	writeList(&b, "Tips", d.Tips, false)
	writeList(&b, "Benefits", d.Benefits, false)

	fmt.Fprintf(&b, "\n%s\n", Dim(fmt.Sprintf("About %s · %s · %s · expires %s",
		FormatMinutes(d.EstimatedDurationMin), c.CulturalContext, c.Language,
		strings.ToLower(RelativeDateFrom(c.ExpiresAt, now)))))

	return RenderBox("Activity", b.String())
}

func writeList(b *strings.Builder, title string, items []string, numbered bool) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n" + Header(title) + "\n")
	for i, item := range items {
		if numbered {
			fmt.Fprintf(b, "  %d. %s\n", i+1, item)
			continue
		}
		fmt.Fprintf(b, "  • %s\n", item)
	}
}
