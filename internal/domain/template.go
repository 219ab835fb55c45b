package domain

import (
	"strings"
	"time"
)

// ActivityTemplate is a catalog entry describing one developmental activity.
type ActivityTemplate struct {
	ID           string      `yaml:"id"`
	Title        string      `yaml:"title"`
	Description  string      `yaml:"description"`
	Instructions []string    `yaml:"instructions"`
	Type         ContentType `yaml:"type"`
	AgeGroup     AgeGroup    `yaml:"age_group"`
	DurationMin  int         `yaml:"duration_min"`
	Difficulty   Difficulty  `yaml:"difficulty"`
	Benefits     []string    `yaml:"benefits"`
	Materials    []string    `yaml:"materials"`
	Tips         []string    `yaml:"tips"`
	ImageURL     string      `yaml:"image_url"`
	AudioURL     string      `yaml:"audio_url"`
	CreatedAt    time.Time   `yaml:"-"`
}

// scienceKeywords mark benefits that favour a science-minded parent.
var scienceKeywords = []string{"development", "brain", "motor"}

// HasScienceBenefit reports whether any benefit mentions a developmental
// science keyword.
func (t *ActivityTemplate) HasScienceBenefit() bool {
	for _, b := range t.Benefits {
		lower := strings.ToLower(b)
		for _, kw := range scienceKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}
