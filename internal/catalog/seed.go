package catalog

import (
	_ "embed"
	"fmt"

	"github.com/alexanderramin/babybond/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed seed/templates.yaml
var seedYAML []byte

// SeedTemplates decodes the built-in corpus.
func SeedTemplates() ([]*domain.ActivityTemplate, error) {
	return ParseTemplates(seedYAML)
}

// ParseTemplates decodes a YAML list of templates and validates each one.
func ParseTemplates(data []byte) ([]*domain.ActivityTemplate, error) {
	var templates []*domain.ActivityTemplate
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("decoding templates: %w", err)
	}
	if errs := ValidateTemplates(templates); len(errs) > 0 {
		return nil, fmt.Errorf("invalid template corpus: %w", errs[0])
	}
	for _, t := range templates {
		normalize(t)
	}
	return templates, nil
}

// ValidateTemplates checks a template list for structural errors.
// Returns a slice of errors (empty if valid).
func ValidateTemplates(templates []*domain.ActivityTemplate) []error {
	var errs []error
	ids := map[string]bool{}
	for i, t := range templates {
		if t.ID == "" {
			errs = append(errs, fmt.Errorf("template[%d]: id is required", i))
		}
		if ids[t.ID] {
			errs = append(errs, fmt.Errorf("template[%d]: duplicate id %q", i, t.ID))
		}
		ids[t.ID] = true
		if t.Title == "" {
			errs = append(errs, fmt.Errorf("template[%d]: title is required", i))
		}
		if !t.Type.Valid() {
			errs = append(errs, fmt.Errorf("template[%d]: unknown content type %q", i, t.Type))
		}
		if !t.AgeGroup.Valid() {
			errs = append(errs, fmt.Errorf("template[%d]: unknown age group %q", i, t.AgeGroup))
		}
		if t.DurationMin <= 0 {
			errs = append(errs, fmt.Errorf("template[%d]: duration must be positive", i))
		}
		switch t.Difficulty {
		case domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard:
		default:
			errs = append(errs, fmt.Errorf("template[%d]: unknown difficulty %q", i, t.Difficulty))
		}
	}
	return errs
}

// normalize replaces nil lists so seeded rows round-trip as empty arrays.
func normalize(t *domain.ActivityTemplate) {
	if t.Instructions == nil {
		t.Instructions = []string{}
	}
	if t.Benefits == nil {
		t.Benefits = []string{}
	}
	if t.Materials == nil {
		t.Materials = []string{}
	}
	if t.Tips == nil {
		t.Tips = []string{}
	}
}
