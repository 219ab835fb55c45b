package domain

import "time"

// GeneratedContent is a cached, personalised rendering of a template.
type GeneratedContent struct {
	ID              string
	TemplateID      string
	ContentType     GeneratedContentType
	Data            PersonalizedData
	GeneratedAt     time.Time
	ExpiresAt       time.Time
	CulturalContext string
	Language        string
	Personalized    bool
}

// PersonalizedData is the payload stored with generated content.
type PersonalizedData struct {
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Instructions         []string `json:"instructions"`
	Tips                 []string `json:"tips"`
	Benefits             []string `json:"benefits"`
	EstimatedDurationMin int      `json:"estimatedDuration"`
	PersonalizedMessage  string   `json:"personalizedMessage"`
}

// ExpiredAt reports whether the content is no longer servable at now.
func (c *GeneratedContent) ExpiredAt(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
