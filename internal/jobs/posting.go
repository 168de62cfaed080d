package jobs

import (
	"strings"
)

// Posting is a single job posting produced by a listing generator.
type Posting struct {
	Title       string `json:"title" mapstructure:"title" validate:"required"`
	Company     string `json:"company" mapstructure:"company" validate:"required"`
	Location    string `json:"location" mapstructure:"location" validate:"required"`
	Description string `json:"description" mapstructure:"description" validate:"required"`
}

type Postings struct {
	Items []*Posting
}

func (p *Postings) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Items)
}

func (p *Postings) Titles() []string {
	titles := make([]string, 0, p.Len())
	if p == nil {
		return titles
	}

	for _, posting := range p.Items {
		titles = append(titles, posting.Title)
	}

	return titles
}

// Normalize trims surrounding whitespace in every field.
func (p *Posting) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Company = strings.TrimSpace(p.Company)
	p.Location = strings.TrimSpace(p.Location)
	p.Description = strings.TrimSpace(p.Description)
}
