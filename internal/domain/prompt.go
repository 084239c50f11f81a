package domain

import "time"

// Prompt is a saved text template used to drive image generation.
// OwnerID never changes after creation and UsageCount only grows.
type Prompt struct {
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	Parameters   map[string]any `json:"parameters"`
	NegativeText *string        `json:"negativeText"`
	Category     *string        `json:"category"`
	Notes        *string        `json:"notes"`
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Text         string         `json:"text"`
	Tags         []string       `json:"tags"`
	OwnerID      int64          `json:"ownerId"`
	UsageCount   int64          `json:"usageCount"`
	Rating       float64        `json:"rating"`
	IsPublic     bool           `json:"isPublic"`
	IsFavorite   bool           `json:"favorite"`
}

// PromptFields holds the owner-editable attributes of a prompt.
// Tags are always applied wholesale.
type PromptFields struct {
	Parameters   map[string]any
	NegativeText *string
	Category     *string
	Notes        *string
	Title        string
	Text         string
	Tags         []string
	IsPublic     bool
}

// Apply copies the editable fields onto the prompt.
func (f PromptFields) Apply(p *Prompt) {
	p.Title = f.Title
	p.Text = f.Text
	p.NegativeText = f.NegativeText
	p.Category = f.Category
	p.Parameters = f.Parameters
	p.Notes = f.Notes
	p.IsPublic = f.IsPublic
	p.Tags = f.Tags
}

// HasTag reports whether the prompt carries the given tag.
func (p *Prompt) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Pagination describes the window a list result was cut from.
type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

// NewPagination builds pagination metadata for a page of results.
func NewPagination(total int64, limit, offset int) Pagination {
	return Pagination{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+limit) < total,
	}
}

// PromptPage is one page of prompts plus pagination metadata.
type PromptPage struct {
	Items      []*Prompt  `json:"items"`
	Pagination Pagination `json:"pagination"`
}
