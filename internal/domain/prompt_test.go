package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination_HasMore(t *testing.T) {
	tests := []struct {
		name    string
		total   int64
		limit   int
		offset  int
		hasMore bool
	}{
		{"empty", 0, 20, 0, false},
		{"exact fit", 20, 20, 0, false},
		{"one more", 21, 20, 0, true},
		{"last page", 45, 20, 40, false},
		{"middle page", 45, 20, 20, true},
		{"offset past end", 5, 20, 40, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, tt.limit, tt.offset)
			assert.Equal(t, tt.hasMore, p.HasMore)
			assert.Equal(t, int64(tt.offset+tt.limit) < tt.total, p.HasMore)
			assert.Equal(t, tt.total, p.Total)
		})
	}
}

func TestPromptFields_Apply(t *testing.T) {
	neg := "blurry"
	p := &Prompt{ID: "prm-1", OwnerID: 7, Title: "old", UsageCount: 3}

	PromptFields{
		Title:        "new",
		Text:         "a castle",
		NegativeText: &neg,
		Tags:         []string{"fantasy"},
		IsPublic:     true,
	}.Apply(p)

	assert.Equal(t, "new", p.Title)
	assert.Equal(t, "a castle", p.Text)
	assert.Equal(t, &neg, p.NegativeText)
	assert.True(t, p.IsPublic)
	assert.True(t, p.HasTag("fantasy"))
	// Owner and counters are not editable.
	assert.Equal(t, int64(7), p.OwnerID)
	assert.Equal(t, int64(3), p.UsageCount)
}

func TestCollectionFields_Apply(t *testing.T) {
	name := "Landscapes"
	c := &Collection{Name: "old", IsPublic: true}

	CollectionFields{Name: &name}.Apply(c)

	assert.Equal(t, "Landscapes", c.Name)
	assert.True(t, c.IsPublic, "unset fields are left alone")
}

func TestItemType_Valid(t *testing.T) {
	assert.True(t, ItemTypePrompt.Valid())
	assert.True(t, ItemTypeArtwork.Valid())
	assert.False(t, ItemType("video").Valid())
}
