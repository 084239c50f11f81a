package domain

import "time"

// ItemType identifies what kind of content a collection item points at.
type ItemType string

// Collection item types.
const (
	ItemTypePrompt  ItemType = "prompt"
	ItemTypeArtwork ItemType = "artwork"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	return t == ItemTypePrompt || t == ItemTypeArtwork
}

// Collection is a user-owned named grouping of prompts and artworks.
// ItemCount and CoverImage are derived at read time.
type Collection struct {
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Description *string   `json:"description"`
	CoverImage  *string   `json:"coverImage"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	OwnerID     int64     `json:"ownerId"`
	ItemCount   int64     `json:"itemCount"`
	IsPublic    bool      `json:"isPublic"`
}

// CollectionFields holds the owner-editable attributes of a collection.
type CollectionFields struct {
	Name        *string
	Description *string
	IsPublic    *bool
}

// Apply copies the set fields onto the collection.
func (f CollectionFields) Apply(c *Collection) {
	if f.Name != nil {
		c.Name = *f.Name
	}
	if f.Description != nil {
		c.Description = f.Description
	}
	if f.IsPublic != nil {
		c.IsPublic = *f.IsPublic
	}
}

// ItemRef points at a piece of content that can be collected.
type ItemRef struct {
	ID   string   `json:"itemId"`
	Type ItemType `json:"itemType"`
}

// CollectionItem is a membership row enriched with display fields of its content.
type CollectionItem struct {
	AddedAt      time.Time `json:"addedAt"`
	ImageURL     *string   `json:"imageUrl"`
	CollectionID string    `json:"collectionId"`
	ItemID       string    `json:"itemId"`
	ItemType     ItemType  `json:"itemType"`
	Title        string    `json:"title"`
}

// CollectionPage is one page of collections plus pagination metadata.
type CollectionPage struct {
	Items      []*Collection `json:"items"`
	Pagination Pagination    `json:"pagination"`
}
