package domain

import "time"

// Artwork is a community image that collections can reference.
type Artwork struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"imageUrl"`
	OwnerID   int64     `json:"ownerId"`
}
