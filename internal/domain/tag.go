package domain

// TagCount is a tag string with the number of prompts carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}
