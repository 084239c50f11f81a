// Package id generates prefixed entity identifiers.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Entity prefixes.
const (
	PrefixPrompt     = "prm"
	PrefixCollection = "col"
	PrefixArtwork    = "art"
)

// size is the NanoID length; 21 URL-safe characters.
const size = 21

// Generate returns "<prefix>-<nanoid>", e.g. "prm-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	nid, err := gonanoid.New(size)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + nid, nil
}

// NewPrompt returns a fresh prompt ID.
func NewPrompt() (string, error) { return Generate(PrefixPrompt) }

// NewCollection returns a fresh collection ID.
func NewCollection() (string, error) { return Generate(PrefixCollection) }

// NewArtwork returns a fresh artwork ID.
func NewArtwork() (string, error) { return Generate(PrefixArtwork) }

// HasPrefix reports whether id was generated with the given prefix.
func HasPrefix(id, prefix string) bool {
	return strings.HasPrefix(id, prefix+"-") && len(id) == len(prefix)+1+size
}
