package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nihilcoder/promptlab/internal/domain"
	"github.com/nihilcoder/promptlab/internal/id"
	"github.com/nihilcoder/promptlab/internal/service"
	"github.com/nihilcoder/promptlab/internal/validation"
)

var (
	seedOwner    int64
	seedPrompts  int
	seedArtworks int
)

type samplePrompt struct {
	title    string
	text     string
	category string
	tags     []string
}

var samplePrompts = []samplePrompt{
	{"Misty harbor at dawn", "fishing boats in a misty harbor at dawn, soft volumetric light", "landscape", []string{"landscape", "moody", "photoreal"}},
	{"Neon alley", "rain-soaked alley lit by neon signs, reflections on wet asphalt", "urban", []string{"cyberpunk", "night", "moody"}},
	{"Studio portrait", "studio portrait of an elderly craftsman, rembrandt lighting", "portrait", []string{"portrait", "photoreal"}},
	{"Paper-cut forest", "layered paper-cut forest diorama, warm backlight", "illustration", []string{"papercraft", "landscape"}},
	{"Isometric workshop", "isometric cutaway of a watchmaker's workshop, pastel palette", "illustration", []string{"isometric", "cozy"}},
	{"Desert monolith", "a lone black monolith in red desert dunes, wide angle", "landscape", []string{"landscape", "minimal", "surreal"}},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with sample prompts and artworks",
	Long: `Create sample artworks and prompts owned by one user.

Half of the prompts are public. Running seed twice creates a second batch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedOwner <= 0 {
			return fmt.Errorf("--owner must be a positive user id")
		}

		st, _, log, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		for n := range seedArtworks {
			artworkID, err := id.NewArtwork()
			if err != nil {
				return err
			}
			a := &domain.Artwork{
				ID:        artworkID,
				OwnerID:   seedOwner,
				Title:     fmt.Sprintf("Sample artwork %d", n+1),
				ImageURL:  fmt.Sprintf("https://images.example.com/%s.png", artworkID),
				CreatedAt: time.Now().UTC(),
			}
			if err := st.CreateArtwork(ctx, a); err != nil {
				return fmt.Errorf("create artwork: %w", err)
			}
		}

		prompts := service.NewPromptService(st, validation.New(), log.Logger)
		for n := range seedPrompts {
			sample := samplePrompts[n%len(samplePrompts)]
			category := sample.category
			if _, err := prompts.Create(ctx, seedOwner, service.PromptInput{
				Title:    sample.title,
				Text:     sample.text,
				Category: &category,
				Tags:     sample.tags,
				IsPublic: n%2 == 0,
			}); err != nil {
				return fmt.Errorf("create prompt %q: %w", sample.title, err)
			}
		}

		fmt.Fprintf(out, "seeded %d prompts and %d artworks for user %d\n", seedPrompts, seedArtworks, seedOwner)
		return nil
	},
}

func init() {
	seedCmd.Flags().Int64Var(&seedOwner, "owner", 1, "owner user id")
	seedCmd.Flags().IntVar(&seedPrompts, "prompts", 12, "number of prompts")
	seedCmd.Flags().IntVar(&seedArtworks, "artworks", 4, "number of artworks")
}
