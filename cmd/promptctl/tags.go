package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nihilcoder/promptlab/internal/service"
)

var popularLimit int

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Inspect prompt tags",
}

var tagsPopularCmd = &cobra.Command{
	Use:   "popular",
	Short: "List the most used tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, log, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		tags, err := service.NewTagService(st, log.Logger).Popular(cmd.Context(), popularLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TAG\tPROMPTS")
		for _, t := range tags {
			fmt.Fprintf(w, "%s\t%d\n", t.Tag, t.Count)
		}
		return w.Flush()
	},
}

func init() {
	tagsPopularCmd.Flags().IntVar(&popularLimit, "limit", 20, "number of tags (max 100)")
	tagsCmd.AddCommand(tagsPopularCmd)
}
