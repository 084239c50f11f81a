// Package main provides promptctl, an operator tool for the prompt library database.
//
// Usage:
//
//	promptctl migrate --db-path ~/.promptlab/promptlab.db
//	promptctl seed --owner 1 --prompts 20 --artworks 5
//	promptctl tags popular --limit 10
//	promptctl token issue --user 1 --ttl 24h
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
