package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nihilcoder/promptlab/internal/auth"
)

var (
	tokenUser int64
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage bearer tokens for development",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a bearer token for a user",
	Long: `Issue a PASETO bearer token signed with the server's key.

The key comes from AUTH_TOKEN_KEY or the key file, exactly as the server
resolves it. A missing key file is created.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenUser <= 0 {
			return fmt.Errorf("--user must be a positive user id")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		key := cfg.Auth.TokenKey
		if key == "" {
			if key, err = auth.LoadOrGenerateKey(cfg.Auth.KeyPath); err != nil {
				return err
			}
		}

		verifier, err := auth.NewTokenVerifier(key, cfg.Auth.Issuer)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), verifier.Issue(tokenUser, tokenTTL))
		return nil
	},
}

var tokenNewKeyCmd = &cobra.Command{
	Use:   "new-key",
	Short: "Print a fresh hex-encoded key for AUTH_TOKEN_KEY",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := auth.GenerateKeyHex()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), key)
		return nil
	},
}

func init() {
	tokenIssueCmd.Flags().Int64Var(&tokenUser, "user", 0, "user id carried in the token subject")
	tokenIssueCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	tokenCmd.AddCommand(tokenIssueCmd, tokenNewKeyCmd)
}
