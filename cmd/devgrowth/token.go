package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/arnold/devgrowth-api/internal/middleware"
)

// newTokenCommand mints a bearer token for local use against the API.
func newTokenCommand() *cobra.Command {
	opts := &Options{}
	var (
		user  string
		email string
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed API token for a user id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.Config()
			if err != nil {
				return err
			}
			id := uuid.New()
			if user != "" {
				if id, err = uuid.Parse(user); err != nil {
					return fmt.Errorf("invalid --user: %w", err)
				}
			}
			token, err := middleware.GenerateToken(cfg.JWTSecret, id, email, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	opts.AddFlags(cmd.Flags())
	cmd.Flags().StringVarP(&user, "user", "u", "", "user id (random when empty)")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 7*24*time.Hour, "token lifetime")
	return cmd
}
