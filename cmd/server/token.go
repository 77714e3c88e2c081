package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"estate-ledger/internal/accounts/token"
	"estate-ledger/internal/platform/config"
	id "estate-ledger/pkg/domain"
)

type tokenOutput struct {
	Token     string    `json:"token"`
	JTI       string    `json:"jti"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// tokenCmd mints an access token with the configured signing key. The user
// must already have an account for the token to pass authentication.
func tokenCmd() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generate an access token for local testing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cfg.IsProduction() {
				return fmt.Errorf("refusing to mint tokens in production")
			}
			uid, err := id.ParseUserID(userID)
			if err != nil {
				return fmt.Errorf("--user-id: %w", err)
			}
			if ttl <= 0 {
				ttl = cfg.Server.TokenTTL
			}

			issued, err := token.NewJWTService(cfg.Server.JWTSigningKey, ttl).Issue(cmd.Context(), uid)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !asJSON {
				_, err = fmt.Fprintln(out, issued.Token)
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(tokenOutput{
				Token:     issued.Token,
				JTI:       issued.JTI,
				UserID:    uid.String(),
				ExpiresAt: issued.ExpiresAt,
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "user id (UUID) to put in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to TOKEN_TTL)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print token details as JSON")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
