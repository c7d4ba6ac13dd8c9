package cmd

import (
	"fmt"
	"time"

	"course-studio/core/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	tokenUser string
	tokenRole string
)

// tokenCmd is the parent command for session tokens.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage session tokens",
}

// tokenIssueCmd signs a bearer token with the configured JWT secret.
var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a session token for a user",
	Long: `Signs a bearer token for the given user and role with AUTH_JWT_SECRET.

Example:
  token issue --user 7d3c... --role learner`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := loadRuntime()
		if err != nil {
			return err
		}

		ttl := time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute
		s := session.Session{UserID: tokenUser, Role: session.Role(tokenRole)}
		token, err := session.IssueToken(cfg.Auth.JWTSecret, s, ttl)
		if err != nil {
			return fmt.Errorf("failed to issue token: %w", err)
		}

		l.Info("Token issued", zap.String("user", s.UserID), zap.String("role", string(s.Role)), zap.Duration("ttl", ttl))
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenIssueCmd.Flags().StringVar(&tokenUser, "user", "", "User id carried by the token")
	tokenIssueCmd.Flags().StringVar(&tokenRole, "role", string(session.RoleLearner), "Role: admin or learner")
	_ = tokenIssueCmd.MarkFlagRequired("user")

	tokenCmd.AddCommand(tokenIssueCmd)
	RootCmd.AddCommand(tokenCmd)
}
