package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"angopay/internal/domain/auth"
	"angopay/internal/platform/config"
)

// NewTokenCommand mints an API token signed with JWT_SECRET.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := auth.RolePermissions[role]; !ok {
				return NewExitError(ExitCommandError, fmt.Sprintf("unknown role %q", role))
			}
			cfg, err := config.Load()
			if err != nil {
				return WrapExitError(ExitCommandError, "load config", err)
			}
			if cfg.JWTSecret == "" {
				return NewExitError(ExitCommandError, "JWT_SECRET is not set")
			}
			token, err := auth.GenerateToken(cfg.JWTSecret, auth.Claims{UserID: userID, Role: role}, ttl)
			if err != nil {
				return WrapExitError(ExitCommandError, "sign token", err)
			}
			return rootOpts.formatter(cmd).Success(map[string]any{"token": token, "role": role, "expiresIn": ttl.String()}, func(w io.Writer) {
				fmt.Fprintln(w, token)
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id carried in the token")
	cmd.Flags().StringVar(&role, "role", auth.RolePayrollClerk, "payroll_clerk|payroll_manager|viewer")
	cmd.Flags().DurationVar(&ttl, "ttl", 8*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
