package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/config"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/jwt"
	serviceAuth "github.com/cmlabs-hris/planilla-backend-go/internal/service/auth"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash for ADMIN_PASSWORD_HASH",
		Long: `Hash the operator password for the API's ADMIN_PASSWORD_HASH setting.
Without an argument the password is read from the first line of stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password must not be empty")
			}

			hash, err := serviceAuth.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Issue an operator access token for the API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromViper(viper.GetViper())
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return errors.New("jwt.secret is required (PLANILLA_JWT_SECRET)")
			}

			token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).
				GenerateAccessToken(cfg.Admin.Username)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
			return nil
		},
	}
}
