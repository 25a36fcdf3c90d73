package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/auth"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/models"
)

func newTokenCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token <principal>",
		Short: "Mint a bearer token for a principal",
		Long: `Mint a bearer token signed with the server's JWT secret.

Intended for development and operations; the secret is read from
--secret or GROUPCTL_SECRET.

Examples:
  export GROUPCTL_TOKEN=$(groupctl token ST1ALICE --secret "$JWT_SECRET")`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := v.GetString("secret")
			if secret == "" {
				return errors.New("a JWT secret is required (--secret or GROUPCTL_SECRET)")
			}
			token, err := auth.NewJWTManager(secret, v.GetDuration("ttl")).Generate(models.Principal(args[0]))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().String("secret", "", "JWT signing secret")
	_ = v.BindPFlag("secret", cmd.Flags().Lookup("secret"))
	cmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
	_ = v.BindPFlag("ttl", cmd.Flags().Lookup("ttl"))

	return cmd
}
