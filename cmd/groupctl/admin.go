package main

import (
	"context"
	"fmt"
	"strconv"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/models"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/pkg/api"
)

func newAuthorityCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authority",
		Short: "Manage the authority contract",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <principal>",
		Short: "Set the principal that receives creation fees (once)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, v, func(ctx context.Context, c *api.Client) (any, error) {
				_, err := c.SetAuthorityContract(ctx, connect.NewRequest(&api.SetAuthorityContractRequest{
					Principal: models.Principal(args[0]),
				}))
				if err != nil {
					return nil, err
				}
				return map[string]string{"authority_contract": args[0]}, nil
			})
		},
	})
	return cmd
}

func newFeeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fee",
		Short: "Manage the creation fee",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <amount>",
		Short: "Set the fee charged on subsequent creates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fee, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid fee %q: %w", args[0], err)
			}
			return withClient(cmd, v, func(ctx context.Context, c *api.Client) (any, error) {
				if _, err := c.SetCreationFee(ctx, connect.NewRequest(&api.SetCreationFeeRequest{Fee: fee})); err != nil {
					return nil, err
				}
				return map[string]uint64{"creation_fee": fee}, nil
			})
		},
	})
	return cmd
}

func newSettingsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show the registry configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, v, func(ctx context.Context, c *api.Client) (any, error) {
				resp, err := c.GetSettings(ctx, connect.NewRequest(&api.GetSettingsRequest{}))
				if err != nil {
					return nil, err
				}
				return resp.Msg.Settings, nil
			})
		},
	}
}

func newTransfersCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "transfers",
		Short: "List recorded fee transfers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, v, func(ctx context.Context, c *api.Client) (any, error) {
				resp, err := c.ListTransfers(ctx, connect.NewRequest(&api.ListTransfersRequest{}))
				if err != nil {
					return nil, err
				}
				return resp.Msg.Transfers, nil
			})
		},
	}
}
