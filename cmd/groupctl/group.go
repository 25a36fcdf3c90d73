package main

import (
	"context"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/models"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/pkg/api"
)

func newGroupCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Create, update and inspect savings groups",
	}
	cmd.AddCommand(
		newGroupCreateCmd(v),
		newGroupUpdateCmd(v),
		newGroupGetCmd(v),
		newGroupLastUpdateCmd(v),
		newGroupIDCmd(v),
		newGroupCountCmd(v),
		newGroupExistsCmd(v),
	)
	return cmd
}

func newGroupCreateCmd(v *viper.Viper) *cobra.Command {
	var (
		req       api.CreateGroupRequest
		groupType string
		currency  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a group and pay the creation fee",
		Long: `Create a group. The caller must be a verified authority and the
current creation fee is transferred from the caller to the authority contract.

Example:
  groupctl group create --name Alpha --max-members 10 --contrib-amount 100 \
    --cycle-duration 30 --penalty-rate 5 --voting-threshold 50 --group-type rural \
    --interest-rate 10 --grace-period 7 --location VillageX --currency STX \
    --min-contrib 50 --max-loan 1000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.GroupType = models.GroupType(groupType)
			req.Currency = models.Currency(currency)
			return withClient(cmd, v, func(ctx context.Context, c *api.Client) (any, error) {
				resp, err := c.CreateGroup(ctx, connect.NewRequest(&req))
				if err != nil {
					return nil, err
				}
				return resp.Msg, nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "group name (1-100 characters, unique)")
	f.Uint64Var(&req.MaxMembers, "max-members", 0, "member cap (1-50)")
	f.Uint64Var(&req.ContribAmount, "contrib-amount", 0, "periodic contribution")
	f.Uint64Var(&req.CycleDuration, "cycle-duration", 0, "contribution period length")
	f.Uint64Var(&req.PenaltyRate, "penalty-rate", 0, "late penalty percentage (0-100)")
	f.Uint64Var(&req.VotingThreshold, "voting-threshold", 0, "approval percentage (1-100)")
	f.StringVar(&groupType, "group-type", string(models.GroupTypeCommunity), "rural, urban or community")
	f.Uint64Var(&req.InterestRate, "interest-rate", 0, "loan interest rate (0-20)")
	f.Uint64Var(&req.GracePeriod, "grace-period", 0, "grace period (0-30)")
	f.StringVar(&req.Location, "location", "", "location (1-100 characters)")
	f.StringVar(&currency, "currency", string(models.CurrencySTX), "STX, USD or BTC")
	f.Uint64Var(&req.MinContrib, "min-contrib", 0, "minimum contribution")
	f.Uint64Var(&req.MaxLoan, "max-loan", 0, "maximum loan")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newGroupUpdateCmd(v *viper.Viper) *cobra.Command {
	var req api.UpdateGroupRequest

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the name, member cap and contribution of a group you created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			req.GroupID = id
			return withClient(cmd, v, func(ctx context.Context, c *api.Client) (any, error) {
				resp, err := c.UpdateGroup(ctx, connect.NewRequest(&req))
				if err != nil {
					return nil, err
				}
				return resp.Msg.Group, nil
			})
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "new name")
	cmd.Flags().Uint64Var(&req.MaxMembers, "max-members", 0, "new member cap (1-50)")
	cmd.Flags().Uint64Var(&req.ContribAmount, "contrib-amount", 0, "new contribution amount")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("max-members")
	_ = cmd.MarkFlagRequired("contrib-amount")

	return cmd
}

func newGroupGetCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd, v, func(ctx context.Context, c *api.Client) (any, error) {
				resp, err := c.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: id}))
				if err != nil {
					return nil, err
				}
				return resp.Msg.Group, nil
			})
		},
	}
}

func newGroupLastUpdateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "last-update <id>",
		Short: "Show the most recent update of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd, v, func(ctx context.Context, c *api.Client) (any, error) {
				resp, err := c.GetGroupUpdate(ctx, connect.NewRequest(&api.GetGroupUpdateRequest{GroupID: id}))
				if err != nil {
					return nil, err
				}
				return resp.Msg.Update, nil
			})
		},
	}
}

func newGroupIDCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "id <name>",
		Short: "Resolve a group name to its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, v, func(ctx context.Context, c *api.Client) (any, error) {
				resp, err := c.GetGroupIDByName(ctx, connect.NewRequest(&api.GetGroupIDByNameRequest{Name: args[0]}))
				if err != nil {
					return nil, err
				}
				return resp.Msg, nil
			})
		},
	}
}

func newGroupCountCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Number of group ids ever issued",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, v, func(ctx context.Context, c *api.Client) (any, error) {
				resp, err := c.GetGroupCount(ctx, connect.NewRequest(&api.GetGroupCountRequest{}))
				if err != nil {
					return nil, err
				}
				return resp.Msg, nil
			})
		},
	}
}

func newGroupExistsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <name>",
		Short: "Report whether a live group holds a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, v, func(ctx context.Context, c *api.Client) (any, error) {
				resp, err := c.CheckGroupExistence(ctx, connect.NewRequest(&api.CheckGroupExistenceRequest{Name: args[0]}))
				if err != nil {
					return nil, err
				}
				return resp.Msg, nil
			})
		},
	}
}
