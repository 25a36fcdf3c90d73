// Command groupctl is an operator client for the savings group registry.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd(viper.New()).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	v.SetEnvPrefix("GROUPCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "groupctl",
		Short: "Savings group registry client",
		Long: `groupctl talks to a registry server over its Connect API.

Admin commands:
  groupctl token <principal>        Mint a bearer token (needs the server's JWT secret)
  groupctl authority set <p>        Configure the fee recipient (once)
  groupctl fee set <amount>         Change the creation fee

Group commands:
  groupctl group create ...         Create a group
  groupctl group update <id> ...    Update name, member cap and contribution
  groupctl group get <id>           Show a group
  groupctl group last-update <id>   Show the last update of a group
  groupctl group id <name>          Resolve a group name
  groupctl group count              Number of ids ever issued
  groupctl group exists <name>      Whether a live group holds a name

Inspection:
  groupctl settings                 Registry configuration
  groupctl transfers                Recorded fee transfers

Every flag can also be set as GROUPCTL_<FLAG>, e.g. GROUPCTL_TOKEN.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("server", "http://localhost:8080", "registry server base URL")
	_ = v.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))

	rootCmd.PersistentFlags().String("token", "", "bearer token identifying the caller")
	_ = v.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))

	rootCmd.PersistentFlags().Duration("timeout", 10*time.Second, "request timeout")
	_ = v.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	rootCmd.AddCommand(newTokenCmd(v))
	rootCmd.AddCommand(newAuthorityCmd(v))
	rootCmd.AddCommand(newFeeCmd(v))
	rootCmd.AddCommand(newGroupCmd(v))
	rootCmd.AddCommand(newSettingsCmd(v))
	rootCmd.AddCommand(newTransfersCmd(v))

	return rootCmd
}
