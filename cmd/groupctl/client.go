package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/pkg/api"
)

// withClient runs fn with a registry client configured from v and a request
// context bounded by the timeout flag.
func withClient(cmd *cobra.Command, v *viper.Viper, fn func(ctx context.Context, c *api.Client) (any, error)) error {
	client := api.NewClient(http.DefaultClient, v.GetString("server"),
		connect.WithInterceptors(api.BearerToken(v.GetString("token"))),
	)

	ctx, cancel := context.WithTimeout(cmd.Context(), v.GetDuration("timeout"))
	defer cancel()

	out, err := fn(ctx, client)
	if err != nil {
		return describe(err)
	}
	return printJSON(cmd.OutOrStdout(), out)
}

// describe adds the registry error code to a failed call.
func describe(err error) error {
	if code, ok := api.ErrorCode(err); ok {
		return fmt.Errorf("%w [registry code u%d]", err, code)
	}
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid group id %q: %w", s, err)
	}
	return id, nil
}
