package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/auth"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/authority"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/middleware"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/models"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/payment"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/registry"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/service"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage/memory"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/pkg/api"
)

const testSecret = "groupctl-test-secret"

func startServer(t *testing.T) string {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ledger := payment.NewLedger(payment.WithLogger(logger))
	reg := registry.New(memory.New(), authority.NewStatic("ST1ALICE"), ledger, registry.WithLogger(logger))
	svc := service.NewRegistryService(reg, ledger, func() uint64 { return 7 }, logger)

	path, handler := api.NewRegistryServiceHandler(svc, connect.WithInterceptors(
		middleware.RequireAuth(auth.NewJWTManager(testSecret, time.Hour), api.ReadProcedures...),
	))
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

// groupctl runs the CLI with args and returns its standard output.
func groupctl(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(viper.New())
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGroupctlEndToEnd(t *testing.T) {
	server := startServer(t)

	token, err := groupctl(t, "token", "ST1ALICE", "--secret", testSecret)
	require.NoError(t, err)
	token = strings.TrimSpace(token)
	require.NotEmpty(t, token)

	common := []string{"--server", server, "--token", token}
	run := func(args ...string) string {
		t.Helper()
		out, err := groupctl(t, append(args, common...)...)
		require.NoError(t, err, "groupctl %v", args)
		return out
	}

	run("authority", "set", "ST9AUTH")
	run("fee", "set", "250")

	out := run("group", "create",
		"--name", "Alpha", "--max-members", "10", "--contrib-amount", "100",
		"--cycle-duration", "30", "--penalty-rate", "5", "--voting-threshold", "50",
		"--group-type", "rural", "--interest-rate", "10", "--grace-period", "7",
		"--location", "VillageX", "--currency", "STX", "--min-contrib", "50", "--max-loan", "1000")
	var created api.CreateGroupResponse
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, uint64(0), created.GroupID)

	var group models.Group
	require.NoError(t, json.Unmarshal([]byte(run("group", "get", "0")), &group))
	assert.Equal(t, "Alpha", group.Name)
	assert.Equal(t, models.Principal("ST1ALICE"), group.Creator)

	run("group", "update", "0", "--name", "Beta", "--max-members", "12", "--contrib-amount", "120")

	var exists api.CheckGroupExistenceResponse
	require.NoError(t, json.Unmarshal([]byte(run("group", "exists", "Beta")), &exists))
	assert.True(t, exists.Exists)

	var update models.GroupUpdate
	require.NoError(t, json.Unmarshal([]byte(run("group", "last-update", "0")), &update))
	assert.Equal(t, "Beta", update.Name)

	var count api.GetGroupCountResponse
	require.NoError(t, json.Unmarshal([]byte(run("group", "count")), &count))
	assert.Equal(t, uint64(1), count.Count)

	var transfers []models.Transfer
	require.NoError(t, json.Unmarshal([]byte(run("transfers")), &transfers))
	require.Len(t, transfers, 1)
	assert.Equal(t, uint64(250), transfers[0].Amount)

	var settings models.Settings
	require.NoError(t, json.Unmarshal([]byte(run("settings")), &settings))
	assert.Equal(t, models.Principal("ST9AUTH"), settings.AuthorityContract)
	assert.Equal(t, uint64(1), settings.NextGroupID)
}

func TestGroupctlReportsRegistryCode(t *testing.T) {
	server := startServer(t)
	token, err := groupctl(t, "token", "ST1ALICE", "--secret", testSecret)
	require.NoError(t, err)

	_, err = groupctl(t, "authority", "set", models.PlaceholderPrincipal.String(),
		"--server", server, "--token", strings.TrimSpace(token))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry code u120")
}

func TestGroupctlInputErrors(t *testing.T) {
	_, err := groupctl(t, "token", "ST1ALICE")
	assert.ErrorContains(t, err, "JWT secret is required")

	_, err = groupctl(t, "group", "get", "not-a-number")
	assert.ErrorContains(t, err, "invalid group id")

	_, err = groupctl(t, "fee", "set", "lots")
	assert.ErrorContains(t, err, "invalid fee")
}
