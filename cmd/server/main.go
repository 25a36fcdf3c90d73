// Command server runs the savings group registry behind a Connect API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/auth"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/config"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/metrics"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/middleware"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/models"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/observability"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/payment"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/registry"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/service"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/pkg/api"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/pkg/logging"

	_ "github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage/badger"
	_ "github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage/memory"
	_ "github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage/postgres"
	_ "github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage/redis"
	_ "github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage/sqlite"
)

const (
	serviceName     = "savings-registry"
	serviceVersion  = "0.1.0"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := logging.Setup(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
		Endpoint:       cfg.OTLPEndpoint,
		Protocol:       cfg.OTLPProtocol,
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
	})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracer(sctx); err != nil {
			logger.Error("Tracer shutdown failed", "error", err)
		}
	}()

	store, err := storage.Open(ctx, cfg.StorageBackend, cfg.StorageOptions())
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "backend", cfg.StorageBackend)

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(promRegistry)

	oracle, err := buildOracle(cfg, logger)
	if err != nil {
		return err
	}

	ledger := payment.NewLedger(payment.WithLogger(logger), payment.WithMetrics(m))
	reg := registry.New(store, oracle, ledger,
		registry.WithMaxGroups(cfg.MaxGroups),
		registry.WithDefaultCreationFee(cfg.CreationFee),
		registry.WithLogger(logger),
		registry.WithMetrics(m),
	)
	if err := presetAuthority(ctx, reg, cfg.AuthorityContract); err != nil {
		return err
	}
	settings, err := reg.Settings(ctx)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if settings.AuthorityContract != "" {
		m.AuthorityConfigured.Set(1)
	}
	logger.Info("Registry ready",
		"authority_contract", settings.AuthorityContract,
		"creation_fee", settings.CreationFee,
		"next_group_id", settings.NextGroupID,
	)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	svc := service.NewRegistryService(reg, ledger, service.UnixHeight, logger)

	mux := http.NewServeMux()
	path, handler := api.NewRegistryServiceHandler(svc, connect.WithInterceptors(
		middleware.RequireAuth(jwtManager, api.ReadProcedures...),
		middleware.LoggingInterceptor(logger),
	))
	mux.Handle(path, handler)

	// h2c serves HTTP/2 without TLS, which Connect's gRPC protocols need.
	apiServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h2c.NewHandler(loggingMiddleware(logger, corsMiddleware(mux)), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	adminServer := &http.Server{
		Addr:              cfg.AdminAddr,
		Handler:           adminRouter(store, promRegistry, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	for name, srv := range map[string]*http.Server{"api": apiServer, "admin": adminServer} {
		g.Go(func() error {
			logger.Info("Listener starting", "listener", name, "address", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("%s listener: %w", name, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down")
		return errors.Join(apiServer.Shutdown(sctx), adminServer.Shutdown(sctx))
	})
	return g.Wait()
}

// presetAuthority applies REGISTRY_AUTHORITY_CONTRACT. A contract already stored
// from a previous run is left in place.
func presetAuthority(ctx context.Context, reg *registry.Registry, contract string) error {
	if contract == "" {
		return nil
	}
	err := reg.SetAuthorityContract(ctx, registry.Call{Caller: "bootstrap", Height: service.UnixHeight()}, models.Principal(contract))
	if errors.Is(err, registry.ErrAlreadyConfigured) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("preset authority contract: %w", err)
	}
	return nil
}
