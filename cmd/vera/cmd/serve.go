package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/vera/foundation/core/log"
	"github.com/msto63/vera/internal/parsesvc"
	"github.com/msto63/vera/pkg/core/cache"
	coregrpc "github.com/msto63/vera/pkg/core/grpc"
	"github.com/msto63/vera/pkg/core/health"
	"github.com/msto63/vera/pkg/core/logging"
	"github.com/msto63/vera/pkg/core/version"
)

// healthCanary is parsed by the parser self-check
const healthCanary = "program main { int x = 1; if x { x = x + 2; } else { return x; } }"

const healthCanaryStatements = 2

func newServeCmd(a *app) *cobra.Command {
	var host string
	var port int
	var healthInterval time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC parser service",
		Long: fmt.Sprintf(`Run the gRPC parser service %s.

The server also exposes grpc.health.v1 and, when enabled in the
configuration, server reflection.`, parsesvc.ServiceName),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				a.config.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.config.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, healthInterval)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	cmd.Flags().DurationVar(&healthInterval, "health-interval", 15*time.Second, "interval between health check runs")
	return cmd
}

func (a *app) serve(ctx context.Context, healthInterval time.Duration) error {
	cfg := a.config.Server
	logger := a.logger.WithField("service", "serve")

	srvCfg := coregrpc.DefaultServerConfig()
	srvCfg.Host = cfg.Host
	srvCfg.Port = cfg.Port
	srvCfg.MaxRecvMsgSize = cfg.MaxRecvMsgSize
	srvCfg.EnableReflection = cfg.EnableReflection
	srvCfg.Logger = logging.Wrap(a.logger, "grpc")
	server := coregrpc.NewServer(srvCfg)

	results := cache.NewSourceCache(cfg.CacheTTL.Duration, cfg.CacheMaxItems)
	defer results.Close()

	registry := health.NewRegistry(parsesvc.ServiceName, version.ParseService)
	registry.Register(health.ParserCheck("parser", a.engine, healthCanary, healthCanaryStatements))

	history, err := a.openHistory()
	if err != nil {
		return err
	}
	if history != nil {
		defer history.Close()
		registry.Register(health.PingCheck("history", history.Ping))
	}

	parsesvc.Register(server.GRPCServer(), parsesvc.NewService(parsesvc.Options{
		Engine:  a.engine,
		Cache:   results,
		History: history,
		Logger:  a.logger,
	}))
	reporter := health.NewGRPCReporter(server.GRPCServer(), registry, parsesvc.ServiceName)

	healthCtx, cancelHealth := context.WithCancel(ctx)
	defer cancelHealth()
	go reporter.Run(healthCtx, healthInterval)

	if err := server.StartAsync(); err != nil {
		return err
	}
	logger.Info("parser service started", mdwlog.Fields{
		"address": server.Address(),
		"version": version.ParseService,
		"history": history != nil,
	})

	<-ctx.Done()
	logger.Info("shutting down", mdwlog.Fields{"cache": results.Stats()})
	cancelHealth()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	server.StopWithTimeout(stopCtx)
	return nil
}
