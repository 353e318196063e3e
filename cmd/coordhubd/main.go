package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	coordinationv1 "github.com/chris-chris/optuna/gen/go/coordination/v1"
	"github.com/chris-chris/optuna/internal/coordinator"
	"github.com/chris-chris/optuna/pkg/config"
	"github.com/chris-chris/optuna/pkg/logger"
)

func main() {
	var grpcAddr string
	var logLevel string
	var configPath string

	flag.StringVar(&grpcAddr, "grpc-addr", ":50052", "gRPC listen address")
	flag.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.StringVar(&configPath, "config", "", "optional YAML config file (overrides flags)")
	flag.Parse()

	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			logger.Error("failed to load config", "path", configPath, "error", err)
			os.Exit(1)
		}
		logLevel = cfg.LogLevel
		if cfg.Hub != nil {
			grpcAddr = cfg.Hub.Addr
		}
	}

	logger.SetDefault(logger.NewText(logLevel, os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// TODO: Configure gRPC server security (e.g., TLS, authentication, rate limiting)
	// before using this service in a production environment.
	grpcServer := grpc.NewServer()
	coordinationv1.RegisterCoordinationHubServer(grpcServer, coordinator.NewHubServer())

	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logger.Error("failed to listen for gRPC", "addr", grpcAddr, "error", err)
		stop()
		os.Exit(1)
	}

	go func() {
		logger.Info("coordination hub listening", "addr", grpcAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown requested")
	stop()

	grpcServer.GracefulStop()
}
