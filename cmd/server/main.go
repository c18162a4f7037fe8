package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/GriffinCanCode/browserctl/internal/infrastructure/config"
	"github.com/GriffinCanCode/browserctl/internal/infrastructure/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Flags override environment values
	flag.StringVar(&cfg.Server.Host, "host", cfg.Server.Host, "HTTP and gRPC listen host")
	flag.StringVar(&cfg.Server.Port, "port", cfg.Server.Port, "HTTP port")
	flag.StringVar(&cfg.Server.GRPCPort, "grpc-port", cfg.Server.GRPCPort, "gRPC port")
	flag.BoolVar(&cfg.Server.GRPCEnabled, "grpc", cfg.Server.GRPCEnabled, "Serve the gRPC API")
	flag.StringVar(&cfg.Browser.Catalog, "catalog", cfg.Browser.Catalog, "Browser catalog file (.yaml, .yml or .toml)")
	flag.BoolVar(&cfg.Browser.ReapOnExit, "reap-on-exit", cfg.Browser.ReapOnExit, "Forget a browser once its process exits")
	flag.BoolVar(&cfg.Logging.Development, "dev", cfg.Logging.Development, "Development logging")
	flag.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "Log level (debug, info, warn, error)")
	flag.Parse()

	srv, err := server.NewServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create server: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
