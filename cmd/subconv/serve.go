package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/creamcroissant/subconv/internal/api"
	"github.com/creamcroissant/subconv/internal/bootstrap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP conversion API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides http.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.HTTP.Addr = serveAddr
	}
	infra, err := bootstrap.BuildInfrastructure(cfg, nil)
	if err != nil {
		return err
	}
	logger := infra.Logger
	if cfgFile != "" {
		logger.Info("config loaded", "path", cfgFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router := api.NewRouter(logger, api.Services{
		Conversion: infra.Conversion,
		Cache:      infra.Cache,
		Metrics:    infra.Registry,
	}, cfg)
	server := bootstrap.NewHTTPServer(cfg.HTTP, router)

	if err := bootstrap.RunHTTPServer(ctx, server, cfg.HTTP.ShutdownTimeout, logger); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
