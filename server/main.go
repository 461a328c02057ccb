package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/flowchart"
	"github.com/meikuraledutech/flowchart/essay"
	"github.com/meikuraledutech/flowchart/internal/config"
	"github.com/meikuraledutech/flowchart/internal/logging"
	"github.com/meikuraledutech/flowchart/internal/metrics"
	"github.com/meikuraledutech/flowchart/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath, addr string

	cmd := &cobra.Command{
		Use:          "flowchart-server",
		Short:        "Serve the flowchart editing API",
		Long:         `Holds one flowchart in memory, applies editor actions to it and turns it into prose through a chat-completion endpoint.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, addr)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (.toml, .yaml or .yml)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}

func run(configPath, addr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := logging.New(level)

	gen := essay.New(essay.Config{
		Endpoint:  cfg.Generation.Endpoint,
		Model:     cfg.Generation.Model,
		MaxTokens: cfg.Generation.MaxTokens,
		APIKeyEnv: cfg.Generation.APIKeyEnv,
		Timeout:   cfg.Generation.Timeout(),
	}, essay.WithLogger(logger))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	ctrl := flowchart.NewController(memory.New(),
		flowchart.WithLogger(logger),
		flowchart.WithGenerator(gen),
		flowchart.WithMetrics(m),
	)
	if cfg.Server.Seed {
		if err := ctrl.Seed(context.Background()); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	app := newApp(ctrl, m, reg, logger)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("flowchart server listening", "addr", cfg.Server.Addr, "model", cfg.Generation.Model)
		serverErrors <- app.Listen(cfg.Server.Addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err
	case sig := <-shutdown:
		logger.Info("shutting down", "signal", sig.String())
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", shutdownTimeout, err)
		}
		return nil
	}
}
