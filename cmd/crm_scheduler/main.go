// Package main runs the CRM job scheduler.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/abgdnv/gocrm/internal/config"
	"github.com/abgdnv/gocrm/internal/jobs"
	"github.com/abgdnv/gocrm/pkg/config/configloader"
	"github.com/abgdnv/gocrm/pkg/logger"
	"github.com/abgdnv/gocrm/pkg/probes"
	"golang.org/x/sync/errgroup"
)

const serviceName = "scheduler"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.SchedulerConfig](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	appLogger := logger.New(os.Stdout, cfg.Log.Level)
	slog.SetDefault(appLogger)

	client := jobs.NewGraphQLClient(cfg.Client, cfg.Resilience.CircuitBreaker, appLogger)
	runner := jobs.NewRunner(client, cfg.Jobs, appLogger)
	scheduler := jobs.NewScheduler(appLogger)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return scheduler.Run(gCtx, runner.Jobs()...)
	})
	g.Go(func() error {
		return probes.RunLiveness(gCtx, cfg.Probes.LivenessFileName, cfg.Probes.LivenessInterval, appLogger)
	})
	if err := probes.MarkReady(cfg.Probes.ReadinessFileName); err != nil {
		return err
	}
	defer func() {
		if err := probes.Clear(cfg.Probes.ReadinessFileName); err != nil {
			appLogger.Warn("failed to remove readiness file", "error", err)
		}
	}()
	appLogger.Info("Scheduler started", "endpoint", cfg.Client.Endpoint)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}
