// Package main runs the CRM API server: REST and GraphQL over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/abgdnv/gocrm/internal/app"
	"github.com/abgdnv/gocrm/internal/config"
	"github.com/abgdnv/gocrm/internal/store/migrations"
	"github.com/abgdnv/gocrm/pkg/bootstrap"
	"github.com/abgdnv/gocrm/pkg/config/configloader"
	"github.com/abgdnv/gocrm/pkg/logger"
	"github.com/abgdnv/gocrm/pkg/messaging"
	pkgnats "github.com/abgdnv/gocrm/pkg/nats"
	"github.com/abgdnv/gocrm/pkg/server"
	"github.com/abgdnv/gocrm/pkg/telemetry"
	"golang.org/x/sync/errgroup"
)

const serviceName = "crm"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run loads the configuration, connects the database and the broker, and serves HTTP until ctx is cancelled.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	appLogger := logger.New(os.Stdout, cfg.Log.Level)
	slog.SetDefault(appLogger)

	if cfg.Telemetry.Traces.Enabled {
		tp, err := telemetry.NewTracerProvider(ctx, serviceName, cfg.Telemetry.Traces.OtlpHttp)
		if err != nil {
			return err
		}
		defer shutdownWith(appLogger, "tracer provider", cfg, tp.Shutdown)
	}
	if cfg.Telemetry.Metrics.Enabled {
		mp, err := telemetry.NewMeterProvider(serviceName)
		if err != nil {
			return err
		}
		defer shutdownWith(appLogger, "meter provider", cfg, mp.Shutdown)
	}

	if cfg.Database.Migrate {
		if err := migrations.Up(cfg.Database.URL); err != nil {
			return err
		}
		appLogger.Info("Database migrations applied")
	}

	dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
	if err != nil {
		return err
	}
	defer dbPool.Close()
	appLogger.Info("Successfully connected to the database!")

	publisher, closePublisher, err := newPublisher(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer closePublisher()

	deps := app.SetupDependencies(dbPool, publisher, appLogger)
	httpServer, err := app.SetupHttpServer(deps, cfg)
	if err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)
	server.Serve(gCtx, g, httpServer, "HTTP", cfg.Shutdown.Timeout, appLogger)
	if cfg.PProf.Enabled {
		// the default mux carries the pprof handlers
		server.Serve(gCtx, g, &http.Server{Addr: cfg.PProf.Addr}, "pprof", cfg.Shutdown.Timeout, appLogger)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// newPublisher connects to NATS JetStream and makes sure the orders stream exists.
// With NATS disabled events are dropped.
func newPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Nats.Enabled {
		logger.Info("NATS is disabled, order events will not be published")
		return messaging.NopPublisher{}, func() {}, nil
	}
	nc, err := pkgnats.NewClient(cfg.Nats.Url, serviceName, cfg.Nats.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := pkgnats.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	streamCtx, cancel := context.WithTimeout(ctx, cfg.Nats.Timeout)
	defer cancel()
	if err := pkgnats.EnsureStream(streamCtx, js, messaging.OrdersStream, messaging.OrdersCreatedSubject); err != nil {
		nc.Close()
		return nil, nil, err
	}
	logger.Info("Connected to NATS", "url", cfg.Nats.Url)
	return pkgnats.NewNatsPublisher(js), func() {
		if err := nc.Drain(); err != nil {
			logger.Error("Failed to drain NATS connection", "error", err)
		}
	}, nil
}

func shutdownWith(logger *slog.Logger, name string, cfg *config.Config, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Error("Failed to shut down "+name, "error", err)
	}
}
