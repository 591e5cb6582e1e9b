// Package main wipes the CRM database and loads demo data.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/abgdnv/gocrm/internal/config"
	"github.com/abgdnv/gocrm/internal/seed"
	"github.com/abgdnv/gocrm/internal/service"
	"github.com/abgdnv/gocrm/internal/store"
	"github.com/abgdnv/gocrm/internal/store/migrations"
	"github.com/abgdnv/gocrm/pkg/bootstrap"
	"github.com/abgdnv/gocrm/pkg/config/configloader"
	"github.com/abgdnv/gocrm/pkg/logger"
	"github.com/abgdnv/gocrm/pkg/messaging"
)

const serviceName = "seed"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("seeding failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := configloader.Load[*config.SeedConfig](serviceName)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	appLogger := logger.New(os.Stdout, cfg.Log.Level)

	if cfg.Database.Migrate {
		if err := migrations.Up(cfg.Database.URL); err != nil {
			return err
		}
	}
	dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	pgStore := store.NewPgStore(dbPool)
	svc := service.NewService(pgStore, messaging.NopPublisher{}, appLogger)
	res, err := seed.Run(ctx, pgStore, svc, appLogger)
	if err != nil {
		return err
	}
	fmt.Printf("Created %d customers.\nCreated %d products.\nCreated %d orders.\n",
		len(res.Customers), len(res.Products), len(res.Orders))
	return nil
}
