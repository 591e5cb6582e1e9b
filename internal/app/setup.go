// Package app contains the application setup for the CRM API server.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/gocrm/internal/config"
	"github.com/abgdnv/gocrm/internal/service"
	"github.com/abgdnv/gocrm/internal/store"
	"github.com/abgdnv/gocrm/internal/transport/gql"
	"github.com/abgdnv/gocrm/internal/transport/rest"
	"github.com/abgdnv/gocrm/pkg/messaging"
	"github.com/abgdnv/gocrm/pkg/server"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Dependencies struct {
	Service service.CRMService
	Logger  *slog.Logger
}

func SetupDependencies(dbPool *pgxpool.Pool, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		Service: service.NewService(store.NewPgStore(dbPool), publisher, logger),
		Logger:  logger,
	}
}

// SetupHttpHandler builds the router serving REST, GraphQL and, when enabled, metrics.
// Used by tests to get the handler without a listening server.
func SetupHttpHandler(deps *Dependencies, cfg *config.Config) (http.Handler, error) {
	mux := server.NewChiRouter(deps.Logger)
	if err := wireRoutes(mux, deps, cfg); err != nil {
		return nil, err
	}
	return otelhttp.NewHandler(mux, "crm-http"), nil
}

// wireRoutes sets up the HTTP routes of the CRM.
func wireRoutes(mux *chi.Mux, deps *Dependencies, cfg *config.Config) error {
	rest.NewHandler(deps.Service, deps.Logger).RegisterRoutes(mux)

	schema, err := gql.NewSchema(deps.Service, deps.Logger)
	if err != nil {
		return fmt.Errorf("failed to build graphql schema: %w", err)
	}
	mux.Handle(cfg.GraphQL.Path, gql.NewHandler(&schema, cfg.GraphQL.GraphiQL))

	if cfg.Telemetry.Metrics.Enabled {
		mux.Handle(cfg.Telemetry.Metrics.Path, promhttp.Handler())
	}
	return nil
}

// SetupHttpServer creates and configures the HTTP server of the CRM.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) (*http.Server, error) {
	handler, err := SetupHttpHandler(deps, cfg)
	if err != nil {
		return nil, err
	}

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, handler), nil
}
