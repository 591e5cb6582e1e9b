package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/gocrm/pkg/config"
	"github.com/machinebox/graphql"
	"github.com/sony/gobreaker/v2"
)

// Client is the part of the CRM API the jobs talk to.
type Client interface {
	Hello(ctx context.Context) (string, error)
	UpdateLowStockProducts(ctx context.Context) (*RestockReport, error)
	RecentOrders(ctx context.Context, since time.Time) ([]OrderReminder, error)
	Report(ctx context.Context) (*Report, error)
}

type RestockedProduct struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

type RestockReport struct {
	Success  bool               `json:"success"`
	Message  string             `json:"message"`
	Products []RestockedProduct `json:"updatedProducts"`
}

type OrderReminder struct {
	ID       string `json:"id"`
	Customer struct {
		Email string `json:"email"`
	} `json:"customer"`
}

// Report holds the CRM totals. Revenue is kept as returned by the API.
type Report struct {
	TotalCustomers int64  `json:"totalCustomers"`
	TotalOrders    int64  `json:"totalOrders"`
	TotalRevenue   string `json:"totalRevenue"`
}

const (
	helloQuery = `query { hello }`

	restockMutation = `mutation {
  updateLowStockProducts {
    success
    message
    updatedProducts { name stock }
  }
}`

	recentOrdersQuery = `query GetRecentOrders($since: DateTime!, $first: Int!, $offset: Int!) {
  orders(orderDate_Gte: $since, orderBy: "orderDate", first: $first, offset: $offset) {
    id
    customer { email }
  }
}`

	reportQuery = `query CrmReport {
  totalCustomers
  totalOrders
  totalRevenue
}`
)

const recentOrdersPageSize = 1000

var _ Client = (*GraphQLClient)(nil)

// GraphQLClient calls the CRM GraphQL endpoint through a circuit breaker.
type GraphQLClient struct {
	client  *graphql.Client
	breaker *gobreaker.CircuitBreaker[any]
	timeout time.Duration
	// pageSize is the orders page requested by RecentOrders, the API maximum by default.
	pageSize int
}

// NewGraphQLClient creates a client for the endpoint in cfg.
func NewGraphQLClient(cfg config.GraphQLClientConfig, cbCfg config.CircuitBreakerConfig, logger *slog.Logger) *GraphQLClient {
	client := graphql.NewClient(cfg.Endpoint, graphql.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	client.Log = func(s string) { logger.Debug(s, "component", "graphql_client") }
	return &GraphQLClient{
		client:  client,
		breaker: newCircuitBreaker(cbCfg, logger),
		timeout:  cfg.Timeout,
		pageSize: recentOrdersPageSize,
	}
}

func newCircuitBreaker(cfg config.CircuitBreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker[any] {
	st := gobreaker.Settings{
		Name:        "crm-graphql-cb",
		MaxRequests: cfg.MaxHalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures ||
				(counts.Requests > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(counts.Requests)*100 > float64(cfg.ErrorRatePercent))
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return gobreaker.NewCircuitBreaker[any](st)
}

// run executes req and decodes the data into resp.
func (c *GraphQLClient) run(ctx context.Context, req *graphql.Request, resp any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.client.Run(ctx, req, resp)
	})
	return err
}

func (c *GraphQLClient) Hello(ctx context.Context) (string, error) {
	var resp struct {
		Hello string `json:"hello"`
	}
	if err := c.run(ctx, graphql.NewRequest(helloQuery), &resp); err != nil {
		return "", fmt.Errorf("hello query failed: %w", err)
	}
	return resp.Hello, nil
}

func (c *GraphQLClient) UpdateLowStockProducts(ctx context.Context) (*RestockReport, error) {
	var resp struct {
		UpdateLowStockProducts RestockReport `json:"updateLowStockProducts"`
	}
	if err := c.run(ctx, graphql.NewRequest(restockMutation), &resp); err != nil {
		return nil, fmt.Errorf("updateLowStockProducts mutation failed: %w", err)
	}
	return &resp.UpdateLowStockProducts, nil
}

// RecentOrders pages through every order placed since the given time until a short page comes back.
func (c *GraphQLClient) RecentOrders(ctx context.Context, since time.Time) ([]OrderReminder, error) {
	var orders []OrderReminder
	for offset := 0; ; offset += c.pageSize {
		req := graphql.NewRequest(recentOrdersQuery)
		req.Var("since", since.UTC().Format(time.RFC3339))
		req.Var("first", c.pageSize)
		req.Var("offset", offset)
		var resp struct {
			Orders []OrderReminder `json:"orders"`
		}
		if err := c.run(ctx, req, &resp); err != nil {
			return nil, fmt.Errorf("orders query failed at offset %d: %w", offset, err)
		}
		orders = append(orders, resp.Orders...)
		if len(resp.Orders) < c.pageSize {
			return orders, nil
		}
	}
}

func (c *GraphQLClient) Report(ctx context.Context) (*Report, error) {
	var resp Report
	if err := c.run(ctx, graphql.NewRequest(reportQuery), &resp); err != nil {
		return nil, fmt.Errorf("report query failed: %w", err)
	}
	return &resp, nil
}
