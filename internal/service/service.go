// Package service implements the business rules of the CRM on top of the store.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/gocrm/internal/store"
	"github.com/abgdnv/gocrm/pkg/messaging"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// CustomerService defines the customer operations.
type CustomerService interface {
	// CreateCustomer validates and stores a single customer.
	// Returns ErrInvalidPhone for a malformed phone and ErrEmailExists for a taken email.
	CreateCustomer(ctx context.Context, in CustomerInput) (*CreateCustomerResult, error)

	// BulkCreateCustomers stores every valid record and reports the others by 1-based position.
	// One bad record never aborts the rest.
	BulkCreateCustomers(ctx context.Context, in []CustomerInput) (*BulkCreateResult, error)

	FindCustomerByID(ctx context.Context, id uuid.UUID) (*CustomerDto, error)
	ListCustomers(ctx context.Context, filter store.CustomerFilter) ([]CustomerDto, error)
}

// ProductService defines the product operations.
type ProductService interface {
	CreateProduct(ctx context.Context, in ProductInput) (*ProductDto, error)

	// RestockLowStock adds RestockIncrement to every product below LowStockThreshold.
	RestockLowStock(ctx context.Context) (*RestockResult, error)

	FindProductByID(ctx context.Context, id uuid.UUID) (*ProductDto, error)
	ListProducts(ctx context.Context, filter store.ProductFilter) ([]ProductDto, error)
}

// OrderService defines the order operations.
type OrderService interface {
	// PlaceOrder validates the customer and products, totals the prices and stores the order
	// with its products atomically.
	PlaceOrder(ctx context.Context, in OrderInput) (*OrderDto, error)

	FindOrderByID(ctx context.Context, id uuid.UUID) (*OrderDto, error)
	ListOrders(ctx context.Context, filter store.OrderFilter) ([]OrderDto, error)
	Stats(ctx context.Context) (*StatsDto, error)
}

// CRMService is the full business API used by the transports.
type CRMService interface {
	CustomerService
	ProductService
	OrderService
}

// Service implements CRMService.
type Service struct {
	store     store.Store
	publisher messaging.Publisher
	validate  *validator.Validate
	logger    *slog.Logger

	ordersCounter    metric.Int64Counter
	customersCounter metric.Int64Counter
	restockCounter   metric.Int64Counter
}

// NewService creates a Service on top of the given store and event publisher.
func NewService(s store.Store, publisher messaging.Publisher, logger *slog.Logger) *Service {
	meter := otel.Meter("crm")
	ordersCounter, err := meter.Int64Counter("orders_created", metric.WithDescription("Total number of created orders"))
	if err != nil {
		panic(fmt.Sprintf("failed to create orders_created counter: %v", err))
	}
	customersCounter, err := meter.Int64Counter("customers_created", metric.WithDescription("Total number of created customers"))
	if err != nil {
		panic(fmt.Sprintf("failed to create customers_created counter: %v", err))
	}
	restockCounter, err := meter.Int64Counter("products_restocked", metric.WithDescription("Total number of restocked products"))
	if err != nil {
		panic(fmt.Sprintf("failed to create products_restocked counter: %v", err))
	}
	return &Service{
		store:            s,
		publisher:        publisher,
		validate:         NewValidator(),
		logger:           logger.With("component", "service"),
		ordersCounter:    ordersCounter,
		customersCounter: customersCounter,
		restockCounter:   restockCounter,
	}
}
