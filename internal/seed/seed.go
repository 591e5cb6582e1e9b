// Package seed loads a small set of demo records into an empty CRM.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/gocrm/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Truncater wipes all CRM tables.
type Truncater interface {
	Truncate(ctx context.Context) error
}

// Service is the part of the CRM service the seeder writes through.
type Service interface {
	CreateCustomer(ctx context.Context, in service.CustomerInput) (*service.CreateCustomerResult, error)
	CreateProduct(ctx context.Context, in service.ProductInput) (*service.ProductDto, error)
	PlaceOrder(ctx context.Context, in service.OrderInput) (*service.OrderDto, error)
}

// Result summarises what was created.
type Result struct {
	Customers []service.CustomerDto
	Products  []service.ProductDto
	Orders    []service.OrderDto
}

var customers = []service.CustomerInput{
	{Name: "John Doe", Email: "john.doe@example.com", Phone: strPtr("+15551234567")},
	{Name: "Jane Smith", Email: "jane.smith@example.com"},
}

var products = []struct {
	name  string
	price string
	stock int32
}{
	{"Laptop Pro", "1200.00", 50},
	{"Wireless Mouse", "25.50", 200},
	{"Mechanical Keyboard", "75.00", 100},
}

// Run deletes all data and creates the demo customers, products and one order
// for the first customer with the first two products.
func Run(ctx context.Context, db Truncater, svc Service, logger *slog.Logger) (*Result, error) {
	logger.InfoContext(ctx, "Deleting old data...")
	if err := db.Truncate(ctx); err != nil {
		return nil, fmt.Errorf("failed to delete old data: %w", err)
	}

	logger.InfoContext(ctx, "Seeding new data...")
	var res Result
	for _, in := range customers {
		created, err := svc.CreateCustomer(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("failed to create customer %s: %w", in.Email, err)
		}
		res.Customers = append(res.Customers, created.Customer)
	}
	for _, p := range products {
		stock := p.stock
		created, err := svc.CreateProduct(ctx, service.ProductInput{
			Name:  p.name,
			Price: decimal.RequireFromString(p.price),
			Stock: &stock,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create product %s: %w", p.name, err)
		}
		res.Products = append(res.Products, *created)
	}

	order, err := svc.PlaceOrder(ctx, service.OrderInput{
		CustomerID: res.Customers[0].ID,
		ProductIDs: []uuid.UUID{res.Products[0].ID, res.Products[1].ID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	res.Orders = append(res.Orders, *order)

	logger.InfoContext(ctx, "Seeding complete",
		"customers", len(res.Customers), "products", len(res.Products), "orders", len(res.Orders))
	return &res, nil
}

func strPtr(s string) *string { return &s }
