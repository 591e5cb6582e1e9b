package service

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/abgdnv/gocrm/internal/store"
	"github.com/abgdnv/gocrm/internal/store/db"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerInput is a candidate customer record.
type CustomerInput struct {
	Name  string  `json:"name" validate:"required,max=100"`
	Email string  `json:"email" validate:"required,email,max=254"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,phone"`
}

// Normalize trims the fields and drops a blank phone, as CreateCustomer does before validating.
func (in *CustomerInput) Normalize() {
	*in = normalizeCustomer(*in)
}

type CustomerDto struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCustomerResult is the outcome of a single customer creation.
type CreateCustomerResult struct {
	Customer CustomerDto `json:"customer"`
	Message  string      `json:"message"`
}

// BulkCreateResult holds the persisted customers and one message per rejected record.
type BulkCreateResult struct {
	Customers []CustomerDto `json:"customers"`
	Errors    []string      `json:"errors"`
}

// ProductInput is a candidate product. A nil Stock means 0.
type ProductInput struct {
	Name  string          `json:"name" validate:"required,max=100"`
	Price decimal.Decimal `json:"price"`
	Stock *int32          `json:"stock,omitempty"`
}

type ProductDto struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int32           `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// RestockResult is the outcome of a low-stock restock run.
type RestockResult struct {
	Success  bool         `json:"success"`
	Message  string       `json:"message"`
	Products []ProductDto `json:"updated_products"`
}

// OrderInput is an order placement request. A nil OrderDate means now.
type OrderInput struct {
	CustomerID uuid.UUID   `json:"customer_id"`
	ProductIDs []uuid.UUID `json:"product_ids"`
	OrderDate  *time.Time  `json:"order_date,omitempty"`
}

type OrderDto struct {
	ID          uuid.UUID       `json:"id"`
	Customer    CustomerDto     `json:"customer"`
	Products    []ProductDto    `json:"products"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OrderDate   time.Time       `json:"order_date"`
	CreatedAt   time.Time       `json:"created_at"`
}

type StatsDto struct {
	TotalCustomers int64           `json:"total_customers"`
	TotalOrders    int64           `json:"total_orders"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
}

func toCustomerDto(c *db.Customer) CustomerDto {
	return CustomerDto{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

func toProductDto(p *db.Product) ProductDto {
	return ProductDto{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toProductDtos(products []db.Product) []ProductDto {
	dtos := make([]ProductDto, 0, len(products))
	for i := range products {
		dtos = append(dtos, toProductDto(&products[i]))
	}
	return dtos
}

// compareOrderProducts orders the products of an order by name, then id.
// FindOrderProducts in the store sorts the same way.
func compareOrderProducts(a, b ProductDto) int {
	return cmp.Or(
		strings.Compare(a.Name, b.Name),
		strings.Compare(a.ID.String(), b.ID.String()),
	)
}

func toOrderDto(d *store.OrderDetails) OrderDto {
	products := toProductDtos(d.Products)
	slices.SortFunc(products, compareOrderProducts)
	return OrderDto{
		ID:          d.Order.ID,
		Customer:    toCustomerDto(&d.Customer),
		Products:    products,
		TotalAmount: d.Order.TotalAmount,
		OrderDate:   d.Order.OrderDate,
		CreatedAt:   d.Order.CreatedAt,
	}
}
