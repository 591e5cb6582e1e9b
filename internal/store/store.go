// Package store provides the persistence layer of the CRM.
package store

import (
	"context"
	"time"

	"github.com/abgdnv/gocrm/internal/store/db"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Page holds ordering and pagination options shared by every listing.
type Page struct {
	// OrderBy is an API field name, optionally prefixed with "-" for descending order.
	OrderBy string
	Limit   uint64
	Offset  uint64
}

// CustomerFilter narrows ListCustomers. Nil fields are ignored.
type CustomerFilter struct {
	NameIContains   *string
	EmailIContains  *string
	CreatedAtGte    *time.Time
	CreatedAtLte    *time.Time
	PhoneStartsWith *string
	Page
}

// ProductFilter narrows ListProducts. Nil fields are ignored.
type ProductFilter struct {
	NameIContains *string
	PriceGte      *decimal.Decimal
	PriceLte      *decimal.Decimal
	Stock         *int32
	StockGte      *int32
	StockLte      *int32
	LowStock      *bool
	Page
}

// OrderFilter narrows ListOrders. Nil fields are ignored.
type OrderFilter struct {
	TotalAmountGte *decimal.Decimal
	TotalAmountLte *decimal.Decimal
	OrderDateGte   *time.Time
	OrderDateLte   *time.Time
	CustomerName   *string
	ProductName    *string
	HasProductID   *uuid.UUID
	Page
}

// OrderDetails is an order together with its customer and products.
type OrderDetails struct {
	Order    db.Order
	Customer db.Customer
	Products []db.Product
}

// Stats holds the aggregate figures used by reports.
type Stats struct {
	TotalCustomers int64
	TotalOrders    int64
	TotalRevenue   decimal.Decimal
}

// CustomerStore is an interface for customer storage operations.
type CustomerStore interface {
	// CreateCustomer inserts a customer.
	// Returns ErrEmailExists if the email is already taken.
	CreateCustomer(ctx context.Context, params db.CreateCustomerParams) (*db.Customer, error)

	// CreateCustomers inserts all customers in one transaction. The result is aligned with
	// params; a nil entry means the email already existed and nothing was inserted for it.
	CreateCustomers(ctx context.Context, params []db.CreateCustomerIfAbsentParams) ([]*db.Customer, error)

	// FindCustomerByID returns ErrCustomerNotFound if no customer has the given id.
	FindCustomerByID(ctx context.Context, id uuid.UUID) (*db.Customer, error)

	ListCustomers(ctx context.Context, filter CustomerFilter) ([]db.Customer, error)
}

// ProductStore is an interface for product storage operations.
type ProductStore interface {
	CreateProduct(ctx context.Context, params db.CreateProductParams) (*db.Product, error)

	// FindProductByID returns ErrProductNotFound if no product has the given id.
	FindProductByID(ctx context.Context, id uuid.UUID) (*db.Product, error)

	// FindProductsByIDs returns the products that exist among ids, in no particular order.
	FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]db.Product, error)

	// RestockProducts adds increment to the stock of every product whose stock is below
	// threshold and returns the updated products.
	RestockProducts(ctx context.Context, threshold, increment int32) ([]db.Product, error)

	ListProducts(ctx context.Context, filter ProductFilter) ([]db.Product, error)
}

// OrderStore is an interface for order storage operations.
type OrderStore interface {
	// CreateOrder inserts the order and its product associations atomically.
	CreateOrder(ctx context.Context, params db.CreateOrderParams, productIDs []uuid.UUID) (*db.Order, error)

	// FindOrderByID returns ErrOrderNotFound if no order has the given id.
	FindOrderByID(ctx context.Context, id uuid.UUID) (*OrderDetails, error)

	ListOrders(ctx context.Context, filter OrderFilter) ([]OrderDetails, error)

	Stats(ctx context.Context) (*Stats, error)
}

// Store is the complete storage contract of the CRM.
type Store interface {
	CustomerStore
	ProductStore
	OrderStore

	// Truncate removes every record. Used by the seeder and tests.
	Truncate(ctx context.Context) error
}
