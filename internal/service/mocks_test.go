package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/abgdnv/gocrm/internal/store"
	"github.com/abgdnv/gocrm/internal/store/db"
	"github.com/abgdnv/gocrm/pkg/messaging"
	"github.com/google/uuid"
)

// mockStore is a mock implementation of the store.Store interface.
type mockStore struct {
	error error

	customer          *db.Customer
	createCustomerErr error

	existingEmails     map[string]bool
	bulkParams         []db.CreateCustomerIfAbsentParams
	createCustomersErr error

	productParams db.CreateProductParams
	products      []db.Product
	restocked     []db.Product
	restockArgs   []int32

	createOrderCalled bool
	orderParams       db.CreateOrderParams
	orderProductIDs   []uuid.UUID
	createOrderErr    error

	details      *store.OrderDetails
	detailsList  []store.OrderDetails
	stats        *store.Stats
	customerPage store.Page
}

func (m *mockStore) CreateCustomer(_ context.Context, params db.CreateCustomerParams) (*db.Customer, error) {
	if m.createCustomerErr != nil {
		return nil, m.createCustomerErr
	}
	return &db.Customer{ID: uuid.New(), Name: params.Name, Email: params.Email, Phone: params.Phone, CreatedAt: time.Now()}, nil
}

func (m *mockStore) CreateCustomers(_ context.Context, params []db.CreateCustomerIfAbsentParams) ([]*db.Customer, error) {
	m.bulkParams = params
	if m.createCustomersErr != nil {
		return nil, m.createCustomersErr
	}
	created := make([]*db.Customer, len(params))
	for i, p := range params {
		if m.existingEmails[p.Email] {
			continue
		}
		created[i] = &db.Customer{ID: uuid.New(), Name: p.Name, Email: p.Email, Phone: p.Phone, CreatedAt: time.Now()}
	}
	return created, nil
}

func (m *mockStore) FindCustomerByID(_ context.Context, _ uuid.UUID) (*db.Customer, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.customer, nil
}

func (m *mockStore) ListCustomers(_ context.Context, filter store.CustomerFilter) ([]db.Customer, error) {
	m.customerPage = filter.Page
	if m.error != nil {
		return nil, m.error
	}
	if m.customer == nil {
		return nil, nil
	}
	return []db.Customer{*m.customer}, nil
}

func (m *mockStore) CreateProduct(_ context.Context, params db.CreateProductParams) (*db.Product, error) {
	m.productParams = params
	if m.error != nil {
		return nil, m.error
	}
	return &db.Product{ID: uuid.New(), Name: params.Name, Price: params.Price, Stock: params.Stock}, nil
}

func (m *mockStore) FindProductByID(_ context.Context, _ uuid.UUID) (*db.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	return &m.products[0], nil
}

func (m *mockStore) FindProductsByIDs(_ context.Context, _ []uuid.UUID) ([]db.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.products, nil
}

func (m *mockStore) RestockProducts(_ context.Context, threshold, increment int32) ([]db.Product, error) {
	m.restockArgs = []int32{threshold, increment}
	if m.error != nil {
		return nil, m.error
	}
	return m.restocked, nil
}

func (m *mockStore) ListProducts(_ context.Context, _ store.ProductFilter) ([]db.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.products, nil
}

func (m *mockStore) CreateOrder(_ context.Context, params db.CreateOrderParams, productIDs []uuid.UUID) (*db.Order, error) {
	m.createOrderCalled = true
	m.orderParams = params
	m.orderProductIDs = productIDs
	if m.createOrderErr != nil {
		return nil, m.createOrderErr
	}
	orderDate := time.Now()
	if params.OrderDate != nil {
		orderDate = *params.OrderDate
	}
	return &db.Order{
		ID:          uuid.New(),
		CustomerID:  params.CustomerID,
		TotalAmount: params.TotalAmount,
		OrderDate:   orderDate,
		CreatedAt:   time.Now(),
	}, nil
}

func (m *mockStore) FindOrderByID(_ context.Context, _ uuid.UUID) (*store.OrderDetails, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.details, nil
}

func (m *mockStore) ListOrders(_ context.Context, _ store.OrderFilter) ([]store.OrderDetails, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.detailsList, nil
}

func (m *mockStore) Stats(_ context.Context) (*store.Stats, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.stats, nil
}

func (m *mockStore) Truncate(_ context.Context) error {
	return m.error
}

// mockPublisher records published events.
type mockPublisher struct {
	events []messaging.Event
	error  error
}

func (m *mockPublisher) Publish(_ context.Context, event messaging.Event) error {
	m.events = append(m.events, event)
	return m.error
}

func newTestService(s *mockStore, p *mockPublisher) *Service {
	if p == nil {
		p = &mockPublisher{}
	}
	return NewService(s, p, slog.New(slog.NewTextHandler(io.Discard, nil)))
}
