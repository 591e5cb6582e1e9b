package store

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	apperrors "github.com/abgdnv/gocrm/internal/errors"
	"github.com/abgdnv/gocrm/internal/store/db"
	"github.com/abgdnv/gocrm/internal/store/migrations"
	"github.com/abgdnv/gocrm/pkg/bootstrap"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const skipIntegrationTests = "CRM_SKIP_INTEGRATION_TESTS"

type PgStoreSuite struct {
	suite.Suite
	pgContainer *postgres.PostgresContainer
	dbPool      *pgxpool.Pool
	store       Store
	logger      *slog.Logger
	ctx         context.Context
}

func (s *PgStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:17.5-alpine",
		postgres.WithDatabase("crm_db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to run PostgreSQL container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get connection string from container")

	s.dbPool, err = bootstrap.NewDbPool(s.ctx, connStr, 30*time.Second)
	require.NoError(s.T(), err, "Failed to create pgxpool")

	require.NoError(s.T(), migrations.Up(connStr), "Failed to apply migrations")
	s.logger.Info("Migrations applied for integration tests")

	s.store = NewPgStore(s.dbPool)
}

func (s *PgStoreSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Warn("failed to terminate PostgreSQL container", "error", err)
		}
	}
}

func (s *PgStoreSuite) SetupTest() {
	require.NoError(s.T(), s.store.Truncate(s.ctx), "Failed to truncate tables")
}

func TestPgStoreIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(PgStoreSuite))
}

func (s *PgStoreSuite) createCustomer(name, email string) *db.Customer {
	s.T().Helper()
	c, err := s.store.CreateCustomer(s.ctx, db.CreateCustomerParams{Name: name, Email: email})
	require.NoError(s.T(), err)
	return c
}

func (s *PgStoreSuite) createProduct(name, price string, stock int32) *db.Product {
	s.T().Helper()
	p, err := s.store.CreateProduct(s.ctx, db.CreateProductParams{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	})
	require.NoError(s.T(), err)
	return p
}

func (s *PgStoreSuite) TestCreateCustomer_DuplicateEmail() {
	// given
	s.createCustomer("Alice", "alice@example.com")

	// when
	_, err := s.store.CreateCustomer(s.ctx, db.CreateCustomerParams{Name: "Other", Email: "alice@example.com"})

	// then
	require.ErrorIs(s.T(), err, apperrors.ErrEmailExists)
	require.ErrorIs(s.T(), err, apperrors.ErrConflict)
}

func (s *PgStoreSuite) TestCreateCustomers_SkipsExistingEmails() {
	// given
	s.createCustomer("Alice", "alice@example.com")
	phone := "+15550001111"

	// when
	created, err := s.store.CreateCustomers(s.ctx, []db.CreateCustomerIfAbsentParams{
		{Name: "Alice again", Email: "alice@example.com"},
		{Name: "Bob", Email: "bob@example.com", Phone: &phone},
	})

	// then
	require.NoError(s.T(), err)
	require.Len(s.T(), created, 2)
	assert.Nil(s.T(), created[0])
	require.NotNil(s.T(), created[1])
	assert.Equal(s.T(), "Bob", created[1].Name)
	assert.Equal(s.T(), &phone, created[1].Phone)

	all, err := s.store.ListCustomers(s.ctx, CustomerFilter{})
	require.NoError(s.T(), err)
	assert.Len(s.T(), all, 2)
}

func (s *PgStoreSuite) TestCreateOrder_AndFindByID() {
	// given
	customer := s.createCustomer("John Doe", "john@example.com")
	laptop := s.createProduct("Laptop Pro", "1200.00", 50)
	mouse := s.createProduct("Wireless Mouse", "25.50", 200)
	total := laptop.Price.Add(mouse.Price)

	// when
	order, err := s.store.CreateOrder(s.ctx, db.CreateOrderParams{
		CustomerID:  customer.ID,
		TotalAmount: total,
	}, []uuid.UUID{laptop.ID, mouse.ID})

	// then
	require.NoError(s.T(), err)
	assert.True(s.T(), decimal.RequireFromString("1225.50").Equal(order.TotalAmount))
	assert.WithinDuration(s.T(), time.Now(), order.OrderDate, time.Minute)

	details, err := s.store.FindOrderByID(s.ctx, order.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), customer.ID, details.Customer.ID)
	require.Len(s.T(), details.Products, 2)
	assert.Equal(s.T(), "Laptop Pro", details.Products[0].Name)
	assert.Equal(s.T(), "Wireless Mouse", details.Products[1].Name)
}

func (s *PgStoreSuite) TestCreateOrder_ExplicitOrderDate() {
	// given
	customer := s.createCustomer("John Doe", "john@example.com")
	product := s.createProduct("Laptop Pro", "1200.00", 50)
	orderDate := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	// when
	order, err := s.store.CreateOrder(s.ctx, db.CreateOrderParams{
		CustomerID:  customer.ID,
		TotalAmount: product.Price,
		OrderDate:   &orderDate,
	}, []uuid.UUID{product.ID})

	// then
	require.NoError(s.T(), err)
	assert.True(s.T(), orderDate.Equal(order.OrderDate))
}

func (s *PgStoreSuite) TestCreateOrder_UnknownProductRollsBack() {
	// given
	customer := s.createCustomer("John Doe", "john@example.com")
	product := s.createProduct("Laptop Pro", "1200.00", 50)

	// when
	_, err := s.store.CreateOrder(s.ctx, db.CreateOrderParams{
		CustomerID:  customer.ID,
		TotalAmount: product.Price,
	}, []uuid.UUID{product.ID, uuid.New()})

	// then
	require.ErrorIs(s.T(), err, apperrors.ErrInvalidProductIDs)
	orders, err := s.store.ListOrders(s.ctx, OrderFilter{})
	require.NoError(s.T(), err)
	assert.Empty(s.T(), orders, "no order must survive a failed association")
}

func (s *PgStoreSuite) TestFindByID_NotFound() {
	_, err := s.store.FindCustomerByID(s.ctx, uuid.New())
	require.ErrorIs(s.T(), err, apperrors.ErrCustomerNotFound)

	_, err = s.store.FindProductByID(s.ctx, uuid.New())
	require.ErrorIs(s.T(), err, apperrors.ErrProductNotFound)

	_, err = s.store.FindOrderByID(s.ctx, uuid.New())
	require.ErrorIs(s.T(), err, apperrors.ErrOrderNotFound)
}

func (s *PgStoreSuite) TestFindProductsByIDs() {
	// given
	a := s.createProduct("A", "1.00", 1)
	b := s.createProduct("B", "2.00", 2)

	// when
	found, err := s.store.FindProductsByIDs(s.ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})

	// then
	require.NoError(s.T(), err)
	assert.Len(s.T(), found, 2)
}

func (s *PgStoreSuite) TestRestockProducts() {
	// given
	low := s.createProduct("Low", "5.00", 3)
	edge := s.createProduct("Edge", "5.00", 10)
	empty := s.createProduct("Empty", "5.00", 0)

	// when
	updated, err := s.store.RestockProducts(s.ctx, 10, 10)

	// then
	require.NoError(s.T(), err)
	stocks := make(map[uuid.UUID]int32)
	for _, p := range updated {
		stocks[p.ID] = p.Stock
	}
	assert.Len(s.T(), stocks, 2)
	assert.Equal(s.T(), int32(13), stocks[low.ID])
	assert.Equal(s.T(), int32(10), stocks[empty.ID])

	unchanged, err := s.store.FindProductByID(s.ctx, edge.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int32(10), unchanged.Stock)
}

func (s *PgStoreSuite) TestListProducts_Filters() {
	// given
	s.createProduct("Laptop Pro", "1200.00", 50)
	s.createProduct("Wireless Mouse", "25.50", 5)
	s.createProduct("Mechanical Keyboard", "75.00", 100)

	lowStock := true
	minPrice := decimal.RequireFromString("50")
	name := "o"

	testCases := []struct {
		name     string
		filter   ProductFilter
		expected []string
	}{
		{name: "low stock", filter: ProductFilter{LowStock: &lowStock}, expected: []string{"Wireless Mouse"}},
		{name: "price gte ordered by price", filter: ProductFilter{PriceGte: &minPrice, Page: Page{OrderBy: "price"}},
			expected: []string{"Mechanical Keyboard", "Laptop Pro"}},
		{name: "name contains, descending", filter: ProductFilter{NameIContains: &name, Page: Page{OrderBy: "-name"}},
			expected: []string{"Wireless Mouse", "Laptop Pro"}},
		{name: "limit and offset", filter: ProductFilter{Page: Page{OrderBy: "name", Limit: 1, Offset: 1}},
			expected: []string{"Mechanical Keyboard"}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			// when
			products, err := s.store.ListProducts(s.ctx, tc.filter)

			// then
			require.NoError(s.T(), err)
			names := make([]string, 0, len(products))
			for _, p := range products {
				names = append(names, p.Name)
			}
			assert.Equal(s.T(), tc.expected, names)
		})
	}
}

func (s *PgStoreSuite) TestListCustomers_PhoneStartsWithAndInvalidOrder() {
	// given
	us, uk := "+15551234567", "+447700900123"
	_, err := s.store.CreateCustomer(s.ctx, db.CreateCustomerParams{Name: "John", Email: "john@example.com", Phone: &us})
	require.NoError(s.T(), err)
	_, err = s.store.CreateCustomer(s.ctx, db.CreateCustomerParams{Name: "Jane", Email: "jane@example.com", Phone: &uk})
	require.NoError(s.T(), err)
	prefix := "+1"

	// when
	customers, err := s.store.ListCustomers(s.ctx, CustomerFilter{PhoneStartsWith: &prefix})

	// then
	require.NoError(s.T(), err)
	require.Len(s.T(), customers, 1)
	assert.Equal(s.T(), "John", customers[0].Name)

	_, err = s.store.ListCustomers(s.ctx, CustomerFilter{Page: Page{OrderBy: "phone; DROP TABLE customers"}})
	require.ErrorIs(s.T(), err, apperrors.ErrInvalidOrderBy)
}

func (s *PgStoreSuite) TestListOrders_FiltersAndStats() {
	// given
	john := s.createCustomer("John Doe", "john@example.com")
	jane := s.createCustomer("Jane Smith", "jane@example.com")
	laptop := s.createProduct("Laptop Pro", "1200.00", 50)
	mouse := s.createProduct("Wireless Mouse", "25.50", 200)

	_, err := s.store.CreateOrder(s.ctx, db.CreateOrderParams{CustomerID: john.ID, TotalAmount: laptop.Price.Add(mouse.Price)},
		[]uuid.UUID{laptop.ID, mouse.ID})
	require.NoError(s.T(), err)
	_, err = s.store.CreateOrder(s.ctx, db.CreateOrderParams{CustomerID: jane.ID, TotalAmount: mouse.Price},
		[]uuid.UUID{mouse.ID})
	require.NoError(s.T(), err)

	customerName := "john"
	productName := "mouse"
	minTotal := decimal.RequireFromString("100")

	// when
	byCustomer, err := s.store.ListOrders(s.ctx, OrderFilter{CustomerName: &customerName})
	require.NoError(s.T(), err)
	byProductName, err := s.store.ListOrders(s.ctx, OrderFilter{ProductName: &productName})
	require.NoError(s.T(), err)
	byProductID, err := s.store.ListOrders(s.ctx, OrderFilter{HasProductID: &laptop.ID})
	require.NoError(s.T(), err)
	byTotal, err := s.store.ListOrders(s.ctx, OrderFilter{TotalAmountGte: &minTotal})
	require.NoError(s.T(), err)
	stats, err := s.store.Stats(s.ctx)
	require.NoError(s.T(), err)

	// then
	require.Len(s.T(), byCustomer, 1)
	assert.Equal(s.T(), john.ID, byCustomer[0].Customer.ID)
	assert.Len(s.T(), byCustomer[0].Products, 2)
	assert.Len(s.T(), byProductName, 2, "each matching order appears once")
	require.Len(s.T(), byProductID, 1)
	assert.Equal(s.T(), john.ID, byProductID[0].Order.CustomerID)
	assert.Len(s.T(), byTotal, 1)

	assert.Equal(s.T(), int64(2), stats.TotalCustomers)
	assert.Equal(s.T(), int64(2), stats.TotalOrders)
	assert.True(s.T(), decimal.RequireFromString("1251.00").Equal(stats.TotalRevenue))
}
