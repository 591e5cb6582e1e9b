package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	apperrors "github.com/abgdnv/gocrm/internal/errors"
	"github.com/abgdnv/gocrm/internal/store/db"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgStore struct {
	db *pgxpool.Pool
	q  *db.Queries
}

// NewPgStore creates a new Store on top of a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: dbp,
		q:  db.New(dbp),
	}
}

func (p *PgStore) CreateCustomer(ctx context.Context, params db.CreateCustomerParams) (*db.Customer, error) {
	c, err := p.q.CreateCustomer(ctx, params)
	if err != nil {
		if isViolation(err, pgerrcode.UniqueViolation) {
			return nil, apperrors.ErrEmailExists
		}
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return &c, nil
}

func (p *PgStore) CreateCustomers(ctx context.Context, params []db.CreateCustomerIfAbsentParams) ([]*db.Customer, error) {
	created := make([]*db.Customer, len(params))

	txErr := p.withTransaction(ctx, func(qtx *db.Queries) error {
		for i, arg := range params {
			c, err := qtx.CreateCustomerIfAbsent(ctx, arg)
			if err != nil {
				// ON CONFLICT DO NOTHING returns no row for an existing email.
				if errors.Is(err, pgx.ErrNoRows) {
					continue
				}
				return fmt.Errorf("create customer %d: %w", i+1, err)
			}
			created[i] = &c
		}
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}
	return created, nil
}

func (p *PgStore) FindCustomerByID(ctx context.Context, id uuid.UUID) (*db.Customer, error) {
	c, err := p.q.FindCustomerByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return &c, nil
}

func (p *PgStore) ListCustomers(ctx context.Context, filter CustomerFilter) ([]db.Customer, error) {
	q, err := customersQuery(filter)
	if err != nil {
		return nil, err
	}
	return collect[db.Customer](ctx, p.db, q)
}

func (p *PgStore) CreateProduct(ctx context.Context, params db.CreateProductParams) (*db.Product, error) {
	product, err := p.q.CreateProduct(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &product, nil
}

func (p *PgStore) FindProductByID(ctx context.Context, id uuid.UUID) (*db.Product, error) {
	product, err := p.q.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

func (p *PgStore) FindProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]db.Product, error) {
	products, err := p.q.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return products, nil
}

func (p *PgStore) RestockProducts(ctx context.Context, threshold, increment int32) ([]db.Product, error) {
	products, err := p.q.RestockProducts(ctx, db.RestockProductsParams{
		Increment: increment,
		Threshold: threshold,
	})
	if err != nil {
		return nil, fmt.Errorf("restock products: %w", err)
	}
	return products, nil
}

func (p *PgStore) ListProducts(ctx context.Context, filter ProductFilter) ([]db.Product, error) {
	q, err := productsQuery(filter)
	if err != nil {
		return nil, err
	}
	return collect[db.Product](ctx, p.db, q)
}

func (p *PgStore) CreateOrder(ctx context.Context, params db.CreateOrderParams, productIDs []uuid.UUID) (*db.Order, error) {
	var created db.Order

	txErr := p.withTransaction(ctx, func(qtx *db.Queries) error {
		order, err := qtx.CreateOrder(ctx, params)
		if err != nil {
			if isViolation(err, pgerrcode.ForeignKeyViolation) {
				return apperrors.ErrInvalidCustomerID
			}
			return fmt.Errorf("create order: %w", err)
		}
		for _, productID := range productIDs {
			err = qtx.AddOrderProduct(ctx, db.AddOrderProductParams{OrderID: order.ID, ProductID: productID})
			if err != nil {
				if isViolation(err, pgerrcode.ForeignKeyViolation) {
					return apperrors.ErrInvalidProductIDs
				}
				return fmt.Errorf("add product to order: %w", err)
			}
		}
		created = order
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}
	return &created, nil
}

func (p *PgStore) FindOrderByID(ctx context.Context, id uuid.UUID) (*OrderDetails, error) {
	var details []OrderDetails

	txErr := p.withTransaction(ctx, func(qtx *db.Queries) error {
		o, err := qtx.FindOrderByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrOrderNotFound
			}
			return fmt.Errorf("find order: %w", err)
		}
		details, err = loadOrderDetails(ctx, qtx, []db.Order{o})
		return err
	})

	if txErr != nil {
		return nil, txErr
	}
	return &details[0], nil
}

func (p *PgStore) ListOrders(ctx context.Context, filter OrderFilter) ([]OrderDetails, error) {
	q, err := ordersQuery(filter)
	if err != nil {
		return nil, err
	}
	orders, err := collect[db.Order](ctx, p.db, q)
	if err != nil {
		return nil, err
	}
	return loadOrderDetails(ctx, p.q, orders)
}

func (p *PgStore) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats

	txErr := p.withTransaction(ctx, func(qtx *db.Queries) error {
		customers, err := qtx.CountCustomers(ctx)
		if err != nil {
			return fmt.Errorf("count customers: %w", err)
		}
		orders, err := qtx.OrderStats(ctx)
		if err != nil {
			return fmt.Errorf("order stats: %w", err)
		}
		stats = Stats{
			TotalCustomers: customers,
			TotalOrders:    orders.TotalOrders,
			TotalRevenue:   orders.TotalRevenue,
		}
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}
	return &stats, nil
}

func (p *PgStore) Truncate(ctx context.Context) error {
	if err := p.q.Truncate(ctx); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	return nil
}

// loadOrderDetails attaches customers and products to orders with one query each.
func loadOrderDetails(ctx context.Context, q *db.Queries, orders []db.Order) ([]OrderDetails, error) {
	details := make([]OrderDetails, 0, len(orders))
	if len(orders) == 0 {
		return details, nil
	}

	orderIDs := make([]uuid.UUID, 0, len(orders))
	customerIDs := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
		customerIDs = append(customerIDs, o.CustomerID)
	}

	customers, err := q.FindCustomersByIDs(ctx, customerIDs)
	if err != nil {
		return nil, fmt.Errorf("find order customers: %w", err)
	}
	byID := make(map[uuid.UUID]db.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}

	rows, err := q.FindOrderProducts(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("find order products: %w", err)
	}
	products := make(map[uuid.UUID][]db.Product, len(orders))
	for _, r := range rows {
		products[r.OrderID] = append(products[r.OrderID], db.Product{
			ID:        r.ID,
			Name:      r.Name,
			Price:     r.Price,
			Stock:     r.Stock,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}

	for _, o := range orders {
		details = append(details, OrderDetails{
			Order:    o,
			Customer: byID[o.CustomerID],
			Products: products[o.ID],
		})
	}
	return details, nil
}

func collect[T any](ctx context.Context, dbtx db.DBTX, q sq.SelectBuilder) ([]T, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	rows, err := dbtx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("collect rows: %w", err)
	}
	return items, nil
}

func isViolation(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func (p *PgStore) withTransaction(ctx context.Context, fn func(qtx *db.Queries) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return apperrors.ErrTransactionBegin
	}
	qtx := p.q.WithTx(tx)

	err = fn(qtx)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return apperrors.ErrTransactionRollback
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.ErrTransactionCommit
	}

	return nil
}
