package service

import (
	"context"
	"errors"

	apperrors "github.com/abgdnv/gocrm/internal/errors"
	"github.com/abgdnv/gocrm/internal/store"
	"github.com/abgdnv/gocrm/internal/store/db"
	"github.com/abgdnv/gocrm/pkg/messaging/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (s *Service) PlaceOrder(ctx context.Context, in OrderInput) (*OrderDto, error) {
	customer, err := s.store.FindCustomerByID(ctx, in.CustomerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCustomerNotFound) {
			return nil, apperrors.ErrInvalidCustomerID
		}
		return nil, err
	}

	if len(in.ProductIDs) == 0 {
		return nil, apperrors.ErrNoProducts
	}

	// Duplicated ids resolve to fewer products than requested and are rejected as well.
	products, err := s.store.FindProductsByIDs(ctx, in.ProductIDs)
	if err != nil {
		return nil, err
	}
	if len(products) != len(in.ProductIDs) {
		return nil, apperrors.ErrInvalidProductIDs
	}

	total := decimal.Zero
	byID := make(map[uuid.UUID]db.Product, len(products))
	for _, p := range products {
		total = total.Add(p.Price)
		byID[p.ID] = p
	}

	order, err := s.store.CreateOrder(ctx, db.CreateOrderParams{
		CustomerID:  customer.ID,
		TotalAmount: total,
		OrderDate:   in.OrderDate,
	}, in.ProductIDs)
	if err != nil {
		return nil, err
	}

	ordered := make([]db.Product, 0, len(in.ProductIDs))
	for _, id := range in.ProductIDs {
		ordered = append(ordered, byID[id])
	}

	event := events.OrderCreatedEvent{
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		ProductIDs:  in.ProductIDs,
		TotalAmount: order.TotalAmount,
		OrderDate:   order.OrderDate,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish OrderCreatedEvent", "order_id", order.ID, "error", err)
	}
	s.ordersCounter.Add(ctx, 1)

	dto := toOrderDto(&store.OrderDetails{Order: *order, Customer: *customer, Products: ordered})
	return &dto, nil
}

func (s *Service) FindOrderByID(ctx context.Context, id uuid.UUID) (*OrderDto, error) {
	details, err := s.store.FindOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toOrderDto(details)
	return &dto, nil
}

func (s *Service) ListOrders(ctx context.Context, filter store.OrderFilter) ([]OrderDto, error) {
	if err := normalizePage(&filter.Page); err != nil {
		return nil, err
	}
	orders, err := s.store.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]OrderDto, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, toOrderDto(&orders[i]))
	}
	return dtos, nil
}

func (s *Service) Stats(ctx context.Context) (*StatsDto, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsDto{
		TotalCustomers: stats.TotalCustomers,
		TotalOrders:    stats.TotalOrders,
		TotalRevenue:   stats.TotalRevenue,
	}, nil
}
