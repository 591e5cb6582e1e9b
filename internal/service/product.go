package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/abgdnv/gocrm/internal/errors"
	"github.com/abgdnv/gocrm/internal/store"
	"github.com/abgdnv/gocrm/internal/store/db"
	"github.com/google/uuid"
)

const (
	// LowStockThreshold is the stock level below which a product is restocked.
	LowStockThreshold = store.LowStockThreshold
	// RestockIncrement is added to the stock of every low-stock product.
	RestockIncrement = 10
)

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*ProductDto, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Var(in.Name, "required,max=100"); err != nil {
		return nil, apperrors.ErrInvalidName
	}
	if !in.Price.IsPositive() {
		return nil, apperrors.ErrInvalidPrice
	}
	var stock int32
	if in.Stock != nil {
		stock = *in.Stock
	}
	if stock < 0 {
		return nil, apperrors.ErrNegativeStock
	}

	p, err := s.store.CreateProduct(ctx, db.CreateProductParams{Name: in.Name, Price: in.Price, Stock: stock})
	if err != nil {
		return nil, err
	}
	dto := toProductDto(p)
	return &dto, nil
}

func (s *Service) RestockLowStock(ctx context.Context) (*RestockResult, error) {
	updated, err := s.store.RestockProducts(ctx, LowStockThreshold, RestockIncrement)
	if err != nil {
		return nil, err
	}

	message := "No products below the stock threshold."
	if len(updated) > 0 {
		message = fmt.Sprintf("Restocked %d product(s).", len(updated))
		s.restockCounter.Add(ctx, int64(len(updated)))
	}
	s.logger.InfoContext(ctx, "Low-stock restock finished", "updated", len(updated))

	return &RestockResult{Success: true, Message: message, Products: toProductDtos(updated)}, nil
}

func (s *Service) FindProductByID(ctx context.Context, id uuid.UUID) (*ProductDto, error) {
	p, err := s.store.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toProductDto(p)
	return &dto, nil
}

func (s *Service) ListProducts(ctx context.Context, filter store.ProductFilter) ([]ProductDto, error) {
	if err := normalizePage(&filter.Page); err != nil {
		return nil, err
	}
	products, err := s.store.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toProductDtos(products), nil
}
