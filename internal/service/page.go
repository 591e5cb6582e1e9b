package service

import (
	apperrors "github.com/abgdnv/gocrm/internal/errors"
	"github.com/abgdnv/gocrm/internal/store"
)

const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// normalizePage applies the default page size and rejects oversized pages.
func normalizePage(p *store.Page) error {
	if p.Limit == 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		return apperrors.ErrInvalidPageLimit
	}
	return nil
}
