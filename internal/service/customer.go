package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	apperrors "github.com/abgdnv/gocrm/internal/errors"
	"github.com/abgdnv/gocrm/internal/store"
	"github.com/abgdnv/gocrm/internal/store/db"
	"github.com/google/uuid"
)

// CustomerCreatedMessage accompanies every successfully created customer.
const CustomerCreatedMessage = "Customer created successfully!"

func (s *Service) CreateCustomer(ctx context.Context, in CustomerInput) (*CreateCustomerResult, error) {
	in = normalizeCustomer(in)
	if err := s.checkCustomer(in); err != nil {
		return nil, err
	}

	c, err := s.store.CreateCustomer(ctx, db.CreateCustomerParams{Name: in.Name, Email: in.Email, Phone: in.Phone})
	if err != nil {
		return nil, err
	}
	s.customersCounter.Add(ctx, 1)

	return &CreateCustomerResult{Customer: toCustomerDto(c), Message: CustomerCreatedMessage}, nil
}

type recordError struct {
	position int
	message  string
}

func (s *Service) BulkCreateCustomers(ctx context.Context, in []CustomerInput) (*BulkCreateResult, error) {
	var rejected []recordError
	reject := func(position int, format string, args ...any) {
		rejected = append(rejected, recordError{position: position, message: fmt.Sprintf(format, args...)})
	}

	params := make([]db.CreateCustomerIfAbsentParams, 0, len(in))
	positions := make([]int, 0, len(in))
	seen := make(map[string]struct{}, len(in))

	for i, rec := range in {
		position := i + 1
		rec = normalizeCustomer(rec)
		if err := s.checkCustomer(rec); err != nil {
			if errors.Is(err, apperrors.ErrInvalidPhone) {
				reject(position, "Record %d: Invalid phone number format.", position)
			} else {
				reject(position, "Record %d: %s", position, err.Error())
			}
			continue
		}
		if _, dup := seen[rec.Email]; dup {
			reject(position, "Record %d: Email '%s' already exists.", position, rec.Email)
			continue
		}
		seen[rec.Email] = struct{}{}
		params = append(params, db.CreateCustomerIfAbsentParams{Name: rec.Name, Email: rec.Email, Phone: rec.Phone})
		positions = append(positions, position)
	}

	result := &BulkCreateResult{Customers: []CustomerDto{}, Errors: []string{}}
	if len(params) > 0 {
		created, err := s.store.CreateCustomers(ctx, params)
		if err != nil {
			return nil, err
		}
		for i, c := range created {
			if c == nil {
				reject(positions[i], "Record %d: Email '%s' already exists.", positions[i], params[i].Email)
				continue
			}
			result.Customers = append(result.Customers, toCustomerDto(c))
		}
	}

	slices.SortStableFunc(rejected, func(a, b recordError) int { return cmp.Compare(a.position, b.position) })
	for _, r := range rejected {
		result.Errors = append(result.Errors, r.message)
	}
	if n := len(result.Customers); n > 0 {
		s.customersCounter.Add(ctx, int64(n))
	}
	s.logger.InfoContext(ctx, "Bulk customer creation finished",
		"requested", len(in), "created", len(result.Customers), "rejected", len(result.Errors))

	return result, nil
}

func (s *Service) FindCustomerByID(ctx context.Context, id uuid.UUID) (*CustomerDto, error) {
	c, err := s.store.FindCustomerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toCustomerDto(c)
	return &dto, nil
}

func (s *Service) ListCustomers(ctx context.Context, filter store.CustomerFilter) ([]CustomerDto, error) {
	if err := normalizePage(&filter.Page); err != nil {
		return nil, err
	}
	customers, err := s.store.ListCustomers(ctx, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]CustomerDto, 0, len(customers))
	for i := range customers {
		dtos = append(dtos, toCustomerDto(&customers[i]))
	}
	return dtos, nil
}

// normalizeCustomer trims the input and treats an empty phone as absent.
func normalizeCustomer(in CustomerInput) CustomerInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		in.Phone = &phone
		if phone == "" {
			in.Phone = nil
		}
	}
	return in
}

func (s *Service) checkCustomer(in CustomerInput) error {
	if err := s.validate.Var(in.Name, "required,max=100"); err != nil {
		return apperrors.ErrInvalidName
	}
	if err := s.validate.Var(in.Email, "required,email,max=254"); err != nil {
		return apperrors.ErrInvalidEmail
	}
	if in.Phone != nil && !ValidPhone(*in.Phone) {
		return apperrors.ErrInvalidPhone
	}
	return nil
}
