package gql

import (
	"context"
	"errors"
	"log/slog"

	apperrors "github.com/abgdnv/gocrm/internal/errors"
)

// Error codes reported in the "extensions.code" field of GraphQL errors.
const (
	CodeNotFound   = "NOT_FOUND"
	CodeValidation = "VALIDATION_ERROR"
	CodeConflict   = "CONFLICT"
	CodeInternal   = "INTERNAL"
)

// codedError is a resolver error exposing its code through graphql-go's ExtendedError.
type codedError struct {
	err  error
	code string
}

func (e *codedError) Error() string { return e.err.Error() }

func (e *codedError) Unwrap() error { return e.err }

func (e *codedError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

var errInternal = errors.New("Internal server error.")

// toGraphQLError keeps domain messages and hides everything else.
func toGraphQLError(ctx context.Context, logger *slog.Logger, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return &codedError{err: err, code: CodeNotFound}
	case errors.Is(err, apperrors.ErrValidation):
		return &codedError{err: err, code: CodeValidation}
	case errors.Is(err, apperrors.ErrConflict):
		return &codedError{err: err, code: CodeConflict}
	}
	logger.ErrorContext(ctx, "Resolver failed", "error", err)
	return &codedError{err: errInternal, code: CodeInternal}
}
