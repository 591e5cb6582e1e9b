package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Error_Kinds(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		kind error
	}{
		{"invalid customer", ErrInvalidCustomerID, ErrNotFound},
		{"no products", ErrNoProducts, ErrValidation},
		{"invalid products", ErrInvalidProductIDs, ErrValidation},
		{"invalid phone", ErrInvalidPhone, ErrValidation},
		{"email exists", ErrEmailExists, ErrConflict},
		{"price", ErrInvalidPrice, ErrValidation},
		{"stock", ErrNegativeStock, ErrValidation},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("operation failed: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.kind)
			assert.ErrorIs(t, wrapped, tc.err)

			var domainErr *Error
			assert.True(t, errors.As(wrapped, &domainErr))
			assert.Equal(t, tc.kind, domainErr.Kind())
		})
	}
}

func Test_Error_Message(t *testing.T) {
	assert.Equal(t, "Invalid customer ID.", ErrInvalidCustomerID.Error())
	assert.NotErrorIs(t, ErrInvalidCustomerID, ErrValidation)
	assert.NotErrorIs(t, ErrNoProducts, ErrInvalidProductIDs)
}
