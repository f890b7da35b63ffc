package store

import (
	"testing"

	cerrors "github.com/silkyway/catalog/internal/catalog/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_BuildUpdateQuery(t *testing.T) {
	testCases := []struct {
		name          string
		patch         ProductPatch
		expectedQuery string
		expectedArgs  []any
		expectError   error
	}{
		{
			name:        "Error - empty patch",
			patch:       ProductPatch{},
			expectError: cerrors.ErrEmptyUpdate,
		},
		{
			name:          "single field",
			patch:         ProductPatch{Price: ptr(29.99)},
			expectedQuery: "UPDATE products SET price = $1 WHERE id = $2 RETURNING id, name, description, price, stock",
			expectedArgs:  []any{29.99, int64(7)},
		},
		{
			name: "all fields in column order",
			patch: ProductPatch{
				Name:        ptr("Mouse"),
				Description: ptr("Wireless"),
				Price:       ptr(39.99),
				Stock:       ptr(20),
			},
			expectedQuery: "UPDATE products SET name = $1, description = $2, price = $3, stock = $4 WHERE id = $5 RETURNING id, name, description, price, stock",
			expectedArgs:  []any{"Mouse", "Wireless", 39.99, 20, int64(7)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			query, args, err := buildUpdateQuery(7, tc.patch)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedQuery, query)
			assert.Equal(t, tc.expectedArgs, args)
		})
	}
}
