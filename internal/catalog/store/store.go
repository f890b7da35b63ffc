// Package store provides an interface for product storage operations.
package store

import "context"

// Product represents a catalog row.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Stock       int
}

// ProductPatch is a partial update: nil fields are left unchanged.
// Unknown keys from the wire format never reach this type; transports drop
// them when decoding.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
}

// Empty reports whether the patch touches no fields.
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.Stock == nil
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindAll returns all products ordered by ascending ID.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*Product, error)

	// Create adds a new product; the store assigns a monotonically increasing ID.
	Create(ctx context.Context, name, description string, price float64, stock int) (*Product, error)

	// Update applies a partial update to an existing product.
	// Returns ErrEmptyUpdate when the patch is empty and ErrProductNotFound
	// when no product exists with the given ID.
	Update(ctx context.Context, id int64, patch ProductPatch) (*Product, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error

	// Search returns products whose name contains the keyword,
	// case-insensitively, ordered by ascending ID.
	Search(ctx context.Context, keyword string) ([]Product, error)

	// LowStock returns products with stock strictly below the threshold,
	// ordered by ascending ID.
	LowStock(ctx context.Context, threshold int) ([]Product, error)
}
