// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"

	cerrors "github.com/silkyway/catalog/internal/catalog/errors"
	"github.com/silkyway/catalog/internal/catalog/store"
)

// DefaultLowStockThreshold is used when a caller does not specify one.
const DefaultLowStockThreshold = 5

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindAll returns all products ordered by ascending ID.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// Create adds a new product to the catalog and returns it with the
	// store-assigned ID.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Update applies a partial update. Fields absent from the patch are left
	// unchanged. Returns ErrEmptyUpdate when the patch carries no fields and
	// ErrProductNotFound when the ID does not exist.
	Update(ctx context.Context, id int64, patch ProductUpdateDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error

	// Search returns products whose name contains the keyword, case-insensitively.
	Search(ctx context.Context, keyword string) ([]ProductDto, error)

	// LowStock returns products with stock strictly below the threshold.
	LowStock(ctx context.Context, threshold int) ([]ProductDto, error)
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore) *Service {
	return &Service{
		repository: repo,
	}
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"        validate:"required,max=100"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Stock       int     `json:"stock"       validate:"gte=0"`
}

// ProductCreateDto represents the data transfer object for creating a new product.
type ProductCreateDto struct {
	Name        string  `json:"name"        validate:"required,max=100"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Stock       int     `json:"stock"       validate:"gte=0"`
}

// ProductUpdateDto represents a partial update. Nil fields are left unchanged;
// unknown keys in the request body are dropped during decoding and never reach
// the service.
type ProductUpdateDto struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"  validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock,omitempty"  validate:"omitempty,gte=0"`
}

// FindAll retrieves all products and returns them as ProductDTOs.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return toDtoList(products), nil
}

// FindByID retrieves a product by its ID and returns it as a ProductDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}
	return toDto(product), nil
}

// Create creates a new product and returns it as a ProductDto.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	p, err := s.repository.Create(ctx, product.Name, product.Description, product.Price, product.Stock)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return toDto(p), nil
}

// Update applies a partial update and returns the updated product.
// An empty patch never reaches the store.
func (s *Service) Update(ctx context.Context, id int64, patch ProductUpdateDto) (*ProductDto, error) {
	storePatch := store.ProductPatch{
		Name:        patch.Name,
		Description: patch.Description,
		Price:       patch.Price,
		Stock:       patch.Stock,
	}
	if storePatch.Empty() {
		return nil, cerrors.ErrEmptyUpdate
	}

	updated, err := s.repository.Update(ctx, id, storePatch)
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}
	return toDto(updated), nil
}

// DeleteByID deletes a product by its ID.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	return s.repository.DeleteByID(ctx, id)
}

// Search retrieves products matching the keyword and returns them as ProductDTOs.
func (s *Service) Search(ctx context.Context, keyword string) ([]ProductDto, error) {
	products, err := s.repository.Search(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return toDtoList(products), nil
}

// LowStock retrieves products below the stock threshold as ProductDTOs.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]ProductDto, error) {
	products, err := s.repository.LowStock(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch low stock products: %w", err)
	}
	return toDtoList(products), nil
}

// toDto converts a store.Product to a ProductDto.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
	}
}

func toDtoList(products []store.Product) []ProductDto {
	productDTOs := make([]ProductDto, len(products))
	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}
	return productDTOs
}
