package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	cerrors "github.com/silkyway/catalog/internal/catalog/errors"
)

// inMemory implements ProductStore using an in-memory map.
// IDs are handed out from a monotonic counter and never reused, matching the
// sequence semantics of the PostgreSQL store.
type inMemory struct {
	mu       sync.RWMutex
	products map[int64]Product
	nextID   int64
}

// NewInMemoryStore creates a new instance of ProductStore backed by process memory.
func NewInMemoryStore() ProductStore {
	return &inMemory{
		products: make(map[int64]Product),
		nextID:   1,
	}
}

// FindAll retrieves all products ordered by ascending ID.
func (s *inMemory) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(Product) bool { return true }), nil
}

// FindByID retrieves a product by its ID.
func (s *inMemory) FindByID(_ context.Context, id int64) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, cerrors.ErrProductNotFound
	}
	return &p, nil
}

// Create creates a new product and returns it.
func (s *inMemory) Create(_ context.Context, name, description string, price float64, stock int) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := Product{
		ID:          s.nextID,
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
	}
	s.nextID++
	s.products[product.ID] = product
	return &product, nil
}

// Update applies a partial update to an existing product.
func (s *inMemory) Update(_ context.Context, id int64, patch ProductPatch) (*Product, error) {
	if patch.Empty() {
		return nil, cerrors.ErrEmptyUpdate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return nil, cerrors.ErrProductNotFound
	}
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
	}
	s.products[id] = product
	return &product, nil
}

// DeleteByID removes a product by its ID.
func (s *inMemory) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return cerrors.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

// Search returns products whose name contains the keyword, case-insensitively.
func (s *inMemory) Search(_ context.Context, keyword string) ([]Product, error) {
	needle := strings.ToLower(keyword)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	}), nil
}

// LowStock returns products with stock strictly below the threshold.
func (s *inMemory) LowStock(_ context.Context, threshold int) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(p Product) bool { return p.Stock < threshold }), nil
}

// collect gathers matching products sorted by ID. Callers must hold the lock.
func (s *inMemory) collect(match func(Product) bool) []Product {
	list := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if match(p) {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
