package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	cerrors "github.com/silkyway/catalog/internal/catalog/errors"
)

// psq builds queries with PostgreSQL $-placeholders.
var psq = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var productColumns = []string{"id", "name", "description", "price", "stock"}

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// FindAll retrieves all products ordered by ascending ID.
func (p *PgStore) FindAll(ctx context.Context) ([]Product, error) {
	query, args, err := psq.Select(productColumns...).
		From("products").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return p.queryProducts(ctx, query, args)
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	query, args, err := psq.Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var product Product
	err = p.db.QueryRow(ctx, query, args...).
		Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cerrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return &product, nil
}

// Create adds a new product; the id comes from the table's sequence and is never reused.
func (p *PgStore) Create(ctx context.Context, name, description string, price float64, stock int) (*Product, error) {
	query, args, err := psq.Insert("products").
		Columns("name", "description", "price", "stock").
		Values(name, description, price, stock).
		Suffix("RETURNING id, name, description, price, stock").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var product Product
	err = p.db.QueryRow(ctx, query, args...).
		Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.Stock)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// Update applies a partial update, touching only the fields present in the patch.
// Returns ErrEmptyUpdate for an empty patch and ErrProductNotFound when no row matches.
func (p *PgStore) Update(ctx context.Context, id int64, patch ProductPatch) (*Product, error) {
	query, args, err := buildUpdateQuery(id, patch)
	if err != nil {
		return nil, err
	}

	var product Product
	err = p.db.QueryRow(ctx, query, args...).
		Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cerrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &product, nil
}

// buildUpdateQuery assembles the UPDATE statement for the non-nil patch fields.
func buildUpdateQuery(id int64, patch ProductPatch) (string, []any, error) {
	if patch.Empty() {
		return "", nil, cerrors.ErrEmptyUpdate
	}

	qb := psq.Update("products")
	if patch.Name != nil {
		qb = qb.Set("name", *patch.Name)
	}
	if patch.Description != nil {
		qb = qb.Set("description", *patch.Description)
	}
	if patch.Price != nil {
		qb = qb.Set("price", *patch.Price)
	}
	if patch.Stock != nil {
		qb = qb.Set("stock", *patch.Stock)
	}
	query, args, err := qb.Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, name, description, price, stock").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build query: %w", err)
	}
	return query, args, nil
}

// DeleteByID removes a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) DeleteByID(ctx context.Context, id int64) error {
	query, args, err := psq.Delete("products").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	tag, err := p.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cerrors.ErrProductNotFound
	}
	return nil
}

// Search returns products whose name contains the keyword, case-insensitively.
func (p *PgStore) Search(ctx context.Context, keyword string) ([]Product, error) {
	query, args, err := psq.Select(productColumns...).
		From("products").
		Where(sq.ILike{"name": "%" + keyword + "%"}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return p.queryProducts(ctx, query, args)
}

// LowStock returns products with stock strictly below the threshold.
func (p *PgStore) LowStock(ctx context.Context, threshold int) ([]Product, error) {
	query, args, err := psq.Select(productColumns...).
		From("products").
		Where(sq.Lt{"stock": threshold}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return p.queryProducts(ctx, query, args)
}

// queryProducts runs a multi-row select and scans the result set.
func (p *PgStore) queryProducts(ctx context.Context, query string, args []any) ([]Product, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var product Product
		if err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product rows: %w", err)
	}
	return products, nil
}
