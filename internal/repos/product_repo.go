package repos

import (
	"context"
	"database/sql"

	"counterpos/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
    id, name, sku, category, price, cost_price, stock_quantity, low_stock_threshold,
    is_active, created_at, updated_at`

// List returns the catalog ordered by name; inactive products are included
// only when includeInactive is set.
func (r *ProductRepo) List(ctx context.Context, includeInactive bool) ([]domain.Product, error) {
	q := `SELECT` + productCols + ` FROM products`
	if !includeInactive {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY LOWER(name)`

	out := []domain.Product{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return out, nil
}

// Get reads a product through q, which may be the pool or an open transaction.
// A missing row is reported as domain.ErrNotFound.
func (r *ProductRepo) Get(ctx context.Context, q sqlx.QueryerContext, id string) (domain.Product, error) {
	if q == nil {
		q = r.db
	}
	var p domain.Product
	err := sqlx.GetContext(ctx, q, &p, `SELECT`+productCols+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, errors.Wrapf(domain.ErrNotFound, "product %s", id)
	}
	if err != nil {
		return domain.Product{}, errors.Wrapf(err, "get product %s", id)
	}
	return p, nil
}

// LowStock lists active products at or below their own threshold; a
// threshold <= 0 means the default.
func (r *ProductRepo) LowStock(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.SelectContext(ctx, &out, `SELECT`+productCols+`
	  FROM products
	  WHERE is_active = 1
	    AND stock_quantity <= CASE WHEN low_stock_threshold <= 0 THEN ? ELSE low_stock_threshold END
	  ORDER BY stock_quantity, LOWER(name)`, domain.DefaultLowStockThreshold)
	if err != nil {
		return nil, errors.Wrap(err, "list low stock")
	}
	return out, nil
}
