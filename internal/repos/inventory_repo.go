package repos

import (
	"context"
	"database/sql"
	"math"

	"counterpos/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// MaxStockDelta bounds a single movement so stock_quantity stays a 32-bit
// integer and SQLite never promotes it to REAL.
const MaxStockDelta = math.MaxInt32

// InventoryRepo owns every write to products.stock_quantity.
type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// Qty returns current stock for a product, or domain.ErrNotFound.
func (r *InventoryRepo) Qty(ctx context.Context, q sqlx.QueryerContext, productID string) (int, error) {
	if q == nil {
		q = r.db
	}
	var qty int
	err := sqlx.GetContext(ctx, q, &qty, `SELECT stock_quantity FROM products WHERE id = ?`, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errors.Wrapf(domain.ErrNotFound, "product %s", productID)
	}
	if err != nil {
		return 0, errors.Wrapf(err, "read stock %s", productID)
	}
	return qty, nil
}

// Adjust applies mv.Delta to the product's stock and records the movement,
// both through q. A negative delta only succeeds if enough stock exists at
// the moment of the write; otherwise *domain.InsufficientStockError is
// returned and nothing changes. Returns the resulting quantity.
func (r *InventoryRepo) Adjust(ctx context.Context, q sqlx.ExtContext, mv *domain.StockMovement) (int, error) {
	if mv.Delta == 0 {
		return 0, domain.InvalidInput("stock delta must not be zero")
	}
	if mv.Delta > MaxStockDelta || mv.Delta < -MaxStockDelta {
		return 0, domain.InvalidInput("stock delta %d out of range", mv.Delta)
	}
	ts := now()

	var (
		qty int
		err error
	)
	if mv.Delta < 0 {
		by := -mv.Delta
		err = q.QueryRowxContext(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity - ?, updated_at = ?
			WHERE id = ? AND stock_quantity >= ?
			RETURNING stock_quantity
		`, by, ts, mv.ProductID, by).Scan(&qty)
		if errors.Is(err, sql.ErrNoRows) {
			available, qerr := r.Qty(ctx, q, mv.ProductID)
			if qerr != nil {
				return 0, qerr
			}
			return 0, &domain.InsufficientStockError{ProductID: mv.ProductID, Available: available, Requested: by}
		}
	} else {
		err = q.QueryRowxContext(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity + ?, updated_at = ?
			WHERE id = ? AND stock_quantity <= ?
			RETURNING stock_quantity
		`, mv.Delta, ts, mv.ProductID, MaxStockDelta-mv.Delta).Scan(&qty)
		if errors.Is(err, sql.ErrNoRows) {
			current, qerr := r.Qty(ctx, q, mv.ProductID)
			if qerr != nil {
				return 0, qerr
			}
			return 0, domain.InvalidInput("stock of %s would exceed %d (now %d)", mv.ProductID, MaxStockDelta, current)
		}
	}
	if err != nil {
		return 0, errors.Wrapf(err, "adjust stock %s", mv.ProductID)
	}

	if mv.ID == "" {
		mv.ID = uuid.NewString()
	}
	mv.ResultingQuantity = qty
	mv.CreatedAt = ts
	if _, err := q.ExecContext(ctx, `
		INSERT INTO stock_movements(id, product_id, delta, reason, note, sale_id, staff_user_id, resulting_quantity, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, mv.ID, mv.ProductID, mv.Delta, mv.Reason, mv.Note, mv.SaleID, mv.StaffUserID, mv.ResultingQuantity, mv.CreatedAt); err != nil {
		return 0, errors.Wrap(err, "record stock movement")
	}
	return qty, nil
}

// Movements lists the stock history of one product, oldest first.
func (r *InventoryRepo) Movements(ctx context.Context, productID string) ([]domain.StockMovement, error) {
	out := []domain.StockMovement{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, product_id, delta, reason, note, sale_id, staff_user_id, resulting_quantity, created_at
		FROM stock_movements
		WHERE product_id = ?
		ORDER BY created_at, rowid
	`, productID)
	if err != nil {
		return nil, errors.Wrap(err, "list stock movements")
	}
	return out, nil
}
