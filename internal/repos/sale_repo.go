package repos

import (
	"context"
	"database/sql"

	"counterpos/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// SaleRepo is the append-only sales ledger.
type SaleRepo struct{ db *sqlx.DB }

func NewSaleRepo(db *sqlx.DB) *SaleRepo { return &SaleRepo{db: db} }

const saleCols = `
    id, sale_number, staff_user_id, customer_name, customer_phone,
    subtotal, tax, discount, total, status, notes, created_at`

// CreateSale inserts a sale header. CreatedAt is stamped when empty.
func (r *SaleRepo) CreateSale(ctx context.Context, q sqlx.ExtContext, s *domain.Sale) error {
	if s.CreatedAt == "" {
		s.CreatedAt = now()
	}
	_, err := q.ExecContext(ctx, `
	  INSERT INTO sales
	    (id, sale_number, staff_user_id, customer_name, customer_phone, subtotal, tax, discount, total, status, notes, created_at)
	  VALUES
	    (?,  ?,           ?,             ?,             ?,              ?,        ?,   ?,        ?,     ?,      ?,     ?)
	`, s.ID, s.SaleNumber, s.StaffUserID, s.CustomerName, s.CustomerPhone,
		s.Subtotal, s.Tax, s.Discount, s.Total, s.Status, s.Notes, s.CreatedAt)
	return errors.Wrap(err, "insert sale")
}

// CreateSaleItem inserts a single line item.
func (r *SaleRepo) CreateSaleItem(ctx context.Context, q sqlx.ExtContext, it *domain.SaleItem) error {
	_, err := q.ExecContext(ctx, `
	  INSERT INTO sale_items(id, sale_id, product_id, service_id, name, quantity, unit_price, total, position)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, it.ID, it.SaleID, it.ProductID, it.ServiceID, it.Name, it.Quantity, it.UnitPrice, it.Total, it.Position)
	return errors.Wrap(err, "insert sale item")
}

// SaleNumberTaken reports whether a sale already uses number.
func (r *SaleRepo) SaleNumberTaken(ctx context.Context, q sqlx.QueryerContext, number string) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, q, &n, `SELECT COUNT(*) FROM sales WHERE sale_number = ?`, number); err != nil {
		return false, errors.Wrap(err, "check sale number")
	}
	return n > 0, nil
}

// List returns sale headers in creation order.
func (r *SaleRepo) List(ctx context.Context) ([]domain.Sale, error) {
	out := []domain.Sale{}
	err := r.db.SelectContext(ctx, &out, `SELECT`+saleCols+` FROM sales ORDER BY created_at, rowid`)
	if err != nil {
		return nil, errors.Wrap(err, "list sales")
	}
	return out, nil
}

// Get returns a sale with its items in cart order.
func (r *SaleRepo) Get(ctx context.Context, id string) (*domain.Sale, error) {
	var s domain.Sale
	err := r.db.GetContext(ctx, &s, `SELECT`+saleCols+` FROM sales WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(domain.ErrNotFound, "sale %s", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get sale %s", id)
	}
	items, err := r.Items(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

func (r *SaleRepo) Items(ctx context.Context, saleID string) ([]domain.SaleItem, error) {
	out := []domain.SaleItem{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT id, sale_id, product_id, service_id, name, quantity, unit_price, total, position
	  FROM sale_items
	  WHERE sale_id = ?
	  ORDER BY position
	`, saleID)
	if err != nil {
		return nil, errors.Wrap(err, "list sale items")
	}
	return out, nil
}
