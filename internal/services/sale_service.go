package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"counterpos/internal/domain"
	"counterpos/internal/repos"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// SaleLedger persists sales. Writes go through the caller's transaction.
type SaleLedger interface {
	CreateSale(ctx context.Context, q sqlx.ExtContext, s *domain.Sale) error
	CreateSaleItem(ctx context.Context, q sqlx.ExtContext, it *domain.SaleItem) error
	SaleNumberTaken(ctx context.Context, q sqlx.QueryerContext, number string) (bool, error)
	List(ctx context.Context) ([]domain.Sale, error)
	Get(ctx context.Context, id string) (*domain.Sale, error)
}

// StockAdjuster applies a stock movement through the caller's transaction.
type StockAdjuster interface {
	Adjust(ctx context.Context, q sqlx.ExtContext, mv *domain.StockMovement) (int, error)
}

type ProductReader interface {
	Get(ctx context.Context, q sqlx.QueryerContext, id string) (domain.Product, error)
}

type ServiceReader interface {
	Get(ctx context.Context, q sqlx.QueryerContext, id string) (domain.Service, error)
}

// TaxRule returns the tax owed on the discounted subtotal.
type TaxRule func(taxable decimal.Decimal) decimal.Decimal

func NoTax(decimal.Decimal) decimal.Decimal { return decimal.Zero }

// FlatRateTax charges rate (e.g. 0.07) on the taxable amount, rounded to cents.
func FlatRateTax(rate decimal.Decimal) TaxRule {
	return func(taxable decimal.Decimal) decimal.Decimal {
		return taxable.Mul(rate).Round(2)
	}
}

const maxSaleNumberAttempts = 5

// NewSaleNumber builds S-YYYYMMDD-XXXXXXXX with a random suffix.
func NewSaleNumber(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "S-" + t.UTC().Format("20060102") + "-" + suffix
}

type SaleRequest struct {
	Lines         []domain.CartLine
	CustomerName  string
	CustomerPhone string
	Discount      decimal.Decimal
	Notes         string
}

type SaleService struct {
	DB       *sqlx.DB
	Ledger   SaleLedger
	Stock    StockAdjuster
	Products ProductReader
	Services ServiceReader
	Guard    Guard

	Tax           TaxRule
	Now           func() time.Time
	NewSaleNumber func(time.Time) string
}

func NewSaleService(db *sqlx.DB, ledger SaleLedger, stock StockAdjuster, prods ProductReader, svcs ServiceReader) *SaleService {
	return &SaleService{
		DB:            db,
		Ledger:        ledger,
		Stock:         stock,
		Products:      prods,
		Services:      svcs,
		Tax:           NoTax,
		Now:           time.Now,
		NewSaleNumber: NewSaleNumber,
	}
}

// Commit validates the cart, then writes the sale, its items and every stock
// decrement in one transaction. On any failure nothing is persisted.
func (s *SaleService) Commit(ctx context.Context, actor *domain.StaffUser, req SaleRequest) (*domain.Sale, error) {
	if err := s.Guard.Authorize(actor, RolesSubmitSale).Err(); err != nil {
		return nil, err
	}
	subtotal, err := validateLines(req.Lines)
	if err != nil {
		return nil, err
	}
	discount := req.Discount
	if discount.IsNegative() {
		return nil, domain.InvalidInput("discount must not be negative")
	}
	if discount.GreaterThan(subtotal) {
		return nil, domain.InvalidInput("discount %s exceeds subtotal %s", discount.StringFixed(2), subtotal.StringFixed(2))
	}
	taxable := subtotal.Sub(discount)
	tax := s.taxRule()(taxable)

	ts := s.Now().UTC()
	sale := &domain.Sale{
		ID:            uuid.NewString(),
		StaffUserID:   actor.ID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Subtotal:      subtotal,
		Tax:           tax,
		Discount:      discount,
		Total:         taxable.Add(tax),
		Status:        domain.SaleStatusCompleted,
		Notes:         strings.TrimSpace(req.Notes),
		CreatedAt:     ts.Format(repos.TimeLayout),
	}

	err = repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		items, err := s.resolveLines(ctx, tx, req.Lines)
		if err != nil {
			return err
		}
		if sale.SaleNumber, err = s.allocateSaleNumber(ctx, tx, ts); err != nil {
			return err
		}
		if err := s.Ledger.CreateSale(ctx, tx, sale); err != nil {
			return err
		}
		for i := range items {
			it := &items[i]
			it.SaleID = sale.ID
			if err := s.Ledger.CreateSaleItem(ctx, tx, it); err != nil {
				return err
			}
			if it.ProductID == nil {
				continue
			}
			if _, err := s.Stock.Adjust(ctx, tx, &domain.StockMovement{
				ProductID:   *it.ProductID,
				Delta:       -it.Quantity,
				Reason:      domain.MovementSale,
				SaleID:      &sale.ID,
				StaffUserID: actor.ID,
			}); err != nil {
				return err
			}
		}
		sale.Items = items
		return nil
	})
	if err != nil {
		return nil, commitError(err)
	}
	return sale, nil
}

func (s *SaleService) List(ctx context.Context, actor *domain.StaffUser) ([]domain.Sale, error) {
	if err := s.Guard.Authorize(actor, RolesAuthenticated).Err(); err != nil {
		return nil, err
	}
	return s.Ledger.List(ctx)
}

func (s *SaleService) Get(ctx context.Context, actor *domain.StaffUser, id string) (*domain.Sale, error) {
	if err := s.Guard.Authorize(actor, RolesAuthenticated).Err(); err != nil {
		return nil, err
	}
	return s.Ledger.Get(ctx, id)
}

func (s *SaleService) taxRule() TaxRule {
	if s.Tax == nil {
		return NoTax
	}
	return s.Tax
}

// validateLines checks the cart shape without touching storage and returns
// the subtotal.
func validateLines(lines []domain.CartLine) (decimal.Decimal, error) {
	if len(lines) == 0 {
		return decimal.Zero, domain.InvalidInput("cart empty")
	}
	subtotal := decimal.Zero
	for i, l := range lines {
		n := i + 1
		if l.ProductID != "" && l.ServiceID != "" {
			return decimal.Zero, domain.InvalidInput("line %d references both a product and a service", n)
		}
		if l.Quantity <= 0 {
			return decimal.Zero, domain.InvalidInput("line %d: quantity must be positive", n)
		}
		if l.Quantity > repos.MaxStockDelta {
			return decimal.Zero, domain.InvalidInput("line %d: quantity %d is too large", n, l.Quantity)
		}
		if l.UnitPrice.IsNegative() {
			return decimal.Zero, domain.InvalidInput("line %d: unit price must not be negative", n)
		}
		if l.ProductID == "" && l.ServiceID == "" && strings.TrimSpace(l.Name) == "" {
			return decimal.Zero, domain.InvalidInput("line %d: free-form line needs a name", n)
		}
		subtotal = subtotal.Add(lineTotal(l))
	}
	return subtotal, nil
}

func lineTotal(l domain.CartLine) decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// resolveLines checks every catalog reference and the stock of the whole cart
// before any write, then returns the item snapshots in cart order.
func (s *SaleService) resolveLines(ctx context.Context, q sqlx.QueryerContext, lines []domain.CartLine) ([]domain.SaleItem, error) {
	items := make([]domain.SaleItem, 0, len(lines))
	requested := map[string]int{}
	available := map[string]int{}
	var productOrder []string

	for i, l := range lines {
		n := i + 1
		it := domain.SaleItem{
			ID:        uuid.NewString(),
			Name:      strings.TrimSpace(l.Name),
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Total:     lineTotal(l),
			Position:  n,
		}
		switch {
		case l.ProductID != "":
			p, err := s.Products.Get(ctx, q, l.ProductID)
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.InvalidInput("line %d: unknown product %s", n, l.ProductID)
			}
			if err != nil {
				return nil, err
			}
			if !p.Active {
				return nil, domain.InvalidInput("line %d: product %s is not active", n, p.ID)
			}
			if it.Name == "" {
				it.Name = p.Name
			}
			id := p.ID
			it.ProductID = &id
			if _, seen := requested[id]; !seen {
				productOrder = append(productOrder, id)
			}
			requested[id] += l.Quantity
			available[id] = p.StockQuantity
		case l.ServiceID != "":
			sv, err := s.Services.Get(ctx, q, l.ServiceID)
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.InvalidInput("line %d: unknown service %s", n, l.ServiceID)
			}
			if err != nil {
				return nil, err
			}
			if !sv.Active {
				return nil, domain.InvalidInput("line %d: service %s is not active", n, sv.ID)
			}
			if it.Name == "" {
				it.Name = sv.Name
			}
			id := sv.ID
			it.ServiceID = &id
		}
		items = append(items, it)
	}

	for _, id := range productOrder {
		if requested[id] > available[id] {
			return nil, &domain.InsufficientStockError{ProductID: id, Available: available[id], Requested: requested[id]}
		}
	}
	return items, nil
}

func (s *SaleService) allocateSaleNumber(ctx context.Context, q sqlx.QueryerContext, ts time.Time) (string, error) {
	gen := s.NewSaleNumber
	if gen == nil {
		gen = NewSaleNumber
	}
	for i := 0; i < maxSaleNumberAttempts; i++ {
		number := gen(ts)
		taken, err := s.Ledger.SaleNumberTaken(ctx, q, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", fmt.Errorf("no free sale number after %d attempts", maxSaleNumberAttempts)
}

// commitError keeps caller-actionable errors intact and reports everything
// else as a consistency failure.
func commitError(err error) error {
	if _, ok := domain.IsInsufficientStock(err); ok {
		return err
	}
	if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrConsistency) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrConsistency, err)
}
