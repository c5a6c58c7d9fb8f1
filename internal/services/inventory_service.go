package services

import (
	"context"

	"counterpos/internal/domain"
	"counterpos/internal/repos"

	"github.com/jmoiron/sqlx"
)

type InventoryService struct {
	DB    *sqlx.DB
	Inv   *repos.InventoryRepo
	Prods *repos.ProductRepo
	Guard Guard
}

func NewInventoryService(db *sqlx.DB, inv *repos.InventoryRepo, prods *repos.ProductRepo) *InventoryService {
	return &InventoryService{DB: db, Inv: inv, Prods: prods}
}

// Decrement removes amount units outside a sale. It fails with
// *domain.InsufficientStockError rather than going below zero.
func (s *InventoryService) Decrement(ctx context.Context, actor *domain.StaffUser, productID string, amount int) (int, error) {
	if amount <= 0 {
		if err := s.Guard.Authorize(actor, RolesAdjustStock).Err(); err != nil {
			return 0, err
		}
		return 0, domain.InvalidInput("amount must be positive")
	}
	return s.Adjust(ctx, actor, productID, -amount, "")
}

// Increment credits amount units, e.g. for returns or deliveries.
func (s *InventoryService) Increment(ctx context.Context, actor *domain.StaffUser, productID string, amount int) (int, error) {
	if amount <= 0 {
		if err := s.Guard.Authorize(actor, RolesAdjustStock).Err(); err != nil {
			return 0, err
		}
		return 0, domain.InvalidInput("amount must be positive")
	}
	return s.Adjust(ctx, actor, productID, amount, "")
}

// Adjust applies a signed delta directly to a product's stock and records
// note on the movement. Only admin and manager accounts may do this.
func (s *InventoryService) Adjust(ctx context.Context, actor *domain.StaffUser, productID string, delta int, note string) (int, error) {
	if err := s.Guard.Authorize(actor, RolesAdjustStock).Err(); err != nil {
		return 0, err
	}
	if productID == "" {
		return 0, domain.InvalidInput("missing product id")
	}
	if delta == 0 {
		return 0, domain.InvalidInput("delta must not be zero")
	}

	var qty int
	err := repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		var err error
		qty, err = s.Inv.Adjust(ctx, tx, &domain.StockMovement{
			ProductID:   productID,
			Delta:       delta,
			Reason:      domain.MovementAdjustment,
			Note:        note,
			StaffUserID: actor.ID,
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	return qty, nil
}

// CheckAvailability converts qty into IN_STOCK / LOW_STOCK / OUT_OF_STOCK
// using the product's own low-stock threshold.
func (s *InventoryService) CheckAvailability(ctx context.Context, actor *domain.StaffUser, productID string) (domain.Availability, error) {
	if err := s.Guard.Authorize(actor, RolesAuthenticated).Err(); err != nil {
		return domain.Availability{}, err
	}
	p, err := s.Prods.Get(ctx, nil, productID)
	if err != nil {
		return domain.Availability{}, err
	}

	threshold := p.LowStockThreshold
	if threshold <= 0 {
		threshold = domain.DefaultLowStockThreshold
	}
	var status string
	switch {
	case !p.Active || p.StockQuantity == 0:
		status = domain.StockOut
	case p.StockQuantity <= threshold:
		status = domain.StockLow
	default:
		status = domain.StockIn
	}
	return domain.Availability{ProductID: p.ID, Status: status, Qty: p.StockQuantity}, nil
}

func (s *InventoryService) LowStock(ctx context.Context, actor *domain.StaffUser) ([]domain.Product, error) {
	if err := s.Guard.Authorize(actor, RolesAdjustStock).Err(); err != nil {
		return nil, err
	}
	return s.Prods.LowStock(ctx)
}

// Movements returns the stock ledger of one product, oldest first.
func (s *InventoryService) Movements(ctx context.Context, actor *domain.StaffUser, productID string) ([]domain.StockMovement, error) {
	if err := s.Guard.Authorize(actor, RolesAdjustStock).Err(); err != nil {
		return nil, err
	}
	if _, err := s.Prods.Get(ctx, nil, productID); err != nil {
		return nil, err
	}
	return s.Inv.Movements(ctx, productID)
}
