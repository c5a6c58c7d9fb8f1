package services_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"counterpos/internal/domain"
	"counterpos/internal/repos"
	"counterpos/internal/services"
)

type env struct {
	db    *sqlx.DB
	sales *repos.SaleRepo
	inv   *repos.InventoryRepo
	prods *repos.ProductRepo
	svcs  *repos.ServiceRepo
	users *repos.UserRepo
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &env{
		db:    db,
		sales: repos.NewSaleRepo(db),
		inv:   repos.NewInventoryRepo(db),
		prods: repos.NewProductRepo(db),
		svcs:  repos.NewServiceRepo(db),
		users: repos.NewUserRepo(db),
	}
}

func (e *env) saleService() *services.SaleService {
	return services.NewSaleService(e.db, e.sales, e.inv, e.prods, e.svcs)
}

func (e *env) user(t *testing.T, id string) *domain.StaffUser {
	t.Helper()
	u, err := e.users.ByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func (e *env) stock(t *testing.T, productID string) int {
	t.Helper()
	qty, err := e.inv.Qty(context.Background(), nil, productID)
	require.NoError(t, err)
	return qty
}

func (e *env) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.Get(&n, `SELECT COUNT(*) FROM `+table))
	return n
}
