package handlers

import (
	"counterpos/internal/config"
	"counterpos/internal/repos"
	"counterpos/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler      *AuthHandler
	ProductHandler   *ProductHandler
	InventoryHandler *InventoryHandler
	SaleHandler      *SaleHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	prodRepo := repos.NewProductRepo(db)
	svcRepo := repos.NewServiceRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	saleRepo := repos.NewSaleRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo, svcRepo)
	invSvc := services.NewInventoryService(db, invRepo, prodRepo)
	saleSvc := services.NewSaleService(db, saleRepo, invRepo, prodRepo, svcRepo)
	if rate := cfg.Tax(); rate.IsPositive() {
		saleSvc.Tax = services.FlatRateTax(rate)
	}

	return &Deps{
		AuthHandler:      &AuthHandler{Auth: auth},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		SaleHandler:      &SaleHandler{Sales: saleSvc},
	}
}

// Mount registers the JSON API on app. login handlers run before the login
// route, e.g. a throttle.
func (d *Deps) Mount(app fiber.Router, login ...fiber.Handler) {
	app.Post("/login", append(login, d.AuthHandler.Login)...)
	app.Post("/logout", d.AuthHandler.Logout)

	api := app.Group("/api/v1", RequireRoles("api", services.RolesAuthenticated))
	api.Get("/products", d.ProductHandler.List)
	api.Get("/products/:id", d.ProductHandler.Detail)
	api.Get("/services", d.ProductHandler.Services)
	api.Get("/availability", d.InventoryHandler.Check)

	api.Post("/sales", RequireRoles("sale.commit", services.RolesSubmitSale), d.SaleHandler.Submit)
	api.Get("/sales", d.SaleHandler.List)
	api.Get("/sales/:id", d.SaleHandler.View)

	api.Post("/inventory/:id/adjust", RequireRoles("inventory.adjust", services.RolesAdjustStock), d.InventoryHandler.Adjust)
	api.Get("/inventory/low-stock", RequireRoles("inventory.low_stock", services.RolesAdjustStock), d.InventoryHandler.LowStock)
	api.Get("/inventory/:id/movements", RequireRoles("inventory.movements", services.RolesAdjustStock), d.InventoryHandler.Movements)
}
