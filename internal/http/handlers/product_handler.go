package handlers

import (
	"counterpos/internal/services"
	"counterpos/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Catalog.ListProducts(c.UserContext(), currentUser(c))
	if err != nil {
		return respondError(c, "catalog.products", err)
	}
	return c.JSON(fiber.Map{"products": products, "count": len(products)})
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondError(c, "catalog.product", err)
	}
	return c.JSON(p)
}

func (h *ProductHandler) Services(c *fiber.Ctx) error {
	svcs, err := h.Catalog.ListServices(c.UserContext(), currentUser(c))
	if err != nil {
		return respondError(c, "catalog.services", err)
	}
	return c.JSON(fiber.Map{"services": svcs, "count": len(svcs)})
}
