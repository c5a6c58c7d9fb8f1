package handlers

import (
	"counterpos/internal/domain"
	applog "counterpos/internal/log"
	"counterpos/internal/services"
	"counterpos/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type SaleHandler struct {
	Sales *services.SaleService
}

type saleBody struct {
	Items         []domain.CartLine `json:"items"`
	CustomerName  string            `json:"customer_name"`
	CustomerPhone string            `json:"customer_phone"`
	Discount      decimal.Decimal   `json:"discount"`
	Notes         string            `json:"notes"`
}

// POST /api/v1/sales
func (h *SaleHandler) Submit(c *fiber.Ctx) error {
	var body saleBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "body", "malformed sale request")
	}
	for i := range body.Items {
		var ok bool
		if body.Items[i].ProductID, ok = validate.OptionalID(body.Items[i].ProductID); !ok {
			return badRequest(c, "product_id", "invalid product id")
		}
		if body.Items[i].ServiceID, ok = validate.OptionalID(body.Items[i].ServiceID); !ok {
			return badRequest(c, "service_id", "invalid service id")
		}
		if _, ok = validate.Name(body.Items[i].Name, 120); !ok {
			return badRequest(c, "name", "item name is too long")
		}
	}
	name, ok := validate.Name(body.CustomerName, 60)
	if !ok {
		return badRequest(c, "customer_name", "customer name must be at most 60 characters")
	}
	phone, ok := validate.Phone(body.CustomerPhone)
	if !ok {
		return badRequest(c, "customer_phone", "invalid customer phone")
	}
	notes, ok := validate.Name(body.Notes, 500)
	if !ok {
		return badRequest(c, "notes", "notes must be at most 500 characters")
	}

	sale, err := h.Sales.Commit(c.UserContext(), currentUser(c), services.SaleRequest{
		Lines:         body.Items,
		CustomerName:  name,
		CustomerPhone: phone,
		Discount:      body.Discount,
		Notes:         notes,
	})
	if err != nil {
		return respondError(c, "sale.commit", err)
	}

	c.Status(fiber.StatusCreated)
	applog.Audit(c, "sale.commit", map[string]any{
		"sale_id":     sale.ID,
		"sale_number": sale.SaleNumber,
		"items":       len(sale.Items),
		"subtotal":    sale.Subtotal.StringFixed(2),
		"discount":    sale.Discount.StringFixed(2),
		"total":       sale.Total.StringFixed(2),
	})
	return c.JSON(sale)
}

// GET /api/v1/sales
func (h *SaleHandler) List(c *fiber.Ctx) error {
	sales, err := h.Sales.List(c.UserContext(), currentUser(c))
	if err != nil {
		return respondError(c, "sale.list", err)
	}
	return c.JSON(fiber.Map{"sales": sales, "count": len(sales)})
}

// GET /api/v1/sales/:id
func (h *SaleHandler) View(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	}
	sale, err := h.Sales.Get(c.UserContext(), currentUser(c), id)
	if err != nil {
		return respondError(c, "sale.view", err)
	}
	return c.JSON(sale)
}
