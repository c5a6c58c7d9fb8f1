package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "counterpos/internal/log"
	"counterpos/internal/services"
	"counterpos/internal/validate"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

// GET /api/v1/availability?productId=
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	productID, ok := validate.ID(strings.TrimSpace(c.Query("productId")))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing productId",
		})
	}
	avail, err := h.Inv.CheckAvailability(c.UserContext(), currentUser(c), productID)
	if err != nil {
		return respondError(c, "inventory.availability", err)
	}
	return c.JSON(avail)
}

type adjustBody struct {
	Delta  int    `json:"delta" form:"delta"`
	Reason string `json:"reason" form:"reason"`
}

// POST /api/v1/inventory/:id/adjust
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "product_id", "invalid product id")
	}
	var body adjustBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "body", "malformed adjustment")
	}
	reason, ok := validate.Name(body.Reason, 200)
	if !ok {
		return badRequest(c, "reason", "reason must be at most 200 characters")
	}
	qty, err := h.Inv.Adjust(c.UserContext(), currentUser(c), pid, body.Delta, reason)
	if err != nil {
		return respondError(c, "inventory.adjust", err)
	}
	applog.Audit(c, "inventory.adjust", map[string]any{
		"product": pid, "delta": body.Delta, "qty": qty, "reason": reason,
	})
	return c.JSON(fiber.Map{"product_id": pid, "stock_quantity": qty})
}

// GET /api/v1/inventory/low-stock
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	rows, err := h.Inv.LowStock(c.UserContext(), currentUser(c))
	if err != nil {
		return respondError(c, "inventory.low_stock", err)
	}
	if len(rows) > 0 {
		applog.Info(c, "inventory.low_stock", map[string]any{"count": len(rows)})
	}
	return c.JSON(fiber.Map{"products": rows, "count": len(rows)})
}

// GET /api/v1/inventory/:id/movements
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	}
	rows, err := h.Inv.Movements(c.UserContext(), currentUser(c), pid)
	if err != nil {
		return respondError(c, "inventory.movements", err)
	}
	return c.JSON(fiber.Map{"movements": rows, "count": len(rows)})
}
