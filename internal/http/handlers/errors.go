package handlers

import (
	"errors"

	"counterpos/internal/domain"
	applog "counterpos/internal/log"

	"github.com/gofiber/fiber/v2"
)

// respondError maps domain errors to status codes. Internal details are
// logged, never returned.
func respondError(c *fiber.Ctx, action string, err error) error {
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		status := fiber.StatusForbidden
		if authErr.Reason == domain.ReasonUnauthenticated {
			status = fiber.StatusUnauthorized
		}
		c.Status(status)
		applog.Security(c, "access.denied", map[string]any{"op": action, "reason": authErr.Reason})
		return c.JSON(fiber.Map{"error": authErr.Reason})
	}
	if stock, ok := domain.IsInsufficientStock(err); ok {
		c.Status(fiber.StatusConflict)
		applog.Security(c, action+".reject", map[string]any{
			"reason": "insufficient_stock", "product": stock.ProductID,
			"available": stock.Available, "requested": stock.Requested,
		})
		return c.JSON(fiber.Map{
			"error":      "insufficient_stock",
			"product_id": stock.ProductID,
			"available":  stock.Available,
			"requested":  stock.Requested,
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.Status(fiber.StatusBadRequest)
		applog.Security(c, action+".reject", map[string]any{"reason": err.Error()})
		return c.JSON(fiber.Map{"error": "invalid_input", "message": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	case errors.Is(err, domain.ErrConsistency):
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, action+".fail", err, nil)
		return c.JSON(fiber.Map{"error": "commit_failed", "message": "The sale was not recorded. Please try again."})
	default:
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, action+".fail", err, nil)
		return c.JSON(fiber.Map{"error": "internal_error", "message": "Something went wrong. Please try again."})
	}
}

func badRequest(c *fiber.Ctx, field, msg string) error {
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_input", "message": msg})
}
