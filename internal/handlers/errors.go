package handlers

import (
	"errors"
	"strings"

	"farmstore/internal/services"
	"farmstore/pkg/hubtel"
	"farmstore/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps service errors onto status codes and bodies. Anything
// unrecognised is logged and reported as a 500 without details.
func respondError(c *fiber.Ctx, log *zap.Logger, err error) error {
	var verr *services.ValidationError
	var nf *services.NotFoundError
	var fe services.FormErrors

	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Message})
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFoundMessage(nf)})
	case errors.As(err, &fe):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "errors": fe})
	case errors.Is(err, hubtel.ErrNotConfigured):
		logger.FromCtx(c, log).Error("payment gateway is not configured")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Hubtel credentials not configured"})
	}

	logger.FromCtx(c, log).Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

func notFoundMessage(nf *services.NotFoundError) string {
	if nf.Resource == "" {
		return "Not found"
	}
	return strings.ToUpper(nf.Resource[:1]) + nf.Resource[1:] + " not found"
}
