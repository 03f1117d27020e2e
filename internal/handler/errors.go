package handler

import (
	"errors"

	"go-parts-inventory/internal/logger"
	"go-parts-inventory/internal/middleware"
	"go-parts-inventory/internal/model"
	"go-parts-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps service errors onto status codes. Anything that is not a
// known client error is logged and answered with a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrForbidden):
		return c.Status(403).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUserInactive):
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	case service.IsClientError(err):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	logger.ErrorCtx(c.UserContext(), err,
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.String("user_id", actorOf(c).UserID))
	return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
}

func actorOf(c *fiber.Ctx) model.Actor {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return model.Actor{}
	}
	return actor
}

func invalidJSON(c *fiber.Ctx) error {
	return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
}
