package middleware

import (
	"context"
	"errors"
	"strings"

	"go-parts-inventory/internal/model"
	"go-parts-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

const actorKey = "actor"

// Authenticator resolves a bearer token to the acting user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.Actor, error)
}

// RequireAuth validates the bearer token and stores the caller's actor in
// the request locals.
func RequireAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		actor, err := auth.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUserNotFound):
				return c.Status(401).JSON(fiber.Map{"error": "User not found"})
			case errors.Is(err, service.ErrUserInactive):
				return c.Status(401).JSON(fiber.Map{"error": "User account is inactive"})
			default:
				return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
			}
		}

		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// RequireRole lets the request through only if the actor has one of roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No role found"})
		}
		if !actor.HasRole(roles...) {
			return c.Status(403).JSON(fiber.Map{
				"error": "Forbidden: requires one of " + strings.Join(roles, ", ") + " roles",
			})
		}
		return c.Next()
	}
}

// ActorFrom returns the actor set by RequireAuth.
func ActorFrom(c *fiber.Ctx) (model.Actor, bool) {
	actor, ok := c.Locals(actorKey).(model.Actor)
	return actor, ok
}

// SetActor stores actor in the request locals.
func SetActor(c *fiber.Ctx, actor model.Actor) {
	c.Locals(actorKey, actor)
}
