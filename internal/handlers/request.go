package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/middleware"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/services"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// actorFromLocals reads the identity the access gate stored on the request.
func actorFromLocals(c *fiber.Ctx) (services.Actor, bool) {
	email, ok := c.Locals(middleware.LocalEmail).(string)
	if !ok || email == "" {
		return services.Actor{}, false
	}
	role, _ := c.Locals(middleware.LocalRole).(string)
	return services.Actor{Email: email, Role: models.ParseRole(role)}, true
}

func parseIDParam(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Params(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func parseListLimit(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(strings.TrimSpace(c.Query("limit")))
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": true, "message": message})
}
