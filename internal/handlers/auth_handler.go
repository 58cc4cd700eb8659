package handlers

import (
	"net/mail"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/najimahamed22/sportZoneAcademy-server/pkg/utils"
)

// AuthHandler issues bearer credentials for an identity the client has
// already established with the external identity provider.
type AuthHandler struct {
	secret string
	ttl    time.Duration
}

func NewAuthHandler(secret string, ttl time.Duration) *AuthHandler {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &AuthHandler{secret: secret, ttl: ttl}
}

type issueTokenRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req issueTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}

	parsed, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "a valid email is required")
	}

	token, err := utils.GenerateToken(utils.Identity{
		Email: parsed.Address,
		Name:  strings.TrimSpace(req.Name),
	}, h.secret, h.ttl)
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "failed to issue token")
	}

	return c.JSON(fiber.Map{"token": token})
}
