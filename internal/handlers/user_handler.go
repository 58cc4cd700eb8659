package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/services"
)

type userApplicationService interface {
	Register(ctx context.Context, input services.RegisterUserInput) (bool, error)
	RoleOf(ctx context.Context, email string) (models.Role, error)
	Promote(ctx context.Context, actor services.Actor, userID int64, role models.Role) (int64, error)
	List(ctx context.Context) ([]models.User, error)
}

type UserHandler struct {
	service userApplicationService
}

func NewUserHandler(service userApplicationService) *UserHandler {
	return &UserHandler{service: service}
}

type registerUserRequest struct {
	Email    string  `json:"email"`
	Name     *string `json:"name"`
	PhotoURL *string `json:"photo_url"`
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req registerUserRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}

	inserted, err := h.service.Register(c.Context(), services.RegisterUserInput{
		Email:    req.Email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		return mapUserError(c, err)
	}

	if !inserted {
		return c.JSON(fiber.Map{"inserted": false, "message": "user already exists"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"inserted": true, "message": "user created"})
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.service.List(c.Context())
	if err != nil {
		return mapUserError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *UserHandler) Role(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.Params("email"))
	if email == "" {
		return errorResponse(c, fiber.StatusBadRequest, "email is required")
	}

	role, err := h.service.RoleOf(c.Context(), email)
	if err != nil {
		return mapUserError(c, err)
	}
	return c.JSON(fiber.Map{"role": role.Label()})
}

func (h *UserHandler) MakeAdmin(c *fiber.Ctx) error {
	return h.promote(c, models.RoleAdmin)
}

func (h *UserHandler) MakeInstructor(c *fiber.Ctx) error {
	return h.promote(c, models.RoleInstructor)
}

func (h *UserHandler) promote(c *fiber.Ctx, role models.Role) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "unauthorized access")
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "invalid user id")
	}

	modified, err := h.service.Promote(c.Context(), actor, userID, role)
	if err != nil {
		return mapUserError(c, err)
	}
	return c.JSON(fiber.Map{"modified_count": modified})
}

func mapUserError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return errorResponse(c, fiber.StatusBadRequest, "invalid request")
	case errors.Is(err, services.ErrNotFound):
		return errorResponse(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, services.ErrForbidden):
		return errorResponse(c, fiber.StatusForbidden, "forbidden access")
	default:
		return errorResponse(c, fiber.StatusInternalServerError, "failed to process user request")
	}
}
