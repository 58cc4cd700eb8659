package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/services"
)

type selectionApplicationService interface {
	Select(ctx context.Context, actor services.Actor, classID int64) (*models.Selection, error)
	List(ctx context.Context) ([]models.Selection, error)
	ListByStudent(ctx context.Context, actor services.Actor, email string) ([]models.Selection, error)
	Get(ctx context.Context, actor services.Actor, id int64) (*models.Selection, error)
	Delete(ctx context.Context, actor services.Actor, id int64) (int64, error)
}

type SelectionHandler struct {
	service selectionApplicationService
}

func NewSelectionHandler(service selectionApplicationService) *SelectionHandler {
	return &SelectionHandler{service: service}
}

type selectClassRequest struct {
	ClassID int64 `json:"class_id"`
}

func (h *SelectionHandler) Create(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "unauthorized access")
	}

	var req selectClassRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}

	selection, err := h.service.Select(c.Context(), actor, req.ClassID)
	if err != nil {
		return mapSelectionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"selection": selection})
}

func (h *SelectionHandler) List(c *fiber.Ctx) error {
	selections, err := h.service.List(c.Context())
	if err != nil {
		return mapSelectionError(c, err)
	}
	return c.JSON(fiber.Map{"selections": selections})
}

func (h *SelectionHandler) ListByStudent(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "unauthorized access")
	}

	selections, err := h.service.ListByStudent(c.Context(), actor, c.Params("email"))
	if err != nil {
		return mapSelectionError(c, err)
	}
	return c.JSON(fiber.Map{"selections": selections})
}

func (h *SelectionHandler) Get(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "unauthorized access")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "invalid selection id")
	}

	selection, err := h.service.Get(c.Context(), actor, id)
	if err != nil {
		return mapSelectionError(c, err)
	}
	return c.JSON(fiber.Map{"selection": selection})
}

func (h *SelectionHandler) Delete(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "unauthorized access")
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "invalid selection id")
	}

	deleted, err := h.service.Delete(c.Context(), actor, id)
	if err != nil {
		return mapSelectionError(c, err)
	}
	return c.JSON(fiber.Map{"deleted_count": deleted})
}

func mapSelectionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return errorResponse(c, fiber.StatusBadRequest, "invalid request")
	case errors.Is(err, services.ErrForbidden):
		return errorResponse(c, fiber.StatusForbidden, "forbidden access")
	case errors.Is(err, services.ErrClassNotFound):
		return errorResponse(c, fiber.StatusNotFound, "class not found")
	case errors.Is(err, services.ErrNotFound):
		return errorResponse(c, fiber.StatusNotFound, "selection not found")
	default:
		return errorResponse(c, fiber.StatusInternalServerError, "failed to process selection request")
	}
}
