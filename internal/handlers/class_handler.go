package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/repository"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/services"
)

type classApplicationService interface {
	Sliders(ctx context.Context) ([]models.Slider, error)
	List(ctx context.Context, status string) ([]models.Class, error)
	TopClasses(ctx context.Context) ([]models.Class, error)
	Instructors(ctx context.Context) ([]models.InstructorRanking, error)
	TopInstructors(ctx context.Context) ([]models.InstructorRanking, error)
	ListByInstructor(ctx context.Context, actor services.Actor, email string) ([]models.Class, error)
	Create(ctx context.Context, actor services.Actor, input services.CreateClassInput) (*models.Class, error)
	Update(ctx context.Context, actor services.Actor, classID int64, input repository.UpdateClassInput) (int64, error)
	Approve(ctx context.Context, actor services.Actor, classID int64) (int64, error)
	Deny(ctx context.Context, actor services.Actor, classID int64) (int64, error)
	Feedback(ctx context.Context, classID int64, feedback string) (int64, error)
}

type ClassHandler struct {
	service classApplicationService
}

func NewClassHandler(service classApplicationService) *ClassHandler {
	return &ClassHandler{service: service}
}

type createClassRequest struct {
	Name            string  `json:"name"`
	Image           *string `json:"image"`
	InstructorName  string  `json:"instructor_name"`
	InstructorEmail string  `json:"instructor_email"`
	Price           float64 `json:"price"`
	AvailableSeats  int     `json:"available_seats"`
}

type updateClassRequest struct {
	Name  *string  `json:"name"`
	Image *string  `json:"image"`
	Price *float64 `json:"price"`
}

type feedbackRequest struct {
	Feedback string `json:"feedback"`
}

func (h *ClassHandler) Sliders(c *fiber.Ctx) error {
	sliders, err := h.service.Sliders(c.Context())
	if err != nil {
		return mapClassError(c, err)
	}
	return c.JSON(fiber.Map{"sliders": sliders})
}

func (h *ClassHandler) List(c *fiber.Ctx) error {
	classes, err := h.service.List(c.Context(), strings.TrimSpace(c.Query("status")))
	if err != nil {
		return mapClassError(c, err)
	}
	return c.JSON(fiber.Map{"classes": classes})
}

func (h *ClassHandler) TopClasses(c *fiber.Ctx) error {
	classes, err := h.service.TopClasses(c.Context())
	if err != nil {
		return mapClassError(c, err)
	}
	return c.JSON(fiber.Map{"classes": classes})
}

func (h *ClassHandler) Instructors(c *fiber.Ctx) error {
	instructors, err := h.service.Instructors(c.Context())
	if err != nil {
		return mapClassError(c, err)
	}
	return c.JSON(fiber.Map{"instructors": instructors})
}

func (h *ClassHandler) TopInstructors(c *fiber.Ctx) error {
	instructors, err := h.service.TopInstructors(c.Context())
	if err != nil {
		return mapClassError(c, err)
	}
	return c.JSON(fiber.Map{"instructors": instructors})
}

func (h *ClassHandler) ListByInstructor(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "unauthorized access")
	}

	classes, err := h.service.ListByInstructor(c.Context(), actor, c.Params("email"))
	if err != nil {
		return mapClassError(c, err)
	}
	return c.JSON(fiber.Map{"classes": classes})
}

func (h *ClassHandler) Create(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "unauthorized access")
	}

	var req createClassRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}
	if msg := validateCreateClassRequest(req); msg != "" {
		return errorResponse(c, fiber.StatusBadRequest, msg)
	}

	class, err := h.service.Create(c.Context(), actor, services.CreateClassInput{
		Name:            req.Name,
		Image:           req.Image,
		InstructorName:  req.InstructorName,
		InstructorEmail: req.InstructorEmail,
		Price:           req.Price,
		AvailableSeats:  req.AvailableSeats,
	})
	if err != nil {
		return mapClassError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"class": class})
}

func (h *ClassHandler) Update(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "unauthorized access")
	}
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "invalid class id")
	}

	var req updateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}
	if msg := validateUpdateClassRequest(req); msg != "" {
		return errorResponse(c, fiber.StatusBadRequest, msg)
	}

	modified, err := h.service.Update(c.Context(), actor, classID, repository.UpdateClassInput{
		Name:  req.Name,
		Image: req.Image,
		Price: req.Price,
	})
	if err != nil {
		return mapClassError(c, err)
	}
	return c.JSON(fiber.Map{"modified_count": modified})
}

func (h *ClassHandler) Approve(c *fiber.Ctx) error {
	return h.review(c, h.service.Approve)
}

func (h *ClassHandler) Deny(c *fiber.Ctx) error {
	return h.review(c, h.service.Deny)
}

func (h *ClassHandler) review(c *fiber.Ctx, decide func(context.Context, services.Actor, int64) (int64, error)) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "unauthorized access")
	}
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "invalid class id")
	}

	modified, err := decide(c.Context(), actor, classID)
	if err != nil {
		return mapClassError(c, err)
	}
	return c.JSON(fiber.Map{"modified_count": modified})
}

func (h *ClassHandler) Feedback(c *fiber.Ctx) error {
	classID, ok := parseIDParam(c, "id")
	if !ok {
		return errorResponse(c, fiber.StatusBadRequest, "invalid class id")
	}

	var req feedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}

	modified, err := h.service.Feedback(c.Context(), classID, req.Feedback)
	if err != nil {
		return mapClassError(c, err)
	}
	return c.JSON(fiber.Map{"modified_count": modified})
}

func mapClassError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return errorResponse(c, fiber.StatusBadRequest, "invalid request")
	case errors.Is(err, services.ErrForbidden):
		return errorResponse(c, fiber.StatusForbidden, "forbidden access")
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrClassNotFound):
		return errorResponse(c, fiber.StatusNotFound, "class not found")
	default:
		return errorResponse(c, fiber.StatusInternalServerError, "failed to process class request")
	}
}
