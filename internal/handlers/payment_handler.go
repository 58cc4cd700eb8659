package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/services"
)

type paymentApplicationService interface {
	CreateIntent(ctx context.Context, price float64) (string, error)
	History(ctx context.Context, actor services.Actor, email string) ([]models.Payment, error)
}

type settlementApplicationService interface {
	Settle(ctx context.Context, actor services.Actor, input services.SettleInput) (*models.SettlementResult, error)
	ListSettlements(ctx context.Context, status string, limit int) ([]models.Settlement, error)
}

type PaymentHandler struct {
	payments    paymentApplicationService
	settlements settlementApplicationService
}

func NewPaymentHandler(payments paymentApplicationService, settlements settlementApplicationService) *PaymentHandler {
	return &PaymentHandler{payments: payments, settlements: settlements}
}

type createIntentRequest struct {
	Price float64 `json:"price"`
}

type settleRequest struct {
	SelectedID    int64   `json:"selected_id"`
	ClassID       int64   `json:"class_id"`
	Amount        float64 `json:"amount"`
	Email         string  `json:"email"`
	TransactionID *string `json:"transaction_id"`
}

func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	var req createIntentRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}

	secret, err := h.payments.CreateIntent(c.Context(), req.Price)
	if err != nil {
		return mapPaymentError(c, err)
	}
	return c.JSON(fiber.Map{"clientSecret": secret})
}

// Settle records a payment and its enrollment. The response carries the
// outcome of every step; a seat that could not be reserved is reported with
// 409 (or 404 for a missing class) alongside the recorded payment.
func (h *PaymentHandler) Settle(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "unauthorized access")
	}

	var req settleRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.TransactionID != nil && strings.TrimSpace(*req.TransactionID) == "" {
		req.TransactionID = nil
	}

	result, err := h.settlements.Settle(c.Context(), actor, services.SettleInput{
		SelectionID:   req.SelectedID,
		ClassID:       req.ClassID,
		Amount:        req.Amount,
		Email:         req.Email,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		return mapPaymentError(c, err)
	}

	switch result.SeatUpdate.Reason {
	case models.SeatOutcomeSeatsExhausted:
		return c.Status(fiber.StatusConflict).JSON(result)
	case models.SeatOutcomeClassNotFound:
		return c.Status(fiber.StatusNotFound).JSON(result)
	default:
		return c.JSON(result)
	}
}

func (h *PaymentHandler) History(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "unauthorized access")
	}

	payments, err := h.payments.History(c.Context(), actor, c.Params("email"))
	if err != nil {
		return mapPaymentError(c, err)
	}
	return c.JSON(fiber.Map{"payments": payments})
}

func (h *PaymentHandler) Settlements(c *fiber.Ctx) error {
	settlements, err := h.settlements.ListSettlements(c.Context(), strings.TrimSpace(c.Query("status")), parseListLimit(c))
	if err != nil {
		return mapPaymentError(c, err)
	}
	return c.JSON(fiber.Map{"settlements": settlements})
}

func mapPaymentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return errorResponse(c, fiber.StatusBadRequest, "invalid request")
	case errors.Is(err, services.ErrForbidden):
		return errorResponse(c, fiber.StatusForbidden, "forbidden access")
	case errors.Is(err, services.ErrConflict):
		return errorResponse(c, fiber.StatusConflict, "payment already recorded for this transaction")
	case errors.Is(err, services.ErrSettlementIndeterminate):
		return errorResponse(c, fiber.StatusGatewayTimeout, "settlement outcome unknown, it will be reconciled")
	case errors.Is(err, services.ErrPaymentsDisabled):
		return errorResponse(c, fiber.StatusServiceUnavailable, "payments are not configured")
	case errors.Is(err, services.ErrUpstream):
		return errorResponse(c, fiber.StatusInternalServerError, "payment processing failed")
	default:
		return errorResponse(c, fiber.StatusInternalServerError, "failed to process payment request")
	}
}
