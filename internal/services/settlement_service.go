package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/repository"
	"go.uber.org/zap"
)

const (
	defaultSettlementTimeout = 10 * time.Second
	settlementMarkTimeout    = 5 * time.Second
)

type settlementLog interface {
	Create(ctx context.Context, input repository.CreateSettlementInput) (*models.Settlement, error)
	MarkStatus(ctx context.Context, id string, from, to models.SettlementStatus, reason string) (int64, error)
	List(ctx context.Context, status string, limit int) ([]models.Settlement, error)
}

// SeatPublisher is notified after a reservation has been committed.
type SeatPublisher interface {
	PublishSeats(inventory models.SeatInventory)
}

type SettleInput struct {
	SelectionID   int64
	ClassID       int64
	Amount        float64
	Email         string
	TransactionID *string
}

type SettlementService struct {
	uow       settlementUnitOfWork
	log       settlementLog
	publisher SeatPublisher
	timeout   time.Duration
	logger    *zap.Logger
	newID     func() string
}

func NewSettlementService(
	uow settlementUnitOfWork,
	log settlementLog,
	publisher SeatPublisher,
	timeout time.Duration,
	logger *zap.Logger,
) *SettlementService {
	if timeout <= 0 {
		timeout = defaultSettlementTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettlementService{
		uow:       uow,
		log:       log,
		publisher: publisher,
		timeout:   timeout,
		logger:    logger,
		newID:     func() string { return uuid.NewString() },
	}
}

// Settle records the payment, enrolls the selection and reserves a seat.
//
// The three steps run in one transaction. A missing selection or an
// exhausted class does not abort it: the payment is kept and the outcome of
// every step is reported in the result. Store failures roll everything back
// and mark the intent failed; a timeout marks it indeterminate because the
// commit may or may not have reached the store.
func (s *SettlementService) Settle(ctx context.Context, actor Actor, input SettleInput) (*models.SettlementResult, error) {
	input.Email = normalizeEmail(input.Email)
	if err := validateSettleInput(input); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.Owns(input.Email) {
		return nil, ErrForbidden
	}

	id := s.newID()
	logger := s.logger.With(
		zap.String("settlement_id", id),
		zap.String("email", input.Email),
		zap.Int64("class_id", input.ClassID),
		zap.Int64("selection_id", input.SelectionID),
	)

	if _, err := s.log.Create(ctx, repository.CreateSettlementInput{
		ID:         id,
		Email:      input.Email,
		ClassID:    input.ClassID,
		SelectedID: input.SelectionID,
		Amount:     input.Amount,
	}); err != nil {
		logger.Error("settlement intent not recorded", zap.Error(err))
		return nil, fmt.Errorf("%w: record settlement intent: %w", ErrUpstream, err)
	}

	txCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		result   *models.SettlementResult
		reserved *models.SeatInventory
	)
	err := s.uow.Within(txCtx, func(repos SettlementRepos) error {
		result = &models.SettlementResult{SettlementID: id}
		reserved = nil

		if err := checkSelection(txCtx, repos.Selections, input); err != nil {
			return err
		}

		payment, err := repos.Payments.Create(txCtx, repository.CreatePaymentInput{
			SettlementID:  id,
			Email:         input.Email,
			ClassID:       input.ClassID,
			SelectedID:    input.SelectionID,
			Amount:        input.Amount,
			TransactionID: input.TransactionID,
		})
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		result.Payment = payment
		result.InsertResult = models.InsertResult{Acknowledged: true, InsertedID: payment.ID}

		modified, err := repos.Selections.MarkEnrolled(txCtx, input.SelectionID)
		if err != nil {
			return fmt.Errorf("mark selection enrolled: %w", err)
		}
		result.ModifiedCount = modified

		seatOutcome := models.SeatOutcomeReserved
		inventory, err := repos.Ledger.Reserve(txCtx, input.ClassID)
		switch {
		case err == nil:
			reserved = inventory
			result.SeatUpdate = models.SeatUpdateResult{
				Acknowledged:   true,
				AvailableSeats: &inventory.AvailableSeats,
				SeatBookings:   &inventory.SeatBookings,
			}
		case errors.Is(err, ErrSeatsExhausted):
			seatOutcome = models.SeatOutcomeSeatsExhausted
			result.SeatUpdate = models.SeatUpdateResult{Reason: seatOutcome}
		case errors.Is(err, ErrClassNotFound):
			seatOutcome = models.SeatOutcomeClassNotFound
			result.SeatUpdate = models.SeatUpdateResult{Reason: seatOutcome}
		default:
			return err
		}

		result.Status = models.SettlementCompleted
		if modified == 0 || reserved == nil {
			result.Status = models.SettlementPartial
		}

		return repos.Settlements.Complete(txCtx, id, repository.CompleteSettlementInput{
			Status:        result.Status,
			PaymentID:     payment.ID,
			ModifiedCount: modified,
			SeatOutcome:   seatOutcome,
		})
	})
	if err != nil {
		return nil, s.failSettlement(ctx, txCtx, id, err, logger)
	}

	if reserved != nil && s.publisher != nil {
		s.publisher.PublishSeats(*reserved)
	}

	logger.Info("settlement recorded",
		zap.String("status", string(result.Status)),
		zap.Int64("payment_id", result.InsertResult.InsertedID),
		zap.Int64("modified_count", result.ModifiedCount),
		zap.Bool("seat_reserved", result.SeatUpdate.Acknowledged),
		zap.String("seat_reason", result.SeatUpdate.Reason),
	)
	return result, nil
}

func (s *SettlementService) failSettlement(
	ctx context.Context,
	txCtx context.Context,
	id string,
	cause error,
	logger *zap.Logger,
) error {
	markCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settlementMarkTimeout)
	defer cancel()

	if txCtx.Err() != nil || errors.Is(cause, context.DeadlineExceeded) || errors.Is(cause, context.Canceled) {
		if _, err := s.log.MarkStatus(markCtx, id, models.SettlementPending, models.SettlementIndeterminate, cause.Error()); err != nil {
			logger.Error("settlement indeterminate and not marked", zap.Error(err), zap.NamedError("cause", cause))
		} else {
			logger.Warn("settlement indeterminate", zap.Error(cause))
		}
		return fmt.Errorf("%w: %s", ErrSettlementIndeterminate, id)
	}

	reason := cause.Error()
	var result error = fmt.Errorf("%w: settle %s: %w", ErrUpstream, id, cause)
	var pgErr *pgconn.PgError
	switch {
	case errors.As(cause, &pgErr) && pgErr.Code == "23505":
		reason = "duplicate transaction"
		result = fmt.Errorf("%w: payment already recorded for this transaction", ErrConflict)
	case errors.Is(cause, ErrForbidden), errors.Is(cause, ErrInvalidInput):
		result = cause
	}

	if _, err := s.log.MarkStatus(markCtx, id, models.SettlementPending, models.SettlementFailed, reason); err != nil {
		logger.Error("settlement failed and not marked", zap.Error(err), zap.NamedError("cause", cause))
	} else {
		logger.Error("settlement failed", zap.Error(cause))
	}
	return result
}

func (s *SettlementService) ListSettlements(ctx context.Context, status string, limit int) ([]models.Settlement, error) {
	switch models.SettlementStatus(status) {
	case "", models.SettlementPending, models.SettlementCompleted, models.SettlementPartial,
		models.SettlementFailed, models.SettlementIndeterminate:
	default:
		return nil, ErrInvalidInput
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.log.List(ctx, status, limit)
}

// checkSelection rejects a selection that belongs to another student or to
// another class. A missing selection is not an error here: the payment is
// still recorded and the enroll step reports zero modifications.
func checkSelection(ctx context.Context, selections selectionEnroller, input SettleInput) error {
	selection, err := selections.GetByID(ctx, input.SelectionID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil
	case err != nil:
		return fmt.Errorf("load selection: %w", err)
	case normalizeEmail(selection.StudentEmail) != input.Email:
		return fmt.Errorf("%w: selection %d belongs to another student", ErrForbidden, input.SelectionID)
	case selection.ClassID != input.ClassID:
		return fmt.Errorf("%w: selection %d is for class %d", ErrInvalidInput, input.SelectionID, selection.ClassID)
	}
	return nil
}

// maxSettleCents is the first value that no longer fits NUMERIC(10,2).
const maxSettleCents = 1e10

func validateSettleInput(input SettleInput) error {
	if input.SelectionID <= 0 || input.ClassID <= 0 || input.Email == "" {
		return ErrInvalidInput
	}
	if math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) {
		return ErrInvalidInput
	}
	if cents := math.Round(input.Amount * 100); cents < 1 || cents >= maxSettleCents {
		return ErrInvalidInput
	}
	return nil
}
