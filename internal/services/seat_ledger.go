package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
)

type seatStore interface {
	ReserveSeat(ctx context.Context, classID int64) (*models.SeatInventory, error)
	GetInventory(ctx context.Context, classID int64) (*models.SeatInventory, error)
	Exists(ctx context.Context, classID int64) (bool, error)
}

// SeatLedger owns the available_seats / seat_bookings counters of a class.
// Reservations are a single conditional update in the store, never a read
// followed by a write.
type SeatLedger struct {
	classes seatStore
}

func NewSeatLedger(classes seatStore) *SeatLedger {
	return &SeatLedger{classes: classes}
}

func (l *SeatLedger) Reserve(ctx context.Context, classID int64) (*models.SeatInventory, error) {
	if classID <= 0 {
		return nil, ErrInvalidInput
	}

	inventory, err := l.classes.ReserveSeat(ctx, classID)
	if err == nil {
		return inventory, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("reserve seat: %w", err)
	}

	exists, err := l.classes.Exists(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("check class: %w", err)
	}
	if !exists {
		return nil, ErrClassNotFound
	}
	return nil, ErrSeatsExhausted
}

func (l *SeatLedger) Inventory(ctx context.Context, classID int64) (*models.SeatInventory, error) {
	inventory, err := l.classes.GetInventory(ctx, classID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}
	return inventory, nil
}
