package services

import (
	"errors"
	"strings"

	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
)

var (
	ErrForbidden               = errors.New("forbidden")
	ErrNotFound                = errors.New("not found")
	ErrInvalidInput            = errors.New("invalid input")
	ErrConflict                = errors.New("conflict")
	ErrSeatsExhausted          = errors.New("seats exhausted")
	ErrClassNotFound           = errors.New("class not found")
	ErrUpstream                = errors.New("upstream failure")
	ErrSettlementIndeterminate = errors.New("settlement indeterminate")
	ErrPaymentsDisabled        = errors.New("payment gateway not configured")
)

// Actor is the verified caller of an operation as established by the access gate.
type Actor struct {
	Email string
	Role  models.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Owns reports whether email belongs to the actor.
func (a Actor) Owns(email string) bool {
	return a.Email != "" && strings.EqualFold(strings.TrimSpace(email), a.Email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
