package models

import "time"

type Payment struct {
	ID            int64     `json:"id"`
	SettlementID  string    `json:"settlement_id"`
	Email         string    `json:"email"`
	ClassID       int64     `json:"class_id"`
	SelectedID    int64     `json:"selected_id"`
	Amount        float64   `json:"amount"`
	TransactionID *string   `json:"transaction_id"`
	Date          time.Time `json:"date"`
}

type SettlementStatus string

const (
	SettlementPending       SettlementStatus = "pending"
	SettlementCompleted     SettlementStatus = "completed"
	SettlementPartial       SettlementStatus = "partial"
	SettlementFailed        SettlementStatus = "failed"
	SettlementIndeterminate SettlementStatus = "indeterminate"
)

// Seat outcomes recorded on a settlement.
const (
	SeatOutcomeReserved       = "reserved"
	SeatOutcomeSeatsExhausted = "seats_exhausted"
	SeatOutcomeClassNotFound  = "class_not_found"
)

// Settlement is one row of the settlement intent log.
type Settlement struct {
	ID            string           `json:"id"`
	Email         string           `json:"email"`
	ClassID       int64            `json:"class_id"`
	SelectedID    int64            `json:"selected_id"`
	Amount        float64          `json:"amount"`
	Status        SettlementStatus `json:"status"`
	PaymentID     *int64           `json:"payment_id"`
	ModifiedCount *int64           `json:"modified_count"`
	SeatOutcome   *string          `json:"seat_outcome"`
	Error         *string          `json:"error"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type InsertResult struct {
	Acknowledged bool  `json:"acknowledged"`
	InsertedID   int64 `json:"inserted_id"`
}

type SeatUpdateResult struct {
	Acknowledged   bool   `json:"acknowledged"`
	Reason         string `json:"reason,omitempty"`
	AvailableSeats *int   `json:"available_seats,omitempty"`
	SeatBookings   *int   `json:"seat_bookings,omitempty"`
}

// SettlementResult reports each settlement step separately.
type SettlementResult struct {
	SettlementID  string           `json:"settlement_id"`
	Status        SettlementStatus `json:"status"`
	InsertResult  InsertResult     `json:"insert_result"`
	ModifiedCount int64            `json:"modified_count"`
	SeatUpdate    SeatUpdateResult `json:"seat_update"`
	Payment       *Payment         `json:"payment,omitempty"`
}
