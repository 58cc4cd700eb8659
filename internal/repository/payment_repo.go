package repository

import (
	"context"

	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
)

type CreatePaymentInput struct {
	SettlementID  string
	Email         string
	ClassID       int64
	SelectedID    int64
	Amount        float64
	TransactionID *string
}

type PaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, input CreatePaymentInput) (*models.Payment, error) {
	query := `
		INSERT INTO payments (settlement_id, email, class_id, selected_id, amount, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, settlement_id, email, class_id, selected_id, amount, transaction_id, date
	`

	var payment models.Payment
	err := r.db.QueryRow(
		ctx,
		query,
		input.SettlementID,
		input.Email,
		input.ClassID,
		input.SelectedID,
		input.Amount,
		input.TransactionID,
	).Scan(
		&payment.ID,
		&payment.SettlementID,
		&payment.Email,
		&payment.ClassID,
		&payment.SelectedID,
		&payment.Amount,
		&payment.TransactionID,
		&payment.Date,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByEmail returns the payment history of a student, newest first.
func (r *PaymentRepository) ListByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	query := `
		SELECT id, settlement_id, email, class_id, selected_id, amount, transaction_id, date
		FROM payments
		WHERE email = $1
		ORDER BY date DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]models.Payment, 0)
	for rows.Next() {
		var payment models.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.SettlementID,
			&payment.Email,
			&payment.ClassID,
			&payment.SelectedID,
			&payment.Amount,
			&payment.TransactionID,
			&payment.Date,
		); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return payments, nil
}
