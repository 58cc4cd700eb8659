package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
)

type CreateSettlementInput struct {
	ID         string
	Email      string
	ClassID    int64
	SelectedID int64
	Amount     float64
}

type CompleteSettlementInput struct {
	Status        models.SettlementStatus
	PaymentID     int64
	ModifiedCount int64
	SeatOutcome   string
}

type SettlementRepository struct {
	db DBTX
}

func NewSettlementRepository(db DBTX) *SettlementRepository {
	return &SettlementRepository{db: db}
}

const settlementColumns = `id, email, class_id, selected_id, amount, status, payment_id, modified_count,
	seat_outcome, error, created_at, updated_at`

func scanSettlement(row pgx.Row) (*models.Settlement, error) {
	var (
		settlement models.Settlement
		status     string
	)
	if err := row.Scan(
		&settlement.ID,
		&settlement.Email,
		&settlement.ClassID,
		&settlement.SelectedID,
		&settlement.Amount,
		&status,
		&settlement.PaymentID,
		&settlement.ModifiedCount,
		&settlement.SeatOutcome,
		&settlement.Error,
		&settlement.CreatedAt,
		&settlement.UpdatedAt,
	); err != nil {
		return nil, err
	}
	settlement.Status = models.SettlementStatus(status)
	return &settlement, nil
}

func collectSettlements(rows pgx.Rows) ([]models.Settlement, error) {
	defer rows.Close()

	settlements := make([]models.Settlement, 0)
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, err
		}
		settlements = append(settlements, *settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return settlements, nil
}

// Create records the intent to settle before any settlement step runs.
func (r *SettlementRepository) Create(ctx context.Context, input CreateSettlementInput) (*models.Settlement, error) {
	query := `
		INSERT INTO settlements (id, email, class_id, selected_id, amount, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING ` + settlementColumns
	return scanSettlement(r.db.QueryRow(ctx, query, input.ID, input.Email, input.ClassID, input.SelectedID, input.Amount))
}

// Complete stores the step outcomes of a pending settlement.
func (r *SettlementRepository) Complete(ctx context.Context, id string, input CompleteSettlementInput) error {
	query := `
		UPDATE settlements
		SET status = $2, payment_id = $3, modified_count = $4, seat_outcome = $5, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	tag, err := r.db.Exec(ctx, query, id, string(input.Status), input.PaymentID, input.ModifiedCount, input.SeatOutcome)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("settlement %s is no longer pending", id)
	}
	return nil
}

// MarkStatus moves a settlement from one status to another and records an
// optional error message.
func (r *SettlementRepository) MarkStatus(
	ctx context.Context,
	id string,
	from models.SettlementStatus,
	to models.SettlementStatus,
	reason string,
) (int64, error) {
	query := `
		UPDATE settlements
		SET status = $3, error = NULLIF($4, ''), updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	tag, err := r.db.Exec(ctx, query, id, string(from), string(to), reason)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *SettlementRepository) ListStalePending(ctx context.Context, before time.Time, limit int) ([]models.Settlement, error) {
	query := `
		SELECT ` + settlementColumns + `
		FROM settlements
		WHERE status = 'pending' AND created_at < $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, before, limit)
	if err != nil {
		return nil, err
	}
	return collectSettlements(rows)
}

func (r *SettlementRepository) List(ctx context.Context, status string, limit int) ([]models.Settlement, error) {
	args := []any{}
	query := `SELECT ` + settlementColumns + ` FROM settlements`
	if status = strings.TrimSpace(status); status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" WHERE status = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectSettlements(rows)
}
