package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
	"github.com/najimahamed22/sportZoneAcademy-server/internal/repository"
)

type paymentCreator interface {
	Create(ctx context.Context, input repository.CreatePaymentInput) (*models.Payment, error)
}

type selectionEnroller interface {
	GetByID(ctx context.Context, id int64) (*models.Selection, error)
	MarkEnrolled(ctx context.Context, selectionID int64) (int64, error)
}

type settlementCompleter interface {
	Complete(ctx context.Context, id string, input repository.CompleteSettlementInput) error
}

// SettlementRepos are the collaborators of one settlement, all bound to the
// same transaction.
type SettlementRepos struct {
	Payments    paymentCreator
	Selections  selectionEnroller
	Ledger      *SeatLedger
	Settlements settlementCompleter
}

type settlementUnitOfWork interface {
	Within(ctx context.Context, fn func(repos SettlementRepos) error) error
}

type PgSettlementUnitOfWork struct {
	db *pgxpool.Pool
}

func NewPgSettlementUnitOfWork(db *pgxpool.Pool) *PgSettlementUnitOfWork {
	return &PgSettlementUnitOfWork{db: db}
}

// Within runs fn in a transaction and commits only when fn returns nil.
func (u *PgSettlementUnitOfWork) Within(ctx context.Context, fn func(repos SettlementRepos) error) error {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	repos := SettlementRepos{
		Payments:    repository.NewPaymentRepository(tx),
		Selections:  repository.NewSelectionRepository(tx),
		Ledger:      NewSeatLedger(repository.NewClassRepository(tx)),
		Settlements: repository.NewSettlementRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
