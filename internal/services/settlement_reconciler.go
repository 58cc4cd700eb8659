package services

import (
	"context"
	"time"

	"github.com/najimahamed22/sportZoneAcademy-server/internal/models"
	"go.uber.org/zap"
)

type staleSettlementStore interface {
	ListStalePending(ctx context.Context, before time.Time, limit int) ([]models.Settlement, error)
	MarkStatus(ctx context.Context, id string, from, to models.SettlementStatus, reason string) (int64, error)
}

// SettlementReconciler flags settlement intents that never reached a final
// status, e.g. because the process died between writing the intent and
// committing the steps. Operators reconcile indeterminate intents against the
// payment gateway.
type SettlementReconciler struct {
	store     staleSettlementStore
	after     time.Duration
	batchSize int
	logger    *zap.Logger
	now       func() time.Time
}

func NewSettlementReconciler(store staleSettlementStore, after time.Duration, logger *zap.Logger) *SettlementReconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettlementReconciler{
		store:     store,
		after:     after,
		batchSize: 100,
		logger:    logger,
		now:       time.Now,
	}
}

func (r *SettlementReconciler) RunOnce(ctx context.Context) (int, error) {
	cutoff := r.now().UTC().Add(-r.after)
	stale, err := r.store.ListStalePending(ctx, cutoff, r.batchSize)
	if err != nil {
		r.logger.Error("list stale settlements", zap.Error(err))
		return 0, err
	}

	flagged := 0
	for _, settlement := range stale {
		updated, err := r.store.MarkStatus(
			ctx,
			settlement.ID,
			models.SettlementPending,
			models.SettlementIndeterminate,
			"no outcome recorded within "+r.after.String(),
		)
		if err != nil {
			r.logger.Error("flag stale settlement", zap.String("settlement_id", settlement.ID), zap.Error(err))
			return flagged, err
		}
		if updated == 0 {
			continue
		}
		flagged++
		r.logger.Warn("settlement flagged indeterminate",
			zap.String("settlement_id", settlement.ID),
			zap.String("email", settlement.Email),
			zap.Int64("class_id", settlement.ClassID),
			zap.Int64("selection_id", settlement.SelectedID),
			zap.Float64("amount", settlement.Amount),
			zap.Time("created_at", settlement.CreatedAt),
		)
	}
	return flagged, nil
}

// Run calls RunOnce every interval until ctx is done.
func (r *SettlementReconciler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = r.RunOnce(ctx)
		}
	}
}
