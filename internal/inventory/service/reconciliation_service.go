package service

import (
	"context"

	"go.uber.org/zap"

	"backoffice/internal/domain"
)

type ReconciliationStore interface {
	Reconciliation(ctx context.Context, productID, ownerID int64) (*domain.StockReconciliation, error)
}

// ReconciliationService reports how far the recorded stock of a product has
// drifted from its purchase and finalized sale history. It never writes.
type ReconciliationService struct {
	store  ReconciliationStore
	logger *zap.Logger
}

func NewReconciliationService(store ReconciliationStore, logger *zap.Logger) *ReconciliationService {
	return &ReconciliationService{
		store:  store,
		logger: logger,
	}
}

func (s *ReconciliationService) Reconcile(ctx context.Context, productID, ownerID int64) (*domain.StockReconciliation, error) {
	rec, err := s.store.Reconciliation(ctx, productID, ownerID)
	if err != nil {
		return nil, err
	}

	if drift := rec.Drift(); drift != 0 {
		s.logger.Warn("stock drift detected",
			zap.Int64("productId", productID),
			zap.Int("recorded", rec.Recorded),
			zap.Int("expected", rec.Expected()),
			zap.Int("drift", drift),
		)
	}
	return rec, nil
}
