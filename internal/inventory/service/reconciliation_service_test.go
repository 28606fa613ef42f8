package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"backoffice/internal/domain"
	apperrors "backoffice/internal/errors"
)

type mockReconciliationStore struct {
	ReconciliationFunc func(ctx context.Context, productID, ownerID int64) (*domain.StockReconciliation, error)
}

func (m *mockReconciliationStore) Reconciliation(ctx context.Context, productID, ownerID int64) (*domain.StockReconciliation, error) {
	return m.ReconciliationFunc(ctx, productID, ownerID)
}

func TestReconciliationService_Reconcile(t *testing.T) {
	tests := []struct {
		name     string
		rec      domain.StockReconciliation
		wantWarn int
	}{
		{name: "in sync", rec: domain.StockReconciliation{ProductCode: 3, Recorded: 7, Purchased: 10, Sold: 3}},
		{name: "drifted", rec: domain.StockReconciliation{ProductCode: 3, Recorded: 9, Purchased: 10, Sold: 3}, wantWarn: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			store := &mockReconciliationStore{
				ReconciliationFunc: func(ctx context.Context, productID, ownerID int64) (*domain.StockReconciliation, error) {
					assert.Equal(t, int64(3), productID)
					assert.Equal(t, int64(1), ownerID)
					rec := tt.rec
					return &rec, nil
				},
			}

			rec, err := NewReconciliationService(store, zap.New(core)).Reconcile(context.Background(), 3, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.rec.Recorded, rec.Recorded)
			assert.Equal(t, tt.wantWarn, logs.FilterMessage("stock drift detected").Len())
		})
	}
}

func TestReconciliationService_Reconcile_NotFound(t *testing.T) {
	store := &mockReconciliationStore{
		ReconciliationFunc: func(ctx context.Context, productID, ownerID int64) (*domain.StockReconciliation, error) {
			return nil, apperrors.NewNotFoundError("product with cod 3 not found")
		},
	}

	_, err := NewReconciliationService(store, zap.NewNop()).Reconcile(context.Background(), 3, 1)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}
