package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backoffice/internal/domain"
	"backoffice/internal/dto"
	apperrors "backoffice/internal/errors"
	"backoffice/internal/security"
)

type mockRepository struct {
	ListByOwnerFunc func(ctx context.Context, ownerID int64) ([]domain.FinancialEntry, error)
	CreateFunc      func(ctx context.Context, e domain.FinancialEntry) (int64, error)
	UpdateFunc      func(ctx context.Context, e domain.FinancialEntry) error
	DeleteFunc      func(ctx context.Context, id, ownerID int64) error
}

func (m *mockRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.FinancialEntry, error) {
	return m.ListByOwnerFunc(ctx, ownerID)
}

func (m *mockRepository) Create(ctx context.Context, e domain.FinancialEntry) (int64, error) {
	return m.CreateFunc(ctx, e)
}

func (m *mockRepository) Update(ctx context.Context, e domain.FinancialEntry) error {
	return m.UpdateFunc(ctx, e)
}

func (m *mockRepository) Delete(ctx context.Context, id, ownerID int64) error {
	return m.DeleteFunc(ctx, id, ownerID)
}

var owner = security.Principal{UserID: 4, Role: domain.RoleAdmin, Company: "Acme"}

func TestFinanceService_Create_ScopesToCaller(t *testing.T) {
	var got domain.FinancialEntry
	repo := &mockRepository{
		CreateFunc: func(ctx context.Context, e domain.FinancialEntry) (int64, error) {
			got = e
			return 9, nil
		},
	}
	svc := NewFinanceService(repo, zap.NewNop())

	id, err := svc.Create(context.Background(), owner, dto.FinancialEntryRequest{
		Description: "  Aluguel ",
		Value:       decimal.NewFromInt(-1200),
		Date:        "2024-03-10",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(9), id)
	assert.Equal(t, int64(4), got.OwnerID)
	assert.Equal(t, "Aluguel", got.Description)
}

func TestFinanceService_Update(t *testing.T) {
	tests := []struct {
		name    string
		repoErr error
		wantErr bool
	}{
		{name: "updated"},
		{name: "not owned", repoErr: apperrors.NewNotFoundError("financial entry with id 9 not found"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.FinancialEntry
			repo := &mockRepository{
				UpdateFunc: func(ctx context.Context, e domain.FinancialEntry) error {
					got = e
					return tt.repoErr
				},
			}
			svc := NewFinanceService(repo, zap.NewNop())

			err := svc.Update(context.Background(), owner, 9, dto.FinancialEntryRequest{
				Description: "Aluguel",
				Value:       decimal.NewFromInt(-1100),
				Date:        "2024-03-10",
			})

			assert.Equal(t, int64(9), got.ID)
			assert.Equal(t, int64(4), got.OwnerID)
			if tt.wantErr {
				_, ok := apperrors.IsNotFoundError(err)
				assert.True(t, ok)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFinanceService_Delete_PassesCaller(t *testing.T) {
	var gotOwner int64
	repo := &mockRepository{
		DeleteFunc: func(ctx context.Context, id, ownerID int64) error {
			gotOwner = ownerID
			return nil
		},
	}
	svc := NewFinanceService(repo, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), owner, 9))
	assert.Equal(t, int64(4), gotOwner)
}

func TestFinanceService_List_RepositoryError(t *testing.T) {
	repo := &mockRepository{
		ListByOwnerFunc: func(ctx context.Context, ownerID int64) ([]domain.FinancialEntry, error) {
			return nil, stderrors.New("connection refused")
		},
	}
	svc := NewFinanceService(repo, zap.NewNop())

	_, err := svc.List(context.Background(), owner)
	assert.Error(t, err)
}
