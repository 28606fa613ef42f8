package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"backoffice/internal/domain"
	"backoffice/internal/dto"
	"backoffice/internal/security"
)

type Repository interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.FinancialEntry, error)
	Create(ctx context.Context, e domain.FinancialEntry) (int64, error)
	Update(ctx context.Context, e domain.FinancialEntry) error
	Delete(ctx context.Context, id, ownerID int64) error
}

// FinanceService keeps the caller's ledger. Entries have no effect on stock or reports.
type FinanceService struct {
	repo   Repository
	logger *zap.Logger
}

func NewFinanceService(repo Repository, logger *zap.Logger) *FinanceService {
	return &FinanceService{
		repo:   repo,
		logger: logger,
	}
}

func (s *FinanceService) List(ctx context.Context, caller security.Principal) ([]domain.FinancialEntry, error) {
	return s.repo.ListByOwner(ctx, caller.UserID)
}

func (s *FinanceService) Create(ctx context.Context, caller security.Principal, req dto.FinancialEntryRequest) (int64, error) {
	entry := fromRequest(req, caller.UserID)

	id, err := s.repo.Create(ctx, entry)
	if err != nil {
		return 0, err
	}

	s.logger.Info("financial entry created",
		zap.Int64("entryId", id),
		zap.Int64("userId", caller.UserID),
		zap.String("value", entry.Value.String()),
	)
	return id, nil
}

func (s *FinanceService) Update(ctx context.Context, caller security.Principal, id int64, req dto.FinancialEntryRequest) error {
	entry := fromRequest(req, caller.UserID)
	entry.ID = id

	if err := s.repo.Update(ctx, entry); err != nil {
		return err
	}

	s.logger.Info("financial entry updated", zap.Int64("entryId", id), zap.Int64("userId", caller.UserID))
	return nil
}

func (s *FinanceService) Delete(ctx context.Context, caller security.Principal, id int64) error {
	if err := s.repo.Delete(ctx, id, caller.UserID); err != nil {
		return err
	}

	s.logger.Info("financial entry deleted", zap.Int64("entryId", id), zap.Int64("userId", caller.UserID))
	return nil
}

func fromRequest(req dto.FinancialEntryRequest, ownerID int64) domain.FinancialEntry {
	return domain.FinancialEntry{
		Description: strings.TrimSpace(req.Description),
		Value:       req.Value,
		Date:        req.Date,
		OwnerID:     ownerID,
	}
}
