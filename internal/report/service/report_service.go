package service

import (
	"context"

	"go.uber.org/zap"

	"backoffice/internal/domain"
	apperrors "backoffice/internal/errors"
	"backoffice/internal/security"
)

type Repository interface {
	ProductMonthlyProfit(ctx context.Context, productName string, ownerID int64) ([]domain.ProductMonthlyProfit, error)
	MonthlyProfit(ctx context.Context, ownerID int64) ([]domain.MonthlyProfit, error)
}

type Renderer interface {
	RenderMonthlyProfit(company string, months []domain.MonthlyProfit) ([]byte, error)
}

type ReportService struct {
	repo     Repository
	renderer Renderer
	logger   *zap.Logger
}

func NewReportService(repo Repository, renderer Renderer, logger *zap.Logger) *ReportService {
	return &ReportService{
		repo:     repo,
		renderer: renderer,
		logger:   logger,
	}
}

func (s *ReportService) ProductMonthlyProfit(ctx context.Context, caller security.Principal, productName string) ([]domain.ProductMonthlyProfit, error) {
	name := domain.NormalizeName(productName)
	if name == "" {
		return nil, apperrors.NewValidationError("invalid nome", apperrors.ValidationDetail{
			Field:   "nome",
			Message: "nome is required",
		})
	}
	return s.repo.ProductMonthlyProfit(ctx, name, caller.UserID)
}

func (s *ReportService) MonthlyProfit(ctx context.Context, caller security.Principal) ([]domain.MonthlyProfit, error) {
	return s.repo.MonthlyProfit(ctx, caller.UserID)
}

// MonthlyProfitPDF renders the same rows MonthlyProfit returns.
func (s *ReportService) MonthlyProfitPDF(ctx context.Context, caller security.Principal) ([]byte, error) {
	months, err := s.repo.MonthlyProfit(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	doc, err := s.renderer.RenderMonthlyProfit(caller.Company, months)
	if err != nil {
		return nil, apperrors.NewInternalError("rendering monthly profit report", err)
	}

	s.logger.Info("monthly profit report rendered",
		zap.Int64("userId", caller.UserID),
		zap.Int("months", len(months)),
		zap.Int("bytes", len(doc)),
	)
	return doc, nil
}
