package controller

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"backoffice/internal/commons"
	"backoffice/internal/domain"
	"backoffice/internal/dto"
	"backoffice/internal/security"
)

type ReportService interface {
	ProductMonthlyProfit(ctx context.Context, caller security.Principal, productName string) ([]domain.ProductMonthlyProfit, error)
	MonthlyProfit(ctx context.Context, caller security.Principal) ([]domain.MonthlyProfit, error)
	MonthlyProfitPDF(ctx context.Context, caller security.Principal) ([]byte, error)
}

type ReportController struct {
	service ReportService
	logger  *zap.Logger
}

func NewReportController(service ReportService, logger *zap.Logger) *ReportController {
	return &ReportController{
		service: service,
		logger:  logger,
	}
}

func (c *ReportController) ProductMonthlyProfit(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := security.RequirePrincipal(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	name := chi.URLParam(r, "nome")
	// chi matches against RawPath when it is set, leaving the segment escaped.
	if r.URL.RawPath != "" {
		if name, err = url.PathUnescape(name); err != nil {
			commons.WriteValidationError(w, traceID, "invalid nome", logger)
			return
		}
	}

	rows, err := c.service.ProductMonthlyProfit(r.Context(), caller, name)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	resp := make([]dto.ProductMonthlyProfitResponse, len(rows))
	for i, p := range rows {
		resp[i] = dto.ProductMonthlyProfitResponse{Month: p.Month, Profit: p.Profit}
	}
	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func (c *ReportController) MonthlyProfit(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := security.RequirePrincipal(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	rows, err := c.service.MonthlyProfit(r.Context(), caller)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	resp := make([]dto.MonthlyProfitResponse, len(rows))
	for i, p := range rows {
		resp[i] = dto.MonthlyProfitResponse{
			Month:   p.Month,
			Revenue: p.Revenue,
			Cost:    p.Cost,
			Profit:  p.Profit,
		}
	}
	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func (c *ReportController) MonthlyProfitPDF(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := security.RequirePrincipal(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	doc, err := c.service.MonthlyProfitPDF(r.Context(), caller)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="lucro-mensal.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		logger.Error("failed to write pdf response", zap.Error(err))
	}
}
