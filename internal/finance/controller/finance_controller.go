package controller

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"backoffice/internal/commons"
	"backoffice/internal/domain"
	"backoffice/internal/dto"
	"backoffice/internal/security"
)

type FinanceService interface {
	List(ctx context.Context, caller security.Principal) ([]domain.FinancialEntry, error)
	Create(ctx context.Context, caller security.Principal, req dto.FinancialEntryRequest) (int64, error)
	Update(ctx context.Context, caller security.Principal, id int64, req dto.FinancialEntryRequest) error
	Delete(ctx context.Context, caller security.Principal, id int64) error
}

type FinanceController struct {
	service FinanceService
	logger  *zap.Logger
}

func NewFinanceController(service FinanceService, logger *zap.Logger) *FinanceController {
	return &FinanceController{
		service: service,
		logger:  logger,
	}
}

func (c *FinanceController) List(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := security.RequirePrincipal(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	entries, err := c.service.List(r.Context(), caller)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	resp := make([]dto.FinancialEntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = dto.FinancialEntryResponse{
			ID:          e.ID,
			Description: e.Description,
			Value:       e.Value,
			Date:        e.Date,
		}
	}
	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func (c *FinanceController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := security.RequirePrincipal(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	req, ok := c.decodeRequest(w, r, traceID, logger)
	if !ok {
		return
	}

	id, err := c.service.Create(r.Context(), caller, req)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, dto.FinancialEntryResponse{
		ID:          id,
		Description: req.Description,
		Value:       req.Value,
		Date:        req.Date,
	}, logger)
}

func (c *FinanceController) Update(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := security.RequirePrincipal(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	id, err := commons.PathID(r, "id")
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	req, ok := c.decodeRequest(w, r, traceID, logger)
	if !ok {
		return
	}

	if err := c.service.Update(r.Context(), caller, id, req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "entry updated"}, logger)
}

func (c *FinanceController) Delete(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := security.RequirePrincipal(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	id, err := commons.PathID(r, "id")
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	if err := c.service.Delete(r.Context(), caller, id); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "entry deleted"}, logger)
}

func (c *FinanceController) decodeRequest(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger) (dto.FinancialEntryRequest, bool) {
	var req dto.FinancialEntryRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteError(w, traceID, err, logger)
		return req, false
	}
	if err := commons.Validate(req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return req, false
	}
	return req, true
}
