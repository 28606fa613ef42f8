package controller

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"backoffice/internal/commons"
	"backoffice/internal/domain"
	"backoffice/internal/dto"
	"backoffice/internal/security"
)

// statusAll lists orders of every status instead of only finalized ones.
const statusAll = "todos"

type SaleService interface {
	Create(ctx context.Context, caller security.Principal, req dto.CreateSaleRequest) (*domain.Order, error)
	List(ctx context.Context, caller security.Principal, allStatuses bool) ([]domain.Order, error)
	Update(ctx context.Context, caller security.Principal, id int64, req dto.UpdateSaleRequest) error
	Delete(ctx context.Context, caller security.Principal, id int64) error
}

type SaleController struct {
	service SaleService
	logger  *zap.Logger
}

func NewSaleController(service SaleService, logger *zap.Logger) *SaleController {
	return &SaleController{
		service: service,
		logger:  logger,
	}
}

func (c *SaleController) List(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := security.RequirePrincipal(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	allStatuses := strings.EqualFold(r.URL.Query().Get("status"), statusAll)
	orders, err := c.service.List(r.Context(), caller, allStatuses)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	resp := make([]dto.SaleResponse, len(orders))
	for i, o := range orders {
		resp[i] = dto.SaleResponse{
			ID:       o.ID,
			Product:  o.ProductName,
			Customer: o.CustomerName,
			Quantity: o.Quantity,
			Price:    o.FinalValue,
			Date:     o.Date,
			Status:   o.Status,
		}
	}
	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func (c *SaleController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := security.RequirePrincipal(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	var req dto.CreateSaleRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteError(w, traceID, err, logger)
		return
	}
	if err := commons.Validate(req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	order, err := c.service.Create(r.Context(), caller, req)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, dto.CreateSaleResponse{
		ID:      order.ID,
		Message: "sale recorded",
	}, logger)
}

func (c *SaleController) Update(w http.ResponseWriter, r *http.Request) {
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

	var req dto.UpdateSaleRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteError(w, traceID, err, logger)
		return
	}
	if err := commons.Validate(req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	if err := c.service.Update(r.Context(), caller, id, req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "sale updated"}, logger)
}

func (c *SaleController) Delete(w http.ResponseWriter, r *http.Request) {
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

	commons.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "sale deleted"}, logger)
}
