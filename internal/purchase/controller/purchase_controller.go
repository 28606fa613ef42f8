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

type PurchaseService interface {
	Create(ctx context.Context, caller security.Principal, req dto.PurchaseRequest) (*domain.Purchase, error)
	List(ctx context.Context, caller security.Principal) ([]domain.Purchase, error)
	Update(ctx context.Context, caller security.Principal, id int64, req dto.PurchaseRequest) error
	Delete(ctx context.Context, caller security.Principal, id int64) error
}

type PurchaseController struct {
	service PurchaseService
	logger  *zap.Logger
}

func NewPurchaseController(service PurchaseService, logger *zap.Logger) *PurchaseController {
	return &PurchaseController{
		service: service,
		logger:  logger,
	}
}

func (c *PurchaseController) List(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := security.RequirePrincipal(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	purchases, err := c.service.List(r.Context(), caller)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	resp := make([]dto.PurchaseResponse, len(purchases))
	for i, p := range purchases {
		resp[i] = dto.PurchaseResponse{
			ID:        p.ID,
			Product:   p.ProductName,
			Quantity:  p.Quantity,
			Category:  p.Category,
			UnitPrice: p.UnitPrice,
			Total:     p.Total(),
			Date:      p.Date,
			Supplier:  p.SupplierName,
		}
	}
	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func (c *PurchaseController) Create(w http.ResponseWriter, r *http.Request) {
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

	purchase, err := c.service.Create(r.Context(), caller, req)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, dto.CreatePurchaseResponse{
		ID:        purchase.ID,
		ProductID: purchase.ProductID,
		Message:   "purchase recorded",
	}, logger)
}

func (c *PurchaseController) Update(w http.ResponseWriter, r *http.Request) {
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

	commons.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "purchase updated"}, logger)
}

func (c *PurchaseController) Delete(w http.ResponseWriter, r *http.Request) {
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

	commons.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "purchase deleted"}, logger)
}

func (c *PurchaseController) decodeRequest(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger) (dto.PurchaseRequest, bool) {
	var req dto.PurchaseRequest
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
