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

type ReconciliationService interface {
	Reconcile(ctx context.Context, productID, ownerID int64) (*domain.StockReconciliation, error)
}

type ReconciliationController struct {
	service ReconciliationService
	logger  *zap.Logger
}

func NewReconciliationController(service ReconciliationService, logger *zap.Logger) *ReconciliationController {
	return &ReconciliationController{
		service: service,
		logger:  logger,
	}
}

func (c *ReconciliationController) Get(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := security.RequirePrincipal(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	code, err := commons.PathID(r, "cod")
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	rec, err := c.service.Reconcile(r.Context(), code, caller.UserID)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.StockReconciliationResponse{
		Code:      rec.ProductCode,
		Name:      rec.ProductName,
		Recorded:  rec.Recorded,
		Purchased: rec.Purchased,
		Sold:      rec.Sold,
		Expected:  rec.Expected(),
		Drift:     rec.Drift(),
	}, logger)
}
