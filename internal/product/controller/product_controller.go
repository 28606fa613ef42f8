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

type ProductService interface {
	Dashboard(ctx context.Context, caller security.Principal) ([]domain.Product, error)
	Names(ctx context.Context, caller security.Principal) ([]string, error)
	Get(ctx context.Context, caller security.Principal, code int64) (*domain.Product, error)
	Create(ctx context.Context, caller security.Principal, req dto.ProductRequest) (int64, error)
	Update(ctx context.Context, caller security.Principal, code int64, req dto.ProductRequest) error
}

type ProductController struct {
	service ProductService
	logger  *zap.Logger
}

func NewProductController(service ProductService, logger *zap.Logger) *ProductController {
	return &ProductController{
		service: service,
		logger:  logger,
	}
}

func (c *ProductController) Dashboard(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := security.RequirePrincipal(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	products, err := c.service.Dashboard(r.Context(), caller)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	resp := make([]dto.ProductResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}
	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func (c *ProductController) Names(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := security.RequirePrincipal(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	names, err := c.service.Names(r.Context(), caller)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	resp := make([]dto.ProductNameResponse, len(names))
	for i, n := range names {
		resp[i] = dto.ProductNameResponse{Name: n}
	}
	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
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

	product, err := c.service.Get(r.Context(), caller, code)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toProductResponse(*product), logger)
}

func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
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

	code, err := c.service.Create(r.Context(), caller, req)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, dto.CreateProductResponse{
		Code:    code,
		Message: "product created",
	}, logger)
}

func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
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

	req, ok := c.decodeRequest(w, r, traceID, logger)
	if !ok {
		return
	}

	if err := c.service.Update(r.Context(), caller, code, req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "product updated"}, logger)
}

func (c *ProductController) decodeRequest(w http.ResponseWriter, r *http.Request, traceID string, logger *zap.Logger) (dto.ProductRequest, bool) {
	var req dto.ProductRequest
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

func toProductResponse(p domain.Product) dto.ProductResponse {
	return dto.ProductResponse{
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		Quantity:    p.Quantity,
	}
}
