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

type UserService interface {
	List(ctx context.Context, caller security.Principal) ([]domain.User, error)
	Get(ctx context.Context, caller security.Principal, id int64) (*domain.User, error)
	Update(ctx context.Context, caller security.Principal, id int64, req dto.UpdateUserRequest) (*domain.User, error)
}

type UserController struct {
	service UserService
	logger  *zap.Logger
}

func NewUserController(service UserService, logger *zap.Logger) *UserController {
	return &UserController{
		service: service,
		logger:  logger,
	}
}

func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	caller, err := security.RequirePrincipal(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	users, err := c.service.List(r.Context(), caller)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	resp := make([]dto.UserResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}
	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func (c *UserController) Get(w http.ResponseWriter, r *http.Request) {
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

	user, err := c.service.Get(r.Context(), caller, id)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toUserResponse(*user), logger)
}

func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
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

	var req dto.UpdateUserRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteError(w, traceID, err, logger)
		return
	}
	if err := commons.Validate(req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	user, err := c.service.Update(r.Context(), caller, id, req)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toUserResponse(*user), logger)
}

func toUserResponse(u domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Role:    string(u.Role),
		Company: u.Company,
	}
}
