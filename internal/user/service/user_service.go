package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"backoffice/internal/domain"
	"backoffice/internal/dto"
	apperrors "backoffice/internal/errors"
	"backoffice/internal/security"
)

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	ListByCompany(ctx context.Context, company string) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) error
}

// UserService lists and edits users inside the caller's company. Admins may
// edit anyone there; employees only themselves and never their role.
type UserService struct {
	repo   UserRepository
	logger *zap.Logger
}

func NewUserService(repo UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger,
	}
}

func (s *UserService) List(ctx context.Context, caller security.Principal) ([]domain.User, error) {
	return s.repo.ListByCompany(ctx, caller.Company)
}

func (s *UserService) Get(ctx context.Context, caller security.Principal, id int64) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Company != caller.Company {
		return nil, apperrors.NewForbiddenError("user belongs to another company")
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, caller security.Principal, id int64, req dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() && caller.UserID != id {
		return nil, apperrors.NewForbiddenError("only admins can modify other users")
	}

	role := user.Role
	if req.Role != "" {
		role = domain.Role(req.Role)
	}
	if role != user.Role && !caller.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only admins can change roles")
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	user.Role = role

	if err := s.repo.Update(ctx, *user); err != nil {
		return nil, err
	}

	s.logger.Info("user updated",
		zap.Int64("userId", user.ID),
		zap.Int64("updatedBy", caller.UserID),
		zap.String("role", string(user.Role)),
	)
	return user, nil
}
