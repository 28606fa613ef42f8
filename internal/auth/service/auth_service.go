package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"backoffice/internal/domain"
	"backoffice/internal/dto"
	apperrors "backoffice/internal/errors"
	"backoffice/internal/security"
)

type UserStore interface {
	Create(ctx context.Context, user domain.User) (int64, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

type TokenIssuer interface {
	IssueAccess(user domain.User) (string, error)
	IssueRefresh(user domain.User) (string, error)
	Parse(tokenString string, typ security.TokenType) (*security.Principal, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// Session is the outcome of a login or refresh. RefreshToken is empty on refresh.
type Session struct {
	AccessToken  string
	RefreshToken string
	Role         domain.Role
	ExpiresIn    time.Duration
}

type AuthService struct {
	users  UserStore
	tokens TokenIssuer
	logger *zap.Logger
	cost   int
}

func NewAuthService(users UserStore, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
		cost:   bcrypt.DefaultCost,
	}
}

// bcrypt rejects passwords longer than 72 bytes; the validator's max counts runes.
const maxPasswordBytes = 72

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (int64, error) {
	if len(req.Password) > maxPasswordBytes {
		return 0, passwordTooLong()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if stderrors.Is(err, bcrypt.ErrPasswordTooLong) {
		return 0, passwordTooLong()
	}
	if err != nil {
		return 0, fmt.Errorf("hashing password: %w", err)
	}

	user := domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(hash),
		Role:         domain.Role(req.Role),
		Company:      strings.TrimSpace(req.Company),
	}

	id, err := s.users.Create(ctx, user)
	if err != nil {
		return 0, err
	}

	s.logger.Info("user registered",
		zap.Int64("userId", id),
		zap.String("role", string(user.Role)),
		zap.String("company", user.Company),
	)
	return id, nil
}

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if _, ok := apperrors.IsNotFoundError(err); ok {
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login rejected", zap.Int64("userId", user.ID))
		return nil, invalidCredentials()
	}

	access, err := s.tokens.IssueAccess(*user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(*user)
	if err != nil {
		return nil, err
	}

	return &Session{
		AccessToken:  access,
		RefreshToken: refresh,
		Role:         user.Role,
		ExpiresIn:    s.tokens.AccessTTL(),
	}, nil
}

// Refresh re-reads the user so role and company changes reach the new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	principal, err := s.tokens.Parse(refreshToken, security.RefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, principal.UserID)
	if _, ok := apperrors.IsNotFoundError(err); ok {
		return nil, apperrors.NewUnauthorizedError(apperrors.ReasonTokenInvalid, "token is invalid")
	}
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.IssueAccess(*user)
	if err != nil {
		return nil, err
	}

	return &Session{
		AccessToken: access,
		Role:        user.Role,
		ExpiresIn:   s.tokens.AccessTTL(),
	}, nil
}

func (s *AuthService) RefreshTTL() time.Duration {
	return s.tokens.RefreshTTL()
}

func passwordTooLong() error {
	return apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
		Field:   "senha",
		Message: fmt.Sprintf("must be at most %d bytes", maxPasswordBytes),
	})
}

func invalidCredentials() error {
	return apperrors.NewUnauthorizedError(apperrors.ReasonInvalidCredentials, "invalid email or password")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
