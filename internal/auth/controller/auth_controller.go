package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"backoffice/internal/auth/service"
	"backoffice/internal/commons"
	"backoffice/internal/dto"
	apperrors "backoffice/internal/errors"
)

const (
	RefreshCookieName = "refresh_token"
	refreshCookiePath = "/refresh"
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (int64, error)
	Login(ctx context.Context, req dto.LoginRequest) (*service.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*service.Session, error)
	RefreshTTL() time.Duration
}

type AuthController struct {
	service      AuthService
	cookieSecure bool
	logger       *zap.Logger
}

func NewAuthController(service AuthService, cookieSecure bool, logger *zap.Logger) *AuthController {
	return &AuthController{
		service:      service,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.RegisterRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteError(w, traceID, err, logger)
		return
	}
	if err := commons.Validate(req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	id, err := c.service.Register(r.Context(), req)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, dto.RegisterResponse{
		ID:      id,
		Message: "user registered",
	}, logger)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.LoginRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		commons.WriteError(w, traceID, err, logger)
		return
	}
	if err := commons.Validate(req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	session, err := c.service.Login(r.Context(), req)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    session.RefreshToken,
		Path:     refreshCookiePath,
		MaxAge:   int(c.service.RefreshTTL().Seconds()),
		HttpOnly: true,
		Secure:   c.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	commons.WriteJSON(w, http.StatusOK, toTokenResponse(session), logger)
}

func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	cookie, err := r.Cookie(RefreshCookieName)
	if errors.Is(err, http.ErrNoCookie) {
		commons.WriteError(w, traceID, apperrors.NewUnauthorizedError(apperrors.ReasonTokenMissing, "refresh token is missing"), logger)
		return
	}
	if err != nil {
		commons.WriteError(w, traceID, apperrors.NewUnauthorizedError(apperrors.ReasonTokenInvalid, "refresh token is invalid"), logger)
		return
	}

	session, err := c.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		if ue, ok := apperrors.IsUnauthorizedError(err); ok && ue.Reason == apperrors.ReasonTokenExpired {
			err = apperrors.NewUnauthorizedError(apperrors.ReasonTokenExpired, "refresh token has expired, login again")
		}
		logger.Warn("refresh rejected", zap.Error(err))
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, toTokenResponse(session), logger)
}

func toTokenResponse(s *service.Session) dto.TokenResponse {
	return dto.TokenResponse{
		Token:     s.AccessToken,
		Role:      string(s.Role),
		ExpiresIn: int64(s.ExpiresIn.Seconds()),
	}
}
