package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backoffice/internal/auth/service"
	"backoffice/internal/commons"
	"backoffice/internal/domain"
	"backoffice/internal/dto"
	apperrors "backoffice/internal/errors"
)

type mockAuthService struct {
	RegisterFunc func(ctx context.Context, req dto.RegisterRequest) (int64, error)
	LoginFunc    func(ctx context.Context, req dto.LoginRequest) (*service.Session, error)
	RefreshFunc  func(ctx context.Context, refreshToken string) (*service.Session, error)
}

func (m *mockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (int64, error) {
	return m.RegisterFunc(ctx, req)
}

func (m *mockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*service.Session, error) {
	return m.LoginFunc(ctx, req)
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (*service.Session, error) {
	return m.RefreshFunc(ctx, refreshToken)
}

func (m *mockAuthService) RefreshTTL() time.Duration {
	return time.Hour
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) commons.ErrorResponse {
	t.Helper()
	var body commons.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthController_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{
			name:       "created",
			body:       `{"nome":"Ana","email":"ana@acme.com","senha":"s3cret!","tipo":"admin","empresa":"Acme"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid role",
			body:       `{"nome":"Ana","email":"ana@acme.com","senha":"s3cret!","tipo":"root","empresa":"Acme"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing company",
			body:       `{"nome":"Ana","email":"ana@acme.com","senha":"s3cret!","tipo":"admin"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "duplicate email",
			body:       `{"nome":"Ana","email":"ana@acme.com","senha":"s3cret!","tipo":"admin","empresa":"Acme"}`,
			serviceErr: apperrors.NewConflictError("email already registered"),
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAuthService{
				RegisterFunc: func(ctx context.Context, req dto.RegisterRequest) (int64, error) {
					return 5, tt.serviceErr
				},
			}
			c := NewAuthController(svc, true, zap.NewNop())

			rec := httptest.NewRecorder()
			c.Register(rec, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusCreated {
				var body dto.RegisterResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, int64(5), body.ID)
			}
		})
	}
}

func TestAuthController_Login_SetsRefreshCookie(t *testing.T) {
	svc := &mockAuthService{
		LoginFunc: func(ctx context.Context, req dto.LoginRequest) (*service.Session, error) {
			return &service.Session{
				AccessToken:  "access",
				RefreshToken: "refresh",
				Role:         domain.RoleEmployee,
				ExpiresIn:    15 * time.Minute,
			}, nil
		},
	}
	c := NewAuthController(svc, true, zap.NewNop())

	rec := httptest.NewRecorder()
	c.Login(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"ana@acme.com","senha":"x"}`)))

	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "access", body.Token)
	assert.Equal(t, "employee", body.Role)
	assert.Equal(t, int64(900), body.ExpiresIn)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, RefreshCookieName, cookies[0].Name)
	assert.Equal(t, "refresh", cookies[0].Value)
	assert.Equal(t, "/refresh", cookies[0].Path)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.NotContains(t, rec.Body.String(), "refresh")
}

func TestAuthController_Login_InvalidCredentials(t *testing.T) {
	svc := &mockAuthService{
		LoginFunc: func(ctx context.Context, req dto.LoginRequest) (*service.Session, error) {
			return nil, apperrors.NewUnauthorizedError(apperrors.ReasonInvalidCredentials, "invalid email or password")
		},
	}
	c := NewAuthController(svc, true, zap.NewNop())

	rec := httptest.NewRecorder()
	c.Login(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"ana@acme.com","senha":"x"}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, rec).Error)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuthController_Refresh(t *testing.T) {
	tests := []struct {
		name       string
		cookie     *http.Cookie
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "fresh access token",
			cookie:     &http.Cookie{Name: RefreshCookieName, Value: "refresh"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "no cookie",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "TOKEN_MISSING",
		},
		{
			name:       "expired",
			cookie:     &http.Cookie{Name: RefreshCookieName, Value: "old"},
			serviceErr: apperrors.NewUnauthorizedError(apperrors.ReasonTokenExpired, "token has expired"),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "TOKEN_EXPIRED",
		},
		{
			name:       "invalid",
			cookie:     &http.Cookie{Name: RefreshCookieName, Value: "forged"},
			serviceErr: apperrors.NewUnauthorizedError(apperrors.ReasonTokenInvalid, "token is invalid"),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "TOKEN_INVALID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotToken string
			svc := &mockAuthService{
				RefreshFunc: func(ctx context.Context, refreshToken string) (*service.Session, error) {
					gotToken = refreshToken
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &service.Session{AccessToken: "new-access", Role: domain.RoleAdmin, ExpiresIn: time.Minute}, nil
				},
			}
			c := NewAuthController(svc, true, zap.NewNop())

			req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			c.Refresh(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Error)
				return
			}
			assert.Equal(t, "refresh", gotToken)
			assert.Contains(t, rec.Body.String(), "new-access")
		})
	}
}
