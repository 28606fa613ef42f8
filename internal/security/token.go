package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"backoffice/internal/config"
	"backoffice/internal/domain"
	apperrors "backoffice/internal/errors"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// Claims adds the caller identity to the registered claims. Type keeps a
// refresh token from being accepted as an access token and the reverse.
type Claims struct {
	jwt.RegisteredClaims
	UserID  int64     `json:"user_id"`
	Role    string    `json:"role"`
	Company string    `json:"company"`
	Type    TokenType `json:"typ"`
}

type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(cfg config.AuthConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt: empty secret")
	}
	return &TokenService{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}, nil
}

func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *TokenService) IssueAccess(user domain.User) (string, error) {
	return s.issue(user, AccessToken, s.accessTTL)
}

func (s *TokenService) IssueRefresh(user domain.User) (string, error) {
	return s.issue(user, RefreshToken, s.refreshTTL)
}

func (s *TokenService) issue(user domain.User, typ TokenType, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:  user.ID,
		Role:    string(user.Role),
		Company: user.Company,
		Type:    typ,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", typ, err)
	}
	return signed, nil
}

// Parse verifies signature, expiry and token class. Failures are
// UnauthorizedErrors whose reason tells expired apart from invalid.
func (s *TokenService) Parse(tokenString string, typ TokenType) (*Principal, error) {
	if tokenString == "" {
		return nil, apperrors.NewUnauthorizedError(apperrors.ReasonTokenMissing, "token is missing")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.NewUnauthorizedError(apperrors.ReasonTokenExpired, "token has expired")
		}
		return nil, apperrors.NewUnauthorizedError(apperrors.ReasonTokenInvalid, "token is invalid")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Type != typ || claims.UserID <= 0 {
		return nil, apperrors.NewUnauthorizedError(apperrors.ReasonTokenInvalid, "token is invalid")
	}

	return &Principal{
		UserID:  claims.UserID,
		Role:    domain.Role(claims.Role),
		Company: claims.Company,
	}, nil
}
