package security

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"backoffice/internal/commons"
	"backoffice/internal/domain"
	apperrors "backoffice/internal/errors"
)

type TokenParser interface {
	Parse(tokenString string, typ TokenType) (*Principal, error)
}

// Authenticate rejects the request with 401 unless it carries a valid access
// token. A rejected request never reaches next.
func Authenticate(tokens TokenParser, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := tokens.Parse(bearerToken(r), AccessToken)
			if err != nil {
				traceID := uuid.New().String()
				logger.Warn("request rejected by auth gate",
					zap.String("traceId", traceID),
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				commons.WriteError(w, traceID, err, logger)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), *principal)))
		})
	}
}

// RequireRole must run after Authenticate.
func RequireRole(logger *zap.Logger, roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFrom(r.Context())
			if !ok {
				commons.WriteError(w, uuid.New().String(),
					apperrors.NewUnauthorizedError(apperrors.ReasonTokenMissing, "token is missing"), logger)
				return
			}
			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			commons.WriteError(w, uuid.New().String(), apperrors.NewForbiddenError("insufficient role"), logger)
		})
	}
}

// bearerToken accepts "Bearer <token>" and, like older clients send it, a bare token.
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if scheme, token, found := strings.Cut(header, " "); found && strings.EqualFold(scheme, "bearer") {
		return strings.TrimSpace(token)
	}
	if strings.EqualFold(header, "bearer") {
		return ""
	}
	return header
}
