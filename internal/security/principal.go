package security

import (
	"context"

	"backoffice/internal/domain"
	apperrors "backoffice/internal/errors"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID  int64
	Role    domain.Role
	Company string
}

func (p Principal) IsAdmin() bool {
	return p.Role == domain.RoleAdmin
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// RequirePrincipal returns the caller or an unauthorized error when the
// request did not pass through Authenticate.
func RequirePrincipal(ctx context.Context) (Principal, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return Principal{}, apperrors.NewUnauthorizedError(apperrors.ReasonTokenMissing, "token is missing")
	}
	return p, nil
}
