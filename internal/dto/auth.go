package dto

type RegisterRequest struct {
	Name     string `json:"nome" validate:"required,notblank,max=120"`
	Email    string `json:"email" validate:"required,email,max=190"`
	Password string `json:"senha" validate:"required,min=6,max=72"`
	Role     string `json:"tipo" validate:"required,oneof=admin employee"`
	Company  string `json:"empresa" validate:"required,notblank,max=120"`
}

type RegisterResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"mensagem"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
}

// TokenResponse carries the access token. The refresh token travels only in its cookie.
type TokenResponse struct {
	Token     string `json:"token"`
	Role      string `json:"tipo"`
	ExpiresIn int64  `json:"expires_in"`
}
