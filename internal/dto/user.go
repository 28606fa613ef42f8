package dto

type UserResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"nome"`
	Email   string `json:"email"`
	Role    string `json:"tipo"`
	Company string `json:"empresa"`
}

// UpdateUserRequest leaves the role untouched when Role is empty.
type UpdateUserRequest struct {
	Name  string `json:"nome" validate:"required,notblank,max=120"`
	Email string `json:"email" validate:"required,email,max=190"`
	Role  string `json:"tipo" validate:"omitempty,oneof=admin employee"`
}
