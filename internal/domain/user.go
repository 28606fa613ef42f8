package domain

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// User is a Usuario row. Company groups users that may see each other.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Company      string
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
