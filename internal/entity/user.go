package entity

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// DashboardPath is where a freshly logged-in user of this role lands.
func (r Role) DashboardPath() string {
	switch r {
	case RoleStudent:
		return "/student"
	case RoleTeacher:
		return "/teacher"
	default:
		return "/login"
	}
}

type User struct {
	ID       int    `db:"id"`
	Username string `db:"username"`
	Name     string `db:"name"`
	Role     Role   `db:"role"`
}

type AuthCredentials struct {
	ID           int    `db:"id"`
	UserID       int    `db:"user_id"`
	PasswordHash string `db:"password_hash"`
}
