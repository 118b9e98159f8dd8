// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	Avatar       *string   `db:"avatar"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Stats is the admin dashboard summary.
type Stats struct {
	TotalUsers int `db:"total_users" json:"totalUsers"`
	Admins     int `db:"admins"      json:"admins"`
	Last7Days  int `db:"last_7_days" json:"last7Days"`
}
