package models

import (
	"time"

	"github.com/GThiruAishwarya/kristaball/pkg/roles"
)

type User struct {
	ID           int        `json:"user_id" db:"user_id"`
	Username     string     `json:"username" db:"username"`
	FullName     string     `json:"full_name" db:"full_name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         roles.Role `json:"role" db:"role"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	Password *string `json:"password"`
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
}

// UserChanges is the resolved set of column updates for a user.
type UserChanges struct {
	PasswordHash *string
	FullName     *string
	Email        *string
	Role         *string
}

func (c *UserChanges) HasChanges() bool {
	return c.PasswordHash != nil || c.FullName != nil || c.Email != nil || c.Role != nil
}
