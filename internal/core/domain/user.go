package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var ErrUserExists = errors.New("username already taken")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")

// User models an authenticated actor in the system.
type User struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// RoleForUsername applies the registration heuristic: the reserved username
// "admin" (case-insensitive) gets the admin role, everyone else is a regular
// user.
func RoleForUsername(username string) string {
	if strings.EqualFold(username, RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}
