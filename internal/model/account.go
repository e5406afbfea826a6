package model

import "time"

// AccountRole distinguishes student and instructor accounts.
type AccountRole string

const (
	RoleStudent    AccountRole = "student"
	RoleInstructor AccountRole = "instructor"
)

// Account is an authentication identity (email + password hash). It is
// distinct from Student: the session core bridges the two by the email's
// local part when an attempt is started.
type Account struct {
	ID           int64       `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         AccountRole `json:"role"`
	CreatedAt    time.Time   `json:"created_at"`
}

// SignupRequest is the payload for creating a new account.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginRequest is the payload for authenticating an account.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned after a successful login or signup.
type LoginResponse struct {
	Token   string  `json:"token"`
	Account Account `json:"account"`
}
