package user

import (
	"errors"
	"net/mail"
	"time"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrInvalidInput  = errors.New("invalid input")
	ErrWrongPassword = errors.New("wrong email or password")
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
}

// Validate checks the registration parameters.
func (p CreateUserParams) Validate() error {
	if p.Username == "" || p.Email == "" || p.PasswordHash == "" {
		return ErrInvalidInput
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return ErrInvalidInput
	}
	return nil
}
