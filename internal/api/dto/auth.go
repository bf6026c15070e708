package dto

import "github.com/pratik-mahalle/arcgate/internal/domain/user"

// LoginRequest represents a login request
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Message string     `json:"message"`
	User    *user.User `json:"user"`
}
