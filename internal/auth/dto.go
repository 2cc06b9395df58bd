package auth

import "github.com/asimbashir/bazario-backend/internal/users"

// LoginRequest is the credentials payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest captures the signup form.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// LoginResponse carries the minted token plus the public user shape.
// GuestCartMerged tells the handler the guest cart was folded in, so the
// guest cookie can be retired; until then the cookie must survive for a
// retry on a later login.
type LoginResponse struct {
	AccessToken     string        `json:"access_token"`
	User            users.UserDTO `json:"user"`
	GuestCartMerged bool          `json:"-"`
}
