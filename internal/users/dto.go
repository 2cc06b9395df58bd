package users

import (
	"github.com/google/uuid"

	"github.com/asimbashir/bazario-backend/pkg/db/models"
)

// UserDTO is the public user shape returned to clients.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// FromModel maps a user row to its public shape.
func FromModel(user *models.User) UserDTO {
	if user == nil {
		return UserDTO{}
	}
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}
