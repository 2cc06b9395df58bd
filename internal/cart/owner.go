package cart

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/asimbashir/bazario-backend/pkg/enums"
)

// Owner identifies who a cart belongs to: a logged-in user or a guest session.
type Owner struct {
	Kind enums.CartOwnerKind
	ID   uuid.UUID
}

// UserOwner builds an owner for an authenticated user.
func UserOwner(id uuid.UUID) Owner {
	return Owner{Kind: enums.CartOwnerUser, ID: id}
}

// GuestOwner builds an owner for a guest session.
func GuestOwner(id uuid.UUID) Owner {
	return Owner{Kind: enums.CartOwnerGuest, ID: id}
}

// Key returns the storage key the cart record is held under.
func (o Owner) Key() string {
	return fmt.Sprintf("%s:%s", o.Kind, o.ID)
}

// Valid reports whether the owner carries a usable kind and id.
func (o Owner) Valid() bool {
	return o.Kind.IsValid() && o.ID != uuid.Nil
}
