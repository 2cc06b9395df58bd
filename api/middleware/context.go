package middleware

import (
	"context"

	"github.com/asimbashir/bazario-backend/internal/cart"
)

type contextKey string

const (
	ctxOwner   contextKey = "cart_owner"
	ctxGuestID contextKey = "guest_id"
)

// OwnerFromContext returns the cart owner resolved by the identity middleware.
func OwnerFromContext(ctx context.Context) (cart.Owner, bool) {
	if ctx == nil {
		return cart.Owner{}, false
	}
	if v, ok := ctx.Value(ctxOwner).(cart.Owner); ok && v.Valid() {
		return v, true
	}
	return cart.Owner{}, false
}

// WithOwner injects the resolved cart owner into the context.
func WithOwner(ctx context.Context, owner cart.Owner) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxOwner, owner)
}

// GuestIDFromContext returns the guest session id when one rode along with an
// authenticated request, so handlers can still reach the pre-login cart.
func GuestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxGuestID).(string); ok {
		return v
	}
	return ""
}

// WithGuestID injects the guest session id into the context.
func WithGuestID(ctx context.Context, guestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxGuestID, guestID)
}
