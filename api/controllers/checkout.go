package controllers

import (
	"net/http"

	"github.com/asimbashir/bazario-backend/api/middleware"
	"github.com/asimbashir/bazario-backend/api/responses"
	"github.com/asimbashir/bazario-backend/api/validators"
	checkoutsvc "github.com/asimbashir/bazario-backend/internal/checkout"
	"github.com/asimbashir/bazario-backend/internal/orders"
	pkgerrors "github.com/asimbashir/bazario-backend/pkg/errors"
	"github.com/asimbashir/bazario-backend/pkg/logger"
)

// Checkout places an order from the shopper's server-held cart. The shipping
// form is validated field by field inside the service so the storefront can
// show its exact per-field messages.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		owner, ok := middleware.OwnerFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shopper identity missing"))
			return
		}

		var form checkoutsvc.ShippingForm
		if err := validators.DecodeJSONBody(r, &form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), owner, form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, orders.ToDTO(order))
	}
}
