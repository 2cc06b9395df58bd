package controllers

import (
	"net/http"

	"github.com/asimbashir/bazario-backend/api/middleware"
	"github.com/asimbashir/bazario-backend/api/responses"
	"github.com/asimbashir/bazario-backend/api/validators"
	"github.com/asimbashir/bazario-backend/internal/orders"
	pkgerrors "github.com/asimbashir/bazario-backend/pkg/errors"
	"github.com/asimbashir/bazario-backend/pkg/logger"
)

const (
	orderListDefaultLimit = 20
	orderListMaxLimit     = 100
)

// OrderList returns the shopper's order history, newest first.
func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		owner, ok := middleware.OwnerFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shopper identity missing"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", orderListDefaultLimit, 1, orderListMaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, total, err := svc.ListOrders(r.Context(), owner.Key(), limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"orders": rows,
			"total":  total,
		})
	}
}

// OrderDetail returns one order restricted to the shopper who placed it.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		owner, ok := middleware.OwnerFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "shopper identity missing"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID, owner.Key())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
