package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/asimbashir/bazario-backend/api/responses"
	"github.com/asimbashir/bazario-backend/api/validators"
	authsvc "github.com/asimbashir/bazario-backend/internal/auth"
	"github.com/asimbashir/bazario-backend/pkg/config"
	pkgerrors "github.com/asimbashir/bazario-backend/pkg/errors"
	"github.com/asimbashir/bazario-backend/pkg/logger"
)

// AuthLogin authenticates the shopper. When a guest cookie rides along the
// service folds that guest cart into the user's, so the login response already
// reflects the merged cart on the next fetch.
func AuthLogin(svc authsvc.Service, guestCfg config.GuestConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload authsvc.LoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		guestID := guestIDFromCookie(r, guestCfg.CookieName)

		resp, err := svc.Login(r.Context(), payload, guestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// The cookie only goes once the guest cart is merged; a failed or
		// skipped merge keeps it so a later login can still find the cart.
		if guestID != nil && resp.GuestCartMerged {
			expireGuestCookie(w, guestCfg.CookieName)
		}

		responses.WriteSuccess(w, resp)
	}
}

// AuthRegister creates the account and signs the shopper straight in.
func AuthRegister(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload authsvc.RegisterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Register(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

func guestIDFromCookie(r *http.Request, name string) *uuid.UUID {
	if name == "" {
		return nil
	}
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return nil
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return nil
	}
	return &id
}

func expireGuestCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
