package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/asimbashir/bazario-backend/api/responses"
	"github.com/asimbashir/bazario-backend/internal/cart"
	pkgauth "github.com/asimbashir/bazario-backend/pkg/auth"
	"github.com/asimbashir/bazario-backend/pkg/config"
	"github.com/asimbashir/bazario-backend/pkg/enums"
	pkgerrors "github.com/asimbashir/bazario-backend/pkg/errors"
	"github.com/asimbashir/bazario-backend/pkg/logger"
	pkgredis "github.com/asimbashir/bazario-backend/pkg/redis"
)

// Identity resolves the cart owner for the request. A valid bearer token wins;
// otherwise the guest cookie identifies the shopper, minting a fresh guest id
// when none rides along. Every request downstream of this middleware has an
// owner in context.
func Identity(jwtCfg config.JWTConfig, guestCfg config.GuestConfig, sessions pkgredis.GuestSessionStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token := bearerToken(r); token != "" {
				claims, err := pkgauth.ParseAccessToken(jwtCfg, token)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
					return
				}

				owner := cart.UserOwner(claims.UserID)
				ctx = WithOwner(ctx, owner)
				if guestID := guestIDFromCookie(r, guestCfg.CookieName); guestID != uuid.Nil {
					ctx = WithGuestID(ctx, guestID.String())
				}
				if logg != nil {
					ctx = logg.WithUserID(ctx, claims.UserID.String())
					ctx = logg.WithCartOwner(ctx, owner.Key())
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			guestID := guestIDFromCookie(r, guestCfg.CookieName)
			if guestID == uuid.Nil {
				guestID = uuid.New()
				http.SetCookie(w, &http.Cookie{
					Name:     guestCfg.CookieName,
					Value:    guestID.String(),
					Path:     "/",
					MaxAge:   int(guestCfg.SessionTTL.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			if sessions != nil {
				// Best effort: a lost marker only skips the post-login merge.
				if err := sessions.MarkGuestSession(ctx, guestID.String(), guestCfg.SessionTTL); err != nil && logg != nil {
					logg.Warn(ctx, "guest session marker write failed")
				}
			}

			owner := cart.GuestOwner(guestID)
			ctx = WithOwner(ctx, owner)
			ctx = WithGuestID(ctx, guestID.String())
			if logg != nil {
				ctx = logg.WithCartOwner(ctx, owner.Key())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects requests whose resolved owner is not an authenticated
// user. Cart merge is the only route that needs it today.
func RequireUser(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner, ok := OwnerFromContext(r.Context())
			if !ok || owner.Kind != enums.CartOwnerUser {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}

func guestIDFromCookie(r *http.Request, name string) uuid.UUID {
	if name == "" {
		return uuid.Nil
	}
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return uuid.Nil
	}
	return id
}
