package controllers

import (
	"net/http"

	"go.uber.org/multierr"

	"github.com/asimbashir/bazario-backend/api/responses"
	"github.com/asimbashir/bazario-backend/pkg/config"
	"github.com/asimbashir/bazario-backend/pkg/db"
	pkgerrors "github.com/asimbashir/bazario-backend/pkg/errors"
	"github.com/asimbashir/bazario-backend/pkg/logger"
	pkgredis "github.com/asimbashir/bazario-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bazario-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady fans out to the backing stores and reports unavailable when any
// of them fails to answer.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Bazario-Env", cfg.App.Env)

		var errs error
		if dbP != nil {
			errs = multierr.Append(errs, dbP.Ping(r.Context()))
		}
		if redisP != nil {
			errs = multierr.Append(errs, redisP.Ping(r.Context()))
		}

		if errs != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "readiness check failed"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
