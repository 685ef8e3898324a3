package controllers

import (
	"net/http"

	"github.com/mobelhaus/showroom-backend/api/responses"
	"github.com/mobelhaus/showroom-backend/pkg/config"
	"github.com/mobelhaus/showroom-backend/pkg/db"
	pkgerrors "github.com/mobelhaus/showroom-backend/pkg/errors"
	"github.com/mobelhaus/showroom-backend/pkg/logger"
	"github.com/mobelhaus/showroom-backend/pkg/redis"
	"github.com/mobelhaus/showroom-backend/pkg/storage/gcs"
)

const envHeader = "X-Mobelhaus-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every wired dependency; nil pingers are reported as
// skipped so the same handler works for partially wired deployments.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, gcsP gcs.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]string{}

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
			checks["database"] = "ok"
		} else {
			checks["database"] = "skipped"
		}

		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
			checks["redis"] = "ok"
		} else {
			checks["redis"] = "skipped"
		}

		if gcsP != nil {
			if err := gcsP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "object storage unavailable"))
				return
			}
			checks["storage"] = "ok"
		} else {
			checks["storage"] = "skipped"
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
