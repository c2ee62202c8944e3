package controllers

import (
	"net/http"

	"github.com/talentbridgehq/talentbridge-backend/api/responses"
	"github.com/talentbridgehq/talentbridge-backend/pkg/config"
	"github.com/talentbridgehq/talentbridge-backend/pkg/db"
	pkgerrors "github.com/talentbridgehq/talentbridge-backend/pkg/errors"
	"github.com/talentbridgehq/talentbridge-backend/pkg/logger"
	"github.com/talentbridgehq/talentbridge-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TalentBridge-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the database answers; redis is optional
// and degrades the payload instead of failing readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TalentBridge-Env", cfg.App.Env)

		checks := map[string]string{"db": "ok"}
		if dbP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not configured"))
			return
		}
		if err := dbP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
			return
		}

		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				checks["redis"] = "unavailable"
				if logg != nil {
					logg.Warn(r.Context(), "redis ping failed")
				}
			} else {
				checks["redis"] = "ok"
			}
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
