package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/talentbridgehq/talentbridge-backend/api/controllers"
	"github.com/talentbridgehq/talentbridge-backend/api/middleware"
	"github.com/talentbridgehq/talentbridge-backend/internal/assignments"
	"github.com/talentbridgehq/talentbridge-backend/pkg/config"
	"github.com/talentbridgehq/talentbridge-backend/pkg/db"
	"github.com/talentbridgehq/talentbridge-backend/pkg/logger"
	pkgredis "github.com/talentbridgehq/talentbridge-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	gatherer prometheus.Gatherer,
	assignmentService assignments.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	// A nil *Client must stay a nil interface so health checks and the
	// idempotency middleware can degrade cleanly.
	var redisP pkgredis.Pinger
	var idempotencyStore pkgredis.IdempotencyStore
	if redisClient != nil {
		redisP = redisClient
		idempotencyStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/ping", controllers.PublicPing())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, cfg.Assignments.IdempotencyTTL, logg))

		r.Get("/whoami", controllers.PrivatePing())

		r.Route("/users/agent-assignments", func(r chi.Router) {
			r.Get("/", controllers.ListAssignments(assignmentService, logg))
			r.With(middleware.RequireRole(logg, "agent", "admin")).
				Get("/me", controllers.GetOwnAssignment(assignmentService, logg))
			r.Get("/{agentId}", controllers.GetAssignment(assignmentService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, "admin"))
				r.Post("/", controllers.AssignResources(assignmentService, logg))
				r.Patch("/{agentId}/remove", controllers.RemoveResources(assignmentService, logg))
				r.Delete("/{agentId}", controllers.DeleteAssignment(assignmentService, logg))
			})
		})
	})

	return r
}
