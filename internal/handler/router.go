package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/activity-planner/internal/metrics"
	"github.com/Shivanand-hulikatti/activity-planner/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Services groups the domain services the router dispatches to.
type Services struct {
	Users        *service.UserService
	Activities   *service.ActivityService
	Locations    *service.LocationService
	Participants *service.ParticipantService
}

// RouterConfig carries everything NewRouter needs besides the services.
type RouterConfig struct {
	Tokens      TokenVerifier
	Metrics     *metrics.Metrics
	Log         logrus.FieldLogger
	CORSOrigins []string
}

// NewRouter builds the full HTTP API.
func NewRouter(svc Services, cfg RouterConfig) http.Handler {
	users := NewUserHandler(svc.Users, cfg.Metrics, cfg.Log)
	activities := NewActivityHandler(svc.Activities, cfg.Metrics, cfg.Log)
	locations := NewLocationHandler(svc.Locations, cfg.Log)
	participants := NewParticipantHandler(svc.Participants, cfg.Log)

	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger(cfg.Log))
	r.Use(CORS(cfg.CORSOrigins))
	r.Use(cfg.Metrics.Instrument)
	r.Use(Auth(cfg.Tokens, cfg.Log))

	r.Get("/status", Status)
	r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	r.Get("/api-docs", APIDocs(r))

	r.Route("/users", func(r chi.Router) {
		r.Get("/", users.List)
		r.Get("/{id}", users.Get)
		r.Get("/email/{email}", users.GetByEmail)
		r.Post("/login", users.Login)
		r.Post("/signup", users.Signup)
		r.Put("/update/{email}", users.Update)
		r.Delete("/delete/{id}", users.Delete)
	})

	r.Route("/activities", func(r chi.Router) {
		r.Get("/", activities.List)
		r.Get("/{id}", activities.Get)
		r.Get("/participant/{email}", activities.ListByParticipant)
		r.Post("/add", activities.Create)
		r.Put("/update/{id}", activities.Update)
		r.Put("/finish/{id}", activities.Finish)
		r.Delete("/delete/{id}", activities.Delete)
		r.Put("/add/{activityId}/participant/{participantId}", activities.AddParticipant)
		r.Put("/remove/{activityId}/participant/{participantId}", activities.RemoveParticipant)
	})

	r.Route("/locations", func(r chi.Router) {
		r.Get("/", locations.List)
		r.Get("/{id}", locations.Get)
		r.Get("/name/{name}", locations.GetByName)
		r.Post("/add", locations.Create)
		r.Put("/update/{id}", locations.Update)
		r.Delete("/delete/{id}", locations.Delete)
	})

	r.Route("/participant", func(r chi.Router) {
		r.Get("/", participants.List)
		r.Get("/id/{id}", participants.Get)
		r.Get("/{email}", participants.GetByEmail)
	})

	return r
}
