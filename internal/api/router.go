// Package api wires the HTTP surface of the scheduler.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/lanchinho/scheduler/internal/api/handler"
	"github.com/lanchinho/scheduler/internal/api/middleware"
	"github.com/lanchinho/scheduler/internal/service"
)

// NewRouter builds the HTTP router for the given service.
func NewRouter(svc *service.ScheduleService) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	participants := handler.NewParticipantHandler(svc)
	schedule := handler.NewScheduleHandler(svc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ContentType)

		r.Get("/participants", participants.List)
		r.Post("/participants", participants.Create)
		r.Delete("/participants/{name}", participants.Delete)

		r.Get("/schedule", schedule.Resolve)
		r.Delete("/schedule/{month}", schedule.Reset)
		r.Put("/schedule/groups", schedule.Edit)
		r.Get("/schedule/dates", schedule.Dates)
	})

	return r
}
