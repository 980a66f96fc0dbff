package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/vistrack/internal/sequenceservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *sequenceservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/sequences", h.ListSequences)
	r.Post("/sequences", h.CreateSequence)
	r.Route("/sequences/{path}", func(r chi.Router) {
		r.Get("/", h.GetSequence)
		r.Put("/", h.UpdateSequence)
		r.Delete("/", h.DeleteSequence)

		r.Get("/tracks", h.ListTracks)
		r.Post("/tracks", h.AddTrack)
		r.Route("/tracks/{track}", func(r chi.Router) {
			r.Delete("/", h.RemoveTrack)
			r.Put("/interpolation", h.SetInterpolation)
			r.Put("/propagation", h.SetPropagation)
			r.Get("/frames", h.ListFrames)
			r.Post("/frames", h.AddFrame)
			r.Get("/frames/{index}", h.GetFrame)
			r.Delete("/frames/{index}", h.RemoveFrame)
		})
	})

	r.Get("/search", h.Search)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
