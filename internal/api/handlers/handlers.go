// Package handlers wires the HTTP surface: the ask endpoint, spreadsheet
// uploads with progress streaming, and the direct query endpoints.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dkapoor/ledgerlens/internal/api/middleware"
	"github.com/dkapoor/ledgerlens/internal/dispatch"
	"github.com/dkapoor/ledgerlens/internal/query"
	"github.com/dkapoor/ledgerlens/internal/upload"
)

// Handler bundles the services behind the API.
type Handler struct {
	dispatcher *dispatch.Dispatcher
	uploads    *upload.Service
	queries    *query.Service
	log        zerolog.Logger
}

func New(dispatcher *dispatch.Dispatcher, uploads *upload.Service, queries *query.Service, log zerolog.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		uploads:    uploads,
		queries:    queries,
		log:        log,
	}
}

// Routes builds the API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(h.log))
	r.Use(middleware.Recovery(h.log))
	r.Use(middleware.CORS)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/ask", h.Ask)

		r.Post("/upload", h.Upload)
		r.Post("/upload/session", h.OpenUploadSession)
		r.Get("/upload/progress", h.UploadProgress)

		r.Route("/query", func(r chi.Router) {
			r.Get("/columns", h.Columns)
			r.Post("/paginate", h.Paginate)
			r.Get("/stats", h.Statistics)
			r.Post("/filter", h.Filter)
			r.Post("/search", h.Search)
			r.Post("/amount", h.FilterByAmount)
			r.Post("/date", h.FilterByDate)
			r.Post("/status", h.FilterByStatus)
		})
	})

	return r
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
