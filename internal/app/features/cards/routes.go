// internal/app/features/cards/routes.go
package cards

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the card endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// LIST - optionally filtered by ?projectId=
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)

	r.Get("/{id}", h.ServeGet)
	r.Patch("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
