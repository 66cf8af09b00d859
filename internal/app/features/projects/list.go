// internal/app/features/projects/list.go
package projects

import (
	"net/http"

	projectstore "github.com/dalemusser/crccards/internal/app/store/projects"
	"github.com/dalemusser/crccards/internal/app/system/apijson"
	"github.com/dalemusser/crccards/internal/app/system/timeouts"
)

// ServeList handles GET /projects, most recently updated first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list projects")
	defer cancel()

	db, ok := h.database(ctx, w, r)
	if !ok {
		return
	}

	list, err := projectstore.New(db).List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list projects failed", err)
		return
	}
	apijson.WriteJSON(w, http.StatusOK, list)
}
