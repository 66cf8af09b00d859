// internal/app/features/projects/get.go
package projects

import (
	"errors"
	"net/http"

	projectstore "github.com/dalemusser/crccards/internal/app/store/projects"
	"github.com/dalemusser/crccards/internal/app/system/apijson"
	"github.com/dalemusser/crccards/internal/app/system/timeouts"
)

// ServeGet handles GET /projects/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get project")
	defer cancel()

	db, ok := h.database(ctx, w, r)
	if !ok {
		return
	}

	p, err := projectstore.New(db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			apijson.WriteError(w, http.StatusNotFound, apijson.MsgNotFound)
			return
		}
		h.ErrLog.LogServerError(w, r, "get project failed", err)
		return
	}
	apijson.WriteJSON(w, http.StatusOK, p)
}
