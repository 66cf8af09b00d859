// internal/app/features/projects/update.go
package projects

import (
	"errors"
	"net/http"

	projectstore "github.com/dalemusser/crccards/internal/app/store/projects"
	"github.com/dalemusser/crccards/internal/app/system/apijson"
	"github.com/dalemusser/crccards/internal/app/system/timeouts"
)

// HandleUpdate handles PATCH /projects/{id}. Only name and description can
// change; an empty body just refreshes updatedAt.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var in updateInput
	res, err := apijson.Bind(w, r, h.Opts.MaxBodyBytes, &in)
	if err != nil {
		h.ErrLog.LogDecodeError(w, r, err)
		return
	}
	if res.HasErrors() {
		h.ErrLog.LogValidation(w, r, "update project: validation failed", res.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update project")
	defer cancel()

	db, ok := h.database(ctx, w, r)
	if !ok {
		return
	}

	p, err := projectstore.New(db).Update(ctx, id, in.toPatch())
	if err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			apijson.WriteError(w, http.StatusNotFound, apijson.MsgNotFound)
			return
		}
		h.ErrLog.LogWriteError(w, r, "update project failed", err)
		return
	}
	apijson.WriteJSON(w, http.StatusOK, p)
}
