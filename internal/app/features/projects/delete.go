// internal/app/features/projects/delete.go
package projects

import (
	"errors"
	"net/http"

	cardstore "github.com/dalemusser/crccards/internal/app/store/cards"
	projectstore "github.com/dalemusser/crccards/internal/app/store/projects"
	"github.com/dalemusser/crccards/internal/app/system/apijson"
	"github.com/dalemusser/crccards/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDelete handles DELETE /projects/{id}.
//
// By default the project's cards are left in place and keep referencing the
// deleted id. With CascadeDeleteCards the cards are removed after the
// project; the two deletes are not atomic.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	timeout := timeouts.Short()
	if h.Opts.CascadeDeleteCards {
		timeout = timeouts.Long()
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeout, h.Log, "delete project")
	defer cancel()

	db, ok := h.database(ctx, w, r)
	if !ok {
		return
	}

	if err := projectstore.New(db).Delete(ctx, id); err != nil {
		if errors.Is(err, projectstore.ErrNotFound) {
			apijson.WriteError(w, http.StatusNotFound, apijson.MsgNotFound)
			return
		}
		h.ErrLog.LogServerError(w, r, "delete project failed", err)
		return
	}

	resp := deleteResponse{OK: true}
	if h.Opts.CascadeDeleteCards {
		n, err := cardstore.New(db).DeleteByProject(ctx, id)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "cascade delete cards failed", err)
			return
		}
		resp.DeletedCards = &n
	}

	h.Log.Info("project deleted",
		zap.String("project_id", id.Hex()),
		zap.Bool("cascade", h.Opts.CascadeDeleteCards))
	apijson.WriteJSON(w, http.StatusOK, resp)
}
