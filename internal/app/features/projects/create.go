// internal/app/features/projects/create.go
package projects

import (
	"net/http"

	projectstore "github.com/dalemusser/crccards/internal/app/store/projects"
	"github.com/dalemusser/crccards/internal/app/system/apijson"
	"github.com/dalemusser/crccards/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleCreate handles POST /projects.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	res, err := apijson.Bind(w, r, h.Opts.MaxBodyBytes, &in)
	if err != nil {
		h.ErrLog.LogDecodeError(w, r, err)
		return
	}
	if res.HasErrors() {
		h.ErrLog.LogValidation(w, r, "create project: validation failed", res.Fields())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create project")
	defer cancel()

	db, ok := h.database(ctx, w, r)
	if !ok {
		return
	}

	p, err := projectstore.New(db).Create(ctx, in.toModel())
	if err != nil {
		h.ErrLog.LogWriteError(w, r, "create project failed", err)
		return
	}

	h.Log.Info("project created", zap.String("project_id", p.ID.Hex()))
	apijson.WriteJSON(w, http.StatusCreated, p)
}
