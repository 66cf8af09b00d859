// internal/app/features/cards/create.go
package cards

import (
	"net/http"

	cardstore "github.com/dalemusser/crccards/internal/app/store/cards"
	"github.com/dalemusser/crccards/internal/app/system/apijson"
	"github.com/dalemusser/crccards/internal/app/system/inputval"
	"github.com/dalemusser/crccards/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleCreate handles POST /cards. The referenced project is not required
// to exist; only the id format is checked.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	res, err := apijson.Bind(w, r, h.MaxBodyBytes, &in)
	if err != nil {
		h.ErrLog.LogDecodeError(w, r, err)
		return
	}
	if res.HasErrors() {
		h.ErrLog.LogValidation(w, r, "create card: validation failed", res.Fields())
		return
	}
	projectID, ok := inputval.ParseObjectID(in.ProjectID)
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "create card: malformed projectId", nil, apijson.MsgInvalidProjectID)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create card")
	defer cancel()

	db, ok := h.database(ctx, w, r)
	if !ok {
		return
	}

	c, err := cardstore.New(db).Create(ctx, in.toModel(projectID))
	if err != nil {
		h.ErrLog.LogWriteError(w, r, "create card failed", err)
		return
	}

	h.Log.Info("card created",
		zap.String("card_id", c.ID.Hex()),
		zap.String("project_id", c.ProjectID.Hex()))
	apijson.WriteJSON(w, http.StatusCreated, c)
}
